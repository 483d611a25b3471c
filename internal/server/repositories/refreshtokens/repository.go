// Package refreshtokens persists the opaque refresh tokens handed to admins.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/folio/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token for adminID with an expiry of now+validity.
	Create(ctx context.Context, adminID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a token. Deleting a missing token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired purges tokens that expired before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
