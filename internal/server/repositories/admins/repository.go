// Package admins persists admin accounts.
package admins

import (
	"context"

	"github.com/dmitrijs2005/folio/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, email, passwordHash string) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
}
