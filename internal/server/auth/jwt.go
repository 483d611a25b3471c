// Package auth issues and verifies the admin access tokens and hashes
// admin passwords.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/folio/internal/common"
)

// Claims carries the registered claims plus the admin's id and email.
type Claims struct {
	jwt.RegisteredClaims
	AdminID string `json:"aid"`
	Email   string `json:"email,omitempty"`
}

// GenerateToken signs an HS256 access token for the given admin.
func GenerateToken(adminID, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "folio",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		AdminID: adminID,
		Email:   email,
	})

	return token.SignedString(secretKey)
}

// ParseToken validates tokenString and returns its claims.
// An expired token yields common.ErrTokenExpired, anything else that fails
// validation yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.AdminID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// GetAdminIDFromToken is ParseToken reduced to the admin id.
func GetAdminIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	return claims.AdminID, nil
}
