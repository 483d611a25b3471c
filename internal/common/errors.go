package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal          = errors.New("internal error")
	ErrorUnauthorized      = errors.New("unauthorized")
	ErrorValidation        = errors.New("validation error")
	ErrorUnknownCollection = errors.New("unknown collection")
	ErrorInvalidReference  = errors.New("invalid reference")
	ErrorAlreadyExists     = errors.New("already exists")

	// Payment errors.
	ErrorInvalidSignature = errors.New("invalid signature")
	ErrorInvalidAmount    = errors.New("invalid amount")

	// Media errors.
	ErrorUploadFailed = errors.New("upload failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
