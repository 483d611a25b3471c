package models

import "time"

// Admin is an account allowed into the admin panel and the content API.
type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
