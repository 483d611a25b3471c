package models

import "time"

type RefreshToken struct {
	AdminID string
	Token   string
	Expires time.Time
}
