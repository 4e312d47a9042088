package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccessToken is an issued access token record.
type AccessToken struct {
	ID        uuid.UUID `json:"id"`
	Owner     string    `json:"owner"`
	Token     string    `json:"-"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
}

// Principal is the authenticated caller.
type Principal struct {
	Username string
	TokenID  uuid.UUID
}
