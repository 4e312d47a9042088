package tokenpkg

import (
	"fmt"
	"time"
)

// Maker is an interface for managing tokens.
type Maker interface {
	// CreateToken creates a new token for a specific username and duration.
	CreateToken(username string, duration time.Duration) (string, *Payload, error)
	// VerifyToken checks if the token is valid or not.
	VerifyToken(token string) (*Payload, error)
}

// Token kinds accepted by NewMaker.
const (
	KindPaseto = "paseto"
	KindJWT    = "jwt"
)

// NewMaker returns the token maker of the given kind.
func NewMaker(kind, symmetricKey string) (Maker, error) {
	switch kind {
	case KindPaseto, "":
		return NewPasetoMaker(symmetricKey)
	case KindJWT:
		return NewJWTMaker(symmetricKey)
	default:
		return nil, fmt.Errorf("unsupported token kind %q", kind)
	}
}
