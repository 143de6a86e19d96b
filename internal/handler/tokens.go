package handler

import (
	"time"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/auth"
)

// Tokens issues the bearer token returned when a session is created.
type Tokens struct {
	Secret string
	TTL    time.Duration
}

func (t Tokens) issue(sessionID, kind string) (string, error) {
	return auth.GenerateToken(t.Secret, sessionID, kind, t.TTL)
}
