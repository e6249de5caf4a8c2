// Package models defines API account credentials.
package models

import (
	"time"

	"hangar/pkg/domain"
)

// Credential binds an account address to a hashed API secret. The plaintext
// secret is returned exactly once, at registration.
type Credential struct {
	Account    domain.AccountID
	SecretHash string
	CreatedAt  time.Time
}
