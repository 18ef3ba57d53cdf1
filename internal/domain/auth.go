package domain

import "time"

// Token describes an issued session token.
type Token struct {
	ID        string
	Username  string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
