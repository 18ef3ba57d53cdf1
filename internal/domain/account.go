package domain

import "time"

// Role is the coarse permission label attached to an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Account is a registered directory entry. PasswordHash holds the bcrypt
// digest; the plaintext password is never kept.
type Account struct {
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// RoleOrDefault returns r, or RoleUser when r is empty.
func RoleOrDefault(r Role) Role {
	if r == "" {
		return RoleUser
	}
	return r
}

// SelfServiceRole is the role granted to a public registration that asked for
// r. Admin cannot be self-assigned; it only comes from seeded accounts.
func SelfServiceRole(r Role) Role {
	if r == RoleAdmin {
		return RoleUser
	}
	return RoleOrDefault(r)
}
