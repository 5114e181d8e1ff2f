package model

import "time"

// Account roles.  Owners run facilities and manage their courts;
// customers book them.  Admin accounts are provisioned directly in the
// database and exist for queue administration.
const (
	RoleAdmin    = "ADMIN"
	RoleOwner    = "OWNER"
	RoleCustomer = "CUSTOMER"
)

// User mirrors the users table.  Handlers never serialize this struct
// directly; responses use their own types so the password hash cannot
// leak through a careless JSON tag.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
