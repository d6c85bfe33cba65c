package model

import (
	"time"
)

type Admin struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type CreateAdminParams struct {
	Email        string
	Username     string
	PasswordHash string
}

// UpdateAdminParams rewrites email and username; a nil PasswordHash keeps
// the stored hash.
type UpdateAdminParams struct {
	Email        string
	Username     string
	PasswordHash *string
}

// IdentitySource distinguishes a persisted admin row from the bootstrap
// identity materialized from configuration when the table is still empty.
type IdentitySource string

const (
	IdentityPersisted IdentitySource = "persisted"
	IdentityBootstrap IdentitySource = "bootstrap"
)

// Identity is the minimal payload returned on successful authentication.
// A bootstrap identity has no ID: it is never stored, listed, or deletable.
type Identity struct {
	ID       string         `json:"id,omitempty"`
	Email    string         `json:"email"`
	Username string         `json:"username"`
	Source   IdentitySource `json:"source"`
}
