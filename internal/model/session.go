package model

import "time"

// AdminSession is a server-side login session. Only the HMAC of the token
// is stored; the token itself lives in the browser cookie.
type AdminSession struct {
	ID         string    `db:"id" json:"id"`
	AdminEmail string    `db:"admin_email" json:"adminEmail"`
	TokenHash  string    `db:"token_hash" json:"-"`
	ExpiresAt  time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

type CreateAdminSessionParams struct {
	AdminEmail string
	TokenHash  string
	ExpiresAt  time.Time
}
