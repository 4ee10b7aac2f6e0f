package domain

import "time"

// Claims is the identity payload embedded in an access token.
type Claims struct {
	Subject   string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthMethod records which gate authenticated a request.
type AuthMethod string

const (
	AuthMethodPassword AuthMethod = "password"
	AuthMethodBearer   AuthMethod = "bearer"
)

// Caller is attached to the request context by an auth gate. Author is only
// populated by the password-header strategy, which loads the full record.
type Caller struct {
	ID     string
	Role   Role
	Method AuthMethod
	Author *Author
}
