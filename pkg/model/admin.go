package model

import "time"

// AdminToken is the decoded identity carried by a verified bearer token.
type AdminToken struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// LoginRequest carries admin credentials for token issuance.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns a signed token and its lifetime in seconds.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}
