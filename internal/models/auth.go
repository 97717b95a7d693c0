package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// AdminRole is the free-form role label carried in the credential table.
type AdminRole string

const (
	RoleAdministrator AdminRole = "Administrator"
	RoleManager       AdminRole = "Manager"
)

// LoginRequest holds dashboard credentials.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued token and the admin's identity.
type LoginResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    AdminInfo `json:"user"`
}

// AdminInfo describes the authenticated admin in responses.
type AdminInfo struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name,omitempty"`
	Role     AdminRole `json:"role"`
}

// AdminClaims is the token payload. Only exp is used from the registered claims in legacy mode.
type AdminClaims struct {
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	Role     AdminRole `json:"role"`
	jwt.RegisteredClaims
}

// AdminCredential is one row of the static credential table. Password holds either plaintext
// or a bcrypt hash.
type AdminCredential struct {
	ID       string
	Username string
	Password string
	Name     string
	Role     AdminRole
}

// Info returns the public view of the credential.
func (c AdminCredential) Info() AdminInfo {
	return AdminInfo{ID: c.ID, Username: c.Username, Name: c.Name, Role: c.Role}
}
