package users

import (
	"encoding/json"
	"time"
)

// User represents a storefront account. Passwords are stored as bcrypt hashes
// and never serialized.
type User struct {
	ID           int64           `json:"id"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Phone        *string         `json:"phone,omitempty"`
	Role         string          `json:"role"`
	IsActive     bool            `json:"isActive"`
	Avatar       *string         `json:"avatar,omitempty"`
	Address      json.RawMessage `json:"address,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Summary is the denormalized identity attached to order responses.
type Summary struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
}

// ProfileUpdate carries the profile fields a user may change. Nil fields are
// left untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Avatar    *string
	Address   json.RawMessage
}
