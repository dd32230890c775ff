package models

import (
	"time"
)

// UserDB represents a user record in the database
type UserDB struct {
	ID           int64     `json:"id" db:"id"`                           // Primary key
	Username     string    `json:"username" db:"username"`               // Unique username
	PasswordHash string    `json:"-" db:"password_hash"`                 // Bcrypt hash, never serialized
	FullName     string    `json:"full_name" db:"full_name"`             // Display name
	Email        string    `json:"email" db:"email"`                     // User email
	Avatar       *string   `json:"avatar,omitempty" db:"avatar"`         // Avatar image link
	IsSuperuser  bool      `json:"is_superuser" db:"is_superuser"`       // Admin privilege flag
	IsActive     bool      `json:"is_active" db:"is_active"`             // Activity flag
	IsApproved   bool      `json:"is_approved" db:"is_approved"`         // Approval flag
	CreatedAt    time.Time `json:"created_at" db:"created_at"`           // Creation timestamp
	CreatedBy    *int64    `json:"created_by,omitempty" db:"created_by"` // Creator reference, optional
}

// UserPublic is the owner profile embedded in enriched reads.
type UserPublic struct {
	ID       int64   `json:"id" db:"owner_user_id"`
	Username string  `json:"username" db:"owner_username"`
	Avatar   *string `json:"avatar,omitempty" db:"owner_avatar"`
}

// UserFilter holds equality filters for user listings.
// A nil field matches everything.
type UserFilter struct {
	Username    *string
	FullName    *string
	IsSuperuser *bool
}
