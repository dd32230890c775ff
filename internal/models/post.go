package models

import (
	"time"
)

// PostStatus is the moderation lifecycle state of a post.
type PostStatus string

const (
	PostStatusPending  PostStatus = "pending"
	PostStatusApproved PostStatus = "approved"
	PostStatusRejected PostStatus = "rejected"
)

// Valid reports whether s is a known moderation status.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusPending, PostStatusApproved, PostStatusRejected:
		return true
	}
	return false
}

// PostDB represents a post record in the database
type PostDB struct {
	ID          int64      `json:"id" db:"id"`                   // Primary key
	Title       string     `json:"title" db:"title"`             // Post title
	Description *string    `json:"description" db:"description"` // Optional body
	Photo       *string    `json:"photo" db:"photo"`             // Optional photo link
	OwnerID     int64      `json:"owner_id" db:"owner_id"`       // Owning user
	Status      PostStatus `json:"status" db:"status"`           // Moderation status, defaults to pending
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`   // Creation timestamp
}

// PostDetail is a post enriched with the owner's public profile.
type PostDetail struct {
	PostDB
	Owner UserPublic `json:"owner"`
}

// PostFilter holds equality filters for post listings.
// A nil field matches everything.
type PostFilter struct {
	OwnerID *int64
	Title   *string
}
