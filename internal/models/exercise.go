package models

import (
	"time"
)

// ExerciseDB represents an exercise record in the database
type ExerciseDB struct {
	ID      int64     `json:"id" db:"id"`             // Primary key
	Text    string    `json:"text" db:"text"`         // Exercise body
	Photo   *string   `json:"photo" db:"photo"`       // Optional photo link
	Time    time.Time `json:"time" db:"time"`         // Scheduled time
	OwnerID int64     `json:"owner_id" db:"owner_id"` // Owning user
}
