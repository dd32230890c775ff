package models

import "time"

// Event is the payload published to the event stream for lifecycle
// changes (account registered, post created, moderation transitions).
type Event struct {
	Type     string    `json:"type"`
	EntityID int64     `json:"entity_id"`
	ActorID  int64     `json:"actor_id"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}
