package model

import "time"

const EventProjectDeleted = "project.deleted"

// ProjectEvent is published to the message broker after a project mutation.
type ProjectEvent struct {
	Type       string    `json:"type"`
	ProjectID  string    `json:"project_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
