package model

import "time"

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusReview     = "review"
	TaskStatusCompleted  = "completed"
)

type Task struct {
	ID             string     `bson:"_id" json:"id"`
	ProjectID      string     `bson:"project_id" json:"project_id"`
	Title          string     `bson:"title" json:"title"`
	Description    *string    `bson:"description" json:"description"`
	Status         string     `bson:"status" json:"status"`
	Priority       string     `bson:"priority" json:"priority"`
	DueDate        *time.Time `bson:"due_date" json:"due_date"`
	EstimatedHours *float64   `bson:"estimated_hours" json:"estimated_hours"`
	CompletedAt    *time.Time `bson:"completed_at" json:"completed_at"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `bson:"updated_at" json:"updated_at"`
}

type TaskFields struct {
	Title          string
	Description    *string
	Status         string
	Priority       string
	DueDate        *time.Time
	EstimatedHours *float64
}
