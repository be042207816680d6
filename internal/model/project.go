package model

import "time"

const (
	ProjectStatusPlanning   = "planning"
	ProjectStatusInProgress = "in-progress"
	ProjectStatusCompleted  = "completed"
	ProjectStatusOnHold     = "on-hold"

	ProjectTypeSoftware = "software"
	ProjectTypeDesign   = "design"
	ProjectTypeBusiness = "business"
	ProjectTypeOther    = "other"

	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

type Project struct {
	ID           string     `bson:"_id" json:"id"`
	UserID       string     `bson:"user_id" json:"user_id"`
	Title        string     `bson:"title" json:"title"`
	Description  string     `bson:"description" json:"description"`
	Technologies []string   `bson:"technologies" json:"technologies"`
	Status       string     `bson:"status" json:"status"`
	StartDate    *time.Time `bson:"start_date" json:"start_date"`
	EndDate      *time.Time `bson:"end_date" json:"end_date"`
	ProjectType  string     `bson:"project_type" json:"project_type"`
	Priority     string     `bson:"priority" json:"priority"`
	Tags         []string   `bson:"tags" json:"tags"`
	Files        []string   `bson:"files" json:"files"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}

// ProjectFields holds the writable attributes of a project.
type ProjectFields struct {
	Title        string
	Description  string
	Technologies []string
	Status       string
	StartDate    *time.Time
	EndDate      *time.Time
	ProjectType  string
	Priority     string
	Tags         []string
}

type ProjectFilter struct {
	UserID      string
	Status      string
	ProjectType string
	Skip        int64
	Limit       int64
}
