package model

type CompletionStats struct {
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	InProgress     *int64  `json:"in_progress,omitempty"`
	CompletionRate float64 `json:"completion_rate"`
}

type DashboardStats struct {
	Projects     CompletionStats  `json:"projects"`
	Tasks        CompletionStats  `json:"tasks"`
	ProjectTypes map[string]int64 `json:"project_types"`
}
