package app

import (
	"context"
	"fmt"
	"math"

	"portfolio-api/internal/model"
	"portfolio-api/internal/repository"
)

// AnalyticsService computes dashboard statistics straight from the store on
// every call. The counts come from separate queries and may be momentarily
// inconsistent under concurrent writes.
type AnalyticsService struct {
	projects repository.ProjectStore
	tasks    repository.TaskStore
}

func NewAnalyticsService(projects repository.ProjectStore, tasks repository.TaskStore) *AnalyticsService {
	return &AnalyticsService{projects: projects, tasks: tasks}
}

func (s *AnalyticsService) Dashboard(ctx context.Context, userID string) (*model.DashboardStats, error) {
	totalProjects, err := s.projects.Count(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("count projects failed: %w", err)
	}
	completedProjects, err := s.projects.Count(ctx, userID, model.ProjectStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("count completed projects failed: %w", err)
	}
	inProgressProjects, err := s.projects.Count(ctx, userID, model.ProjectStatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("count in-progress projects failed: %w", err)
	}

	projectIDs, err := s.projects.IDsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("collect project ids failed: %w", err)
	}
	var totalTasks, completedTasks int64
	if len(projectIDs) > 0 {
		if totalTasks, err = s.tasks.CountByProjects(ctx, projectIDs, ""); err != nil {
			return nil, fmt.Errorf("count tasks failed: %w", err)
		}
		if completedTasks, err = s.tasks.CountByProjects(ctx, projectIDs, model.TaskStatusCompleted); err != nil {
			return nil, fmt.Errorf("count completed tasks failed: %w", err)
		}
	}

	types, err := s.projects.CountByType(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("group project types failed: %w", err)
	}
	for k, v := range types {
		if v <= 0 {
			delete(types, k)
		}
	}

	return &model.DashboardStats{
		Projects: model.CompletionStats{
			Total:          totalProjects,
			Completed:      completedProjects,
			InProgress:     &inProgressProjects,
			CompletionRate: CompletionRate(completedProjects, totalProjects),
		},
		Tasks: model.CompletionStats{
			Total:          totalTasks,
			Completed:      completedTasks,
			CompletionRate: CompletionRate(completedTasks, totalTasks),
		},
		ProjectTypes: types,
	}, nil
}

// CompletionRate returns completed/total as a percentage rounded to one
// decimal place, or 0 when total is 0.
func CompletionRate(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}
