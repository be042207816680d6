package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio-api/internal/model"
	"portfolio-api/internal/repository"
)

// TaskService requires the caller to own the task's parent project for
// every operation.
type TaskService struct {
	tasks    repository.TaskStore
	projects repository.ProjectStore
}

func NewTaskService(tasks repository.TaskStore, projects repository.ProjectStore) *TaskService {
	return &TaskService{tasks: tasks, projects: projects}
}

func validateTaskFields(f model.TaskFields) (model.TaskFields, error) {
	f.Title = strings.TrimSpace(f.Title)
	if f.Title == "" {
		return f, ErrInvalidInput
	}
	f.Status = withDefault(f.Status, model.TaskStatusTodo)
	f.Priority = withDefault(f.Priority, model.PriorityMedium)
	if !oneOf(f.Status, model.TaskStatusTodo, model.TaskStatusInProgress, model.TaskStatusReview, model.TaskStatusCompleted) ||
		!validPriority(f.Priority) {
		return f, ErrInvalidInput
	}
	if f.EstimatedHours != nil && *f.EstimatedHours < 0 {
		return f, ErrInvalidInput
	}
	return f, nil
}

func (s *TaskService) Create(ctx context.Context, requesterID, projectID string, fields model.TaskFields) (*model.Task, error) {
	project, err := ownedProject(ctx, s.projects, requesterID, projectID)
	if err != nil {
		return nil, err
	}
	fields, err = validateTaskFields(fields)
	if err != nil {
		return nil, err
	}

	now := nowUTC()
	task := &model.Task{
		ID:        newID(),
		ProjectID: project.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyTaskFields(task, fields, now)
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, requesterID, projectID, status string) ([]model.Task, error) {
	if _, err := ownedProject(ctx, s.projects, requesterID, projectID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID, status)
}

func (s *TaskService) Update(ctx context.Context, requesterID, taskID string, fields model.TaskFields) (*model.Task, error) {
	task, err := s.ownedTask(ctx, requesterID, taskID)
	if err != nil {
		return nil, err
	}
	fields, err = validateTaskFields(fields)
	if err != nil {
		return nil, err
	}

	now := nowUTC()
	applyTaskFields(task, fields, now)
	task.UpdatedAt = now
	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, requesterID, taskID string) error {
	task, err := s.ownedTask(ctx, requesterID, taskID)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

// ownedTask loads a task and checks ownership through its project. A task
// whose project is gone is treated as missing.
func (s *TaskService) ownedTask(ctx context.Context, requesterID, taskID string) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if _, err := ownedProject(ctx, s.projects, requesterID, task.ProjectID); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// applyTaskFields copies fields onto task and maintains CompletedAt: it is
// stamped on entering completed, kept while staying completed, and cleared
// on leaving it.
func applyTaskFields(task *model.Task, f model.TaskFields, now time.Time) {
	wasCompleted := task.Status == model.TaskStatusCompleted
	task.Title = f.Title
	task.Description = f.Description
	task.Status = f.Status
	task.Priority = f.Priority
	task.DueDate = f.DueDate
	task.EstimatedHours = f.EstimatedHours

	switch {
	case f.Status != model.TaskStatusCompleted:
		task.CompletedAt = nil
	case !wasCompleted || task.CompletedAt == nil:
		completedAt := now
		task.CompletedAt = &completedAt
	}
}
