package app

import (
	"context"
	"errors"
	"log"
	"strings"

	"portfolio-api/internal/model"
	"portfolio-api/internal/platform/filestore"
	"portfolio-api/internal/repository"
)

// EventPublisher delivers project lifecycle events to background consumers.
type EventPublisher interface {
	PublishProjectEvent(ctx context.Context, event model.ProjectEvent) error
}

type ProjectService struct {
	projects    repository.ProjectStore
	tasks       repository.TaskStore
	tx          repository.Transactor
	publisher   EventPublisher
	files       filestore.Store
	maxFileSize int64
}

type ProjectQuery struct {
	UserID      string
	Status      string
	ProjectType string
	Skip        int64
	Limit       int64
}

// NewProjectService wires the project use cases. publisher may be nil, in
// which case no events are emitted.
func NewProjectService(
	projects repository.ProjectStore,
	tasks repository.TaskStore,
	tx repository.Transactor,
	publisher EventPublisher,
	files filestore.Store,
	maxFileSize int64,
) *ProjectService {
	return &ProjectService{
		projects:    projects,
		tasks:       tasks,
		tx:          tx,
		publisher:   publisher,
		files:       files,
		maxFileSize: maxFileSize,
	}
}

func validateProjectFields(f model.ProjectFields) (model.ProjectFields, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	if f.Title == "" {
		return f, ErrInvalidInput
	}
	f.Status = withDefault(f.Status, model.ProjectStatusPlanning)
	f.ProjectType = withDefault(f.ProjectType, model.ProjectTypeSoftware)
	f.Priority = withDefault(f.Priority, model.PriorityMedium)
	if !oneOf(f.Status, model.ProjectStatusPlanning, model.ProjectStatusInProgress, model.ProjectStatusCompleted, model.ProjectStatusOnHold) ||
		!oneOf(f.ProjectType, model.ProjectTypeSoftware, model.ProjectTypeDesign, model.ProjectTypeBusiness, model.ProjectTypeOther) ||
		!validPriority(f.Priority) {
		return f, ErrInvalidInput
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return f, ErrInvalidInput
	}
	f.Technologies = cleanList(f.Technologies)
	f.Tags = cleanList(f.Tags)
	return f, nil
}

func validPriority(p string) bool {
	return oneOf(p, model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityCritical)
}

func (s *ProjectService) Create(ctx context.Context, ownerID string, fields model.ProjectFields) (*model.Project, error) {
	fields, err := validateProjectFields(fields)
	if err != nil {
		return nil, err
	}

	now := nowUTC()
	project := &model.Project{
		ID:        newID(),
		UserID:    ownerID,
		Files:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyProjectFields(project, fields)
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func applyProjectFields(p *model.Project, f model.ProjectFields) {
	p.Title = f.Title
	p.Description = f.Description
	p.Technologies = f.Technologies
	p.Status = f.Status
	p.StartDate = f.StartDate
	p.EndDate = f.EndDate
	p.ProjectType = f.ProjectType
	p.Priority = f.Priority
	p.Tags = f.Tags
}

// List returns the requester's projects, newest first. Asking for another
// user's projects is forbidden.
func (s *ProjectService) List(ctx context.Context, requesterID string, q ProjectQuery) ([]model.Project, error) {
	if q.UserID != "" && Authorize(requesterID, q.UserID) != Allowed {
		return nil, ErrForbidden
	}
	skip, limit := clampPage(q.Skip, q.Limit)
	return s.projects.List(ctx, model.ProjectFilter{
		UserID:      requesterID,
		Status:      q.Status,
		ProjectType: q.ProjectType,
		Skip:        skip,
		Limit:       limit,
	})
}

func (s *ProjectService) Get(ctx context.Context, requesterID, id string) (*model.Project, error) {
	return ownedProject(ctx, s.projects, requesterID, id)
}

func (s *ProjectService) Update(ctx context.Context, requesterID, id string, fields model.ProjectFields) (*model.Project, error) {
	project, err := ownedProject(ctx, s.projects, requesterID, id)
	if err != nil {
		return nil, err
	}
	fields, err = validateProjectFields(fields)
	if err != nil {
		return nil, err
	}

	applyProjectFields(project, fields)
	project.UpdatedAt = nowUTC()
	if err := s.projects.Update(ctx, project); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// Delete removes the project and every task under it. Both deletes share a
// transaction when the store supports one; otherwise a crash between them
// leaves orphan tasks for the project event worker and the orphan sweeper.
func (s *ProjectService) Delete(ctx context.Context, requesterID, id string) error {
	project, err := ownedProject(ctx, s.projects, requesterID, id)
	if err != nil {
		return err
	}

	var removedTasks int64
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		n, err := s.tasks.DeleteByProjectID(txCtx, project.ID)
		if err != nil {
			return err
		}
		removedTasks = n
		return s.projects.Delete(txCtx, project.ID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	log.Printf("project %s deleted with %d tasks", project.ID, removedTasks)

	s.publish(ctx, model.ProjectEvent{
		Type:       model.EventProjectDeleted,
		ProjectID:  project.ID,
		UserID:     project.UserID,
		OccurredAt: nowUTC(),
	})
	return nil
}

func (s *ProjectService) publish(ctx context.Context, event model.ProjectEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishProjectEvent(ctx, event); err != nil {
		log.Printf("publish %s for project %s failed: %v", event.Type, event.ProjectID, err)
	}
}
