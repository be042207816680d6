package repository

import (
	"context"
	"errors"
	"time"

	"portfolio-api/internal/model"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Lookups return (nil, nil) when the record does not exist. Mutations on a
// missing record return ErrNotFound.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, skip, limit int64) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type ProjectStore interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, filter model.ProjectFilter) ([]model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	AppendFile(ctx context.Context, id, filename string, at time.Time) error
	Delete(ctx context.Context, id string) error
	// Count counts the user's projects, optionally restricted to one status.
	Count(ctx context.Context, userID, status string) (int64, error)
	IDsByUser(ctx context.Context, userID string) ([]string, error)
	CountByType(ctx context.Context, userID string) (map[string]int64, error)
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
}

type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	ListByProject(ctx context.Context, projectID, status string) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id string) error
	DeleteByProjectID(ctx context.Context, projectID string) (int64, error)
	DeleteByProjectIDs(ctx context.Context, projectIDs []string) (int64, error)
	// CountByProjects counts tasks under the given projects, optionally
	// restricted to one status. An empty id set counts nothing.
	CountByProjects(ctx context.Context, projectIDs []string, status string) (int64, error)
	DistinctProjectIDs(ctx context.Context) ([]string, error)
}

// Transactor runs fn so that every store call made with the ctx it receives
// commits or aborts together, when the backing store supports it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

var (
	_ UserStore    = (*UserRepository)(nil)
	_ ProjectStore = (*ProjectRepository)(nil)
	_ TaskStore    = (*TaskRepository)(nil)
	_ Transactor   = (*MongoTransactor)(nil)

	_ UserStore    = (*MemoryUserRepository)(nil)
	_ ProjectStore = (*MemoryProjectRepository)(nil)
	_ TaskStore    = (*MemoryTaskRepository)(nil)
	_ Transactor   = PassthroughTransactor{}
)
