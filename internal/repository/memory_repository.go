package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"portfolio-api/internal/model"
)

// The Memory* repositories keep documents in process memory. They back the
// "memory" storage driver and the service tests.

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User
	seq   map[string]int64
	next  int64
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]model.User),
		seq:   make(map[string]int64),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return ErrDuplicateKey
	}
	if r.emailTaken(user.Email, "") {
		return ErrDuplicateKey
	}
	r.next++
	r.seq[user.ID] = r.next
	r.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *MemoryUserRepository) emailTaken(email, exceptID string) bool {
	for id, u := range r.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	out := cloneUser(user)
	return &out, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			out := cloneUser(user)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) List(_ context.Context, skip, limit int64) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, cloneUser(user))
	}
	sort.Slice(users, func(i, j int) bool {
		return r.seq[users[i].ID] < r.seq[users[j].ID]
	})
	return page(users, skip, limit), nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return ErrDuplicateKey
	}
	updated := cloneUser(*user)
	updated.PasswordHash = current.PasswordHash
	updated.CreatedAt = current.CreatedAt
	r.users[user.ID] = updated
	return nil
}

type MemoryProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]model.Project
	seq      map[string]int64
	next     int64
}

func NewMemoryProjectRepository() *MemoryProjectRepository {
	return &MemoryProjectRepository{
		projects: make(map[string]model.Project),
		seq:      make(map[string]int64),
	}
}

func (r *MemoryProjectRepository) Create(_ context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[project.ID]; ok {
		return ErrDuplicateKey
	}
	r.next++
	r.seq[project.ID] = r.next
	r.projects[project.ID] = cloneProject(*project)
	return nil
}

func (r *MemoryProjectRepository) GetByID(_ context.Context, id string) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, ok := r.projects[id]
	if !ok {
		return nil, nil
	}
	out := cloneProject(project)
	return &out, nil
}

func (r *MemoryProjectRepository) List(_ context.Context, filter model.ProjectFilter) ([]model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]model.Project, 0)
	for _, p := range r.projects {
		if filter.UserID != "" && p.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.ProjectType != "" && p.ProjectType != filter.ProjectType {
			continue
		}
		projects = append(projects, cloneProject(p))
	}
	sort.Slice(projects, func(i, j int) bool {
		if !projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].CreatedAt.After(projects[j].CreatedAt)
		}
		return r.seq[projects[i].ID] > r.seq[projects[j].ID]
	})
	return page(projects, filter.Skip, filter.Limit), nil
}

func (r *MemoryProjectRepository) Update(_ context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.projects[project.ID]
	if !ok {
		return ErrNotFound
	}
	updated := cloneProject(*project)
	updated.UserID = current.UserID
	updated.Files = cloneStrings(current.Files)
	updated.CreatedAt = current.CreatedAt
	r.projects[project.ID] = updated
	return nil
}

func (r *MemoryProjectRepository) AppendFile(_ context.Context, id, filename string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, ok := r.projects[id]
	if !ok {
		return ErrNotFound
	}
	project.Files = append(cloneStrings(project.Files), filename)
	project.UpdatedAt = at
	r.projects[id] = project
	return nil
}

func (r *MemoryProjectRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return ErrNotFound
	}
	delete(r.projects, id)
	delete(r.seq, id)
	return nil
}

func (r *MemoryProjectRepository) Count(_ context.Context, userID, status string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, p := range r.projects {
		if p.UserID == userID && (status == "" || p.Status == status) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryProjectRepository) IDsByUser(_ context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0)
	for id, p := range r.projects {
		if p.UserID == userID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *MemoryProjectRepository) CountByType(_ context.Context, userID string) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for _, p := range r.projects {
		if p.UserID == userID {
			counts[p.ProjectType]++
		}
	}
	return counts, nil
}

func (r *MemoryProjectRepository) ExistingIDs(_ context.Context, ids []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	existing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := r.projects[id]; ok {
			existing = append(existing, id)
		}
	}
	return existing, nil
}

type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]model.Task
	seq   map[string]int64
	next  int64
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		tasks: make(map[string]model.Task),
		seq:   make(map[string]int64),
	}
}

func (r *MemoryTaskRepository) Create(_ context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[task.ID]; ok {
		return ErrDuplicateKey
	}
	r.next++
	r.seq[task.ID] = r.next
	r.tasks[task.ID] = *task
	return nil
}

func (r *MemoryTaskRepository) GetByID(_ context.Context, id string) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (r *MemoryTaskRepository) ListByProject(_ context.Context, projectID, status string) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]model.Task, 0)
	for _, t := range r.tasks {
		if t.ProjectID == projectID && (status == "" || t.Status == status) {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return r.seq[tasks[i].ID] > r.seq[tasks[j].ID]
	})
	return tasks, nil
}

func (r *MemoryTaskRepository) Update(_ context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tasks[task.ID]
	if !ok {
		return ErrNotFound
	}
	updated := *task
	updated.ProjectID = current.ProjectID
	updated.CreatedAt = current.CreatedAt
	r.tasks[task.ID] = updated
	return nil
}

func (r *MemoryTaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(r.tasks, id)
	delete(r.seq, id)
	return nil
}

func (r *MemoryTaskRepository) DeleteByProjectID(ctx context.Context, projectID string) (int64, error) {
	return r.DeleteByProjectIDs(ctx, []string{projectID})
}

func (r *MemoryTaskRepository) DeleteByProjectIDs(_ context.Context, projectIDs []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := toSet(projectIDs)
	var deleted int64
	for id, t := range r.tasks {
		if _, ok := set[t.ProjectID]; ok {
			delete(r.tasks, id)
			delete(r.seq, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *MemoryTaskRepository) CountByProjects(_ context.Context, projectIDs []string, status string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := toSet(projectIDs)
	var n int64
	for _, t := range r.tasks {
		if _, ok := set[t.ProjectID]; ok && (status == "" || t.Status == status) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryTaskRepository) DistinctProjectIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[string]struct{})
	for _, t := range r.tasks {
		set[t.ProjectID] = struct{}{}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func page[T any](items []T, skip, limit int64) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= int64(len(items)) {
		return items[:0]
	}
	items = items[skip:]
	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}
	return items
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

func cloneUser(u model.User) model.User {
	u.Skills = cloneStrings(u.Skills)
	if u.SocialLinks != nil {
		links := make(map[string]string, len(u.SocialLinks))
		for k, v := range u.SocialLinks {
			links[k] = v
		}
		u.SocialLinks = links
	}
	return u
}

func cloneProject(p model.Project) model.Project {
	p.Technologies = cloneStrings(p.Technologies)
	p.Tags = cloneStrings(p.Tags)
	p.Files = cloneStrings(p.Files)
	return p
}
