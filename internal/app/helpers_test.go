package app

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"portfolio-api/internal/model"
	"portfolio-api/internal/pkg/jwtutil"
	"portfolio-api/internal/pkg/password"
	"portfolio-api/internal/repository"
)

type recordingStore struct {
	mu    sync.Mutex
	saved map[string][]byte
}

func newRecordingStore() *recordingStore {
	return &recordingStore{saved: make(map[string][]byte)}
}

func (s *recordingStore) Save(_ context.Context, name string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[name] = data
	return nil
}

func (s *recordingStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saved, name)
	return nil
}

func (s *recordingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishProjectEvent(ctx context.Context, event model.ProjectEvent) error {
	return m.Called(ctx, event).Error(0)
}

type testEnv struct {
	users     *repository.MemoryUserRepository
	projects  *repository.MemoryProjectRepository
	tasks     *repository.MemoryTaskRepository
	files     *recordingStore
	tokens    *jwtutil.Manager
	auth      *AuthService
	userSvc   *UserService
	projSvc   *ProjectService
	taskSvc   *TaskService
	analytics *AnalyticsService
	demo      *DemoService
}

const testMaxFileSize = 1024

func newTestEnv(t *testing.T, publisher EventPublisher) *testEnv {
	t.Helper()

	tokens, err := jwtutil.NewManager("test-secret", "HS256", 30*time.Minute)
	require.NoError(t, err)
	hasher := password.NewHasher(bcrypt.MinCost)

	env := &testEnv{
		users:    repository.NewMemoryUserRepository(),
		projects: repository.NewMemoryProjectRepository(),
		tasks:    repository.NewMemoryTaskRepository(),
		files:    newRecordingStore(),
		tokens:   tokens,
	}
	env.auth = NewAuthService(env.users, hasher, tokens)
	env.userSvc = NewUserService(env.users)
	env.projSvc = NewProjectService(env.projects, env.tasks, repository.PassthroughTransactor{}, publisher, env.files, testMaxFileSize)
	env.taskSvc = NewTaskService(env.tasks, env.projects)
	env.analytics = NewAnalyticsService(env.projects, env.tasks)
	env.demo = NewDemoService(env.users, hasher)
	return env
}

func (e *testEnv) register(t *testing.T, email string) *model.User {
	t.Helper()
	res, err := e.auth.Register(context.Background(), RegisterInput{
		Name:     "User " + email,
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)
	return res.User
}

func (e *testEnv) project(t *testing.T, ownerID, status, projectType string) *model.Project {
	t.Helper()
	p, err := e.projSvc.Create(context.Background(), ownerID, model.ProjectFields{
		Title:       "Project",
		Description: "desc",
		Status:      status,
		ProjectType: projectType,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) task(t *testing.T, ownerID, projectID, status string) *model.Task {
	t.Helper()
	task, err := e.taskSvc.Create(context.Background(), ownerID, projectID, model.TaskFields{
		Title:  "Task",
		Status: status,
	})
	require.NoError(t, err)
	return task
}
