package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-api/internal/bootstrap"
	"portfolio-api/internal/config"
	"portfolio-api/internal/model"
	"portfolio-api/internal/pkg/jwtutil"
	httptransport "portfolio-api/internal/transport/http"
	"portfolio-api/internal/transport/http/response"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

const testJWTSecret = "router-test-secret"

type authData struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        model.User `json:"user"`
}

func newTestRouter(t *testing.T, mutate func(cfg *config.Config)) *gin.Engine {
	t.Helper()
	t.Setenv("CONFIG_FILE", t.TempDir()+"/none.toml")
	t.Setenv("ENV_FILE", t.TempDir()+"/none.env")
	t.Setenv("STORAGE_DRIVER", config.StorageMemory)
	t.Setenv("UPLOAD_DIR", t.TempDir())
	t.Setenv("SWEEP_ENABLED", "false")
	t.Setenv("GIN_MODE", gin.TestMode)
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOGIN_RATE_LIMIT", "1000")
	t.Setenv("JWT_SECRET_KEY", testJWTSecret)

	cfg, err := config.Load()
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}

	a, err := bootstrap.NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return httptransport.NewRouter(a)
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func register(t *testing.T, r http.Handler, name, email string) authData {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data authData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func createProject(t *testing.T, r http.Handler, token string, body gin.H) model.Project {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/projects", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var project model.Project
	require.NoError(t, json.Unmarshal(env.Data, &project))
	return project
}

func TestAuthFlow(t *testing.T) {
	r := newTestRouter(t, nil)

	alice := register(t, r, "Alice", "Alice@Example.com")
	assert.NotEmpty(t, alice.AccessToken)
	assert.Equal(t, "bearer", alice.TokenType)
	assert.Equal(t, "alice@example.com", alice.User.Email)

	w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Other", "email": "alice@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.CodeEmailExists, env.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "nobody@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login authData
	require.NoError(t, json.Unmarshal(env.Data, &login))

	w, env = doJSON(t, r, http.MethodGet, "/api/auth/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me model.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, alice.User.ID, me.ID)
	assert.NotContains(t, string(env.Data), "password")
}

func TestUnauthenticatedRequestsAreUniform(t *testing.T) {
	r := newTestRouter(t, nil)

	sameKey, err := jwtutil.NewManager(testJWTSecret, "HS256", time.Minute)
	require.NoError(t, err)
	expired, _, err := sameKey.IssueWithTTL("user-1", -time.Minute)
	require.NoError(t, err)

	otherKey, err := jwtutil.NewManager("some-other-secret", "HS256", time.Minute)
	require.NoError(t, err)
	forged, _, err := otherKey.Issue("user-1")
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", "a.b.c", expired, forged} {
		w, env := doJSON(t, r, http.MethodGet, "/api/projects", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, response.CodeUnauthorized, env.Code)
		assert.Equal(t, "could not validate credentials", env.Message)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	}

	valid, _, err := sameKey.Issue("user-1")
	require.NoError(t, err)
	w, _ := doJSON(t, r, http.MethodGet, "/api/projects", valid, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r := newTestRouter(t, nil)

	w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Bob", "email": "not-an-email", "password": "123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeValidation, env.Code)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestProjectOwnership(t *testing.T) {
	r := newTestRouter(t, nil)
	alice := register(t, r, "Alice", "alice@example.com")
	bob := register(t, r, "Bob", "bob@example.com")

	project := createProject(t, r, alice.AccessToken, gin.H{"title": "Portfolio site"})
	assert.Equal(t, model.ProjectStatusPlanning, project.Status)
	assert.Equal(t, model.ProjectTypeSoftware, project.ProjectType)
	assert.Equal(t, alice.User.ID, project.UserID)

	w, _ := doJSON(t, r, http.MethodGet, "/api/projects/"+project.ID, bob.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodPut, "/api/projects/"+project.ID, bob.AccessToken, gin.H{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/projects/"+project.ID, bob.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := doJSON(t, r, http.MethodGet, "/api/projects/does-not-exist", bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodeProjectNotFound, env.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/projects?user_id="+alice.User.ID, bob.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/api/projects", bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []model.Project
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Empty(t, listed)

	w, env = doJSON(t, r, http.MethodPut, "/api/projects/"+project.ID, alice.AccessToken, gin.H{
		"title": "Portfolio v2", "status": "completed",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated model.Project
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Portfolio v2", updated.Title)
	assert.Equal(t, model.ProjectStatusCompleted, updated.Status)
}

func TestProjectListFilterValidation(t *testing.T) {
	r := newTestRouter(t, nil)
	alice := register(t, r, "Alice", "alice@example.com")

	w, env := doJSON(t, r, http.MethodGet, "/api/projects?status=bogus", alice.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeValidation, env.Code)
}

func TestTaskLifecycle(t *testing.T) {
	r := newTestRouter(t, nil)
	alice := register(t, r, "Alice", "alice@example.com")
	bob := register(t, r, "Bob", "bob@example.com")
	project := createProject(t, r, alice.AccessToken, gin.H{"title": "API"})

	w, _ := doJSON(t, r, http.MethodPost, "/api/projects/"+project.ID+"/tasks", bob.AccessToken, gin.H{"title": "Sneaky"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := doJSON(t, r, http.MethodPost, "/api/projects/"+project.ID+"/tasks", alice.AccessToken, gin.H{"title": "Write handlers"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var task model.Task
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, model.TaskStatusTodo, task.Status)
	assert.Nil(t, task.CompletedAt)

	w, env = doJSON(t, r, http.MethodPut, "/api/tasks/"+task.ID, alice.AccessToken, gin.H{
		"title": "Write handlers", "status": "completed",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var done model.Task
	require.NoError(t, json.Unmarshal(env.Data, &done))
	require.NotNil(t, done.CompletedAt)

	w, env = doJSON(t, r, http.MethodPut, "/api/tasks/"+task.ID, alice.AccessToken, gin.H{
		"title": "Write handlers", "status": "review",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var reopened model.Task
	require.NoError(t, json.Unmarshal(env.Data, &reopened))
	assert.Nil(t, reopened.CompletedAt)

	w, _ = doJSON(t, r, http.MethodPut, "/api/tasks/"+task.ID, bob.AccessToken, gin.H{"title": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/api/projects/"+project.ID+"/tasks?status=review", alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tasks []model.Task
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	assert.Len(t, tasks, 1)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/tasks/"+task.ID, alice.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, r, http.MethodDelete, "/api/tasks/"+task.ID, alice.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodeTaskNotFound, env.Code)
}

func TestDeleteProjectCascadesAndDashboard(t *testing.T) {
	r := newTestRouter(t, nil)
	alice := register(t, r, "Alice", "alice@example.com")

	keep := createProject(t, r, alice.AccessToken, gin.H{"title": "Keep", "status": "completed", "project_type": "design"})
	drop := createProject(t, r, alice.AccessToken, gin.H{"title": "Drop"})

	for _, id := range []string{keep.ID, drop.ID} {
		w, _ := doJSON(t, r, http.MethodPost, "/api/projects/"+id+"/tasks", alice.AccessToken, gin.H{"title": "t", "status": "completed"})
		require.Equal(t, http.StatusCreated, w.Code)
		w, _ = doJSON(t, r, http.MethodPost, "/api/projects/"+id+"/tasks", alice.AccessToken, gin.H{"title": "t", "status": "todo"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, _ := doJSON(t, r, http.MethodDelete, "/api/projects/"+drop.ID, alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/projects/"+drop.ID+"/tasks", alice.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := doJSON(t, r, http.MethodGet, "/api/analytics/dashboard", alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats model.DashboardStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))

	assert.EqualValues(t, 1, stats.Projects.Total)
	assert.EqualValues(t, 1, stats.Projects.Completed)
	assert.InDelta(t, 100.0, stats.Projects.CompletionRate, 0.001)
	assert.EqualValues(t, 2, stats.Tasks.Total)
	assert.EqualValues(t, 1, stats.Tasks.Completed)
	assert.InDelta(t, 50.0, stats.Tasks.CompletionRate, 0.001)
	assert.Equal(t, map[string]int64{"design": 1}, stats.ProjectTypes)
}

func TestDashboardWithoutProjects(t *testing.T) {
	r := newTestRouter(t, nil)
	alice := register(t, r, "Alice", "alice@example.com")

	w, env := doJSON(t, r, http.MethodGet, "/api/analytics/dashboard", alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats model.DashboardStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Zero(t, stats.Projects.Total)
	assert.Zero(t, stats.Tasks.Total)
	assert.Zero(t, stats.Tasks.CompletionRate)
}

func uploadRequest(t *testing.T, path, token, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadFile(t *testing.T) {
	r := newTestRouter(t, func(cfg *config.Config) {
		cfg.Upload.MaxFileSize = 32
	})
	alice := register(t, r, "Alice", "alice@example.com")
	bob := register(t, r, "Bob", "bob@example.com")
	project := createProject(t, r, alice.AccessToken, gin.H{"title": "Docs"})
	path := "/api/projects/" + project.ID + "/upload"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, path, alice.AccessToken, "notes.txt", []byte("hello")))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var uploaded struct {
		Filename string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &uploaded))
	assert.True(t, strings.HasSuffix(uploaded.Filename, ".txt"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/"+uploaded.Filename, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, path, alice.AccessToken, "big.bin", bytes.Repeat([]byte("x"), 64)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, path, bob.AccessToken, "notes.txt", []byte("hello")))
	assert.Equal(t, http.StatusForbidden, w.Code)

	oversized := bytes.Repeat([]byte("x"), 2<<20)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, path, bob.AccessToken, "big.bin", oversized))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/projects/missing/upload", alice.AccessToken, "big.bin", oversized))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, path, alice.AccessToken, "big.bin", oversized))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	_, env = doJSON(t, r, http.MethodGet, "/api/projects/"+project.ID, alice.AccessToken, nil)
	var stored model.Project
	require.NoError(t, json.Unmarshal(env.Data, &stored))
	assert.Equal(t, []string{uploaded.Filename}, stored.Files)
}

func TestUserEndpoints(t *testing.T) {
	r := newTestRouter(t, nil)
	alice := register(t, r, "Alice", "alice@example.com")
	bob := register(t, r, "Bob", "bob@example.com")

	w, env := doJSON(t, r, http.MethodPost, "/api/users", alice.AccessToken, gin.H{
		"name": "Carol", "email": "carol@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var carol model.User
	require.NoError(t, json.Unmarshal(env.Data, &carol))

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "carol@example.com", "password": "anything",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/api/users?limit=2", alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []model.User
	require.NoError(t, json.Unmarshal(env.Data, &users))
	assert.Len(t, users, 2)

	w, _ = doJSON(t, r, http.MethodGet, "/api/users?limit=500", alice.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/api/users/missing", alice.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodeUserNotFound, env.Code)

	w, _ = doJSON(t, r, http.MethodPut, "/api/users/"+bob.User.ID, alice.AccessToken, gin.H{
		"name": "Bobby", "email": "bob@example.com",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodPut, "/api/users/"+alice.User.ID, alice.AccessToken, gin.H{
		"name": "Alice", "email": "bob@example.com",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = doJSON(t, r, http.MethodPut, "/api/users/"+alice.User.ID, alice.AccessToken, gin.H{
		"name": "Alice Smith", "email": "alice@example.com", "skills": []string{"go", " ", "mongo"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated model.User
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Alice Smith", updated.Name)
	assert.Equal(t, []string{"go", "mongo"}, updated.Skills)
}

func TestLoginRateLimit(t *testing.T) {
	r := newTestRouter(t, func(cfg *config.Config) {
		cfg.Auth.LoginRateLimit = 2
		cfg.Auth.LoginRateWindowSeconds = 3600
	})

	body := gin.H{"email": "nobody@example.com", "password": "whatever"}
	for i := 0; i < 2; i++ {
		w, _ := doJSON(t, r, http.MethodPost, "/api/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w, env := doJSON(t, r, http.MethodPost, "/api/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, response.CodeTooManyRequests, env.Code)
}

func TestDemoUsers(t *testing.T) {
	r := newTestRouter(t, func(cfg *config.Config) { cfg.App.EnableDemo = false })
	w, _ := doJSON(t, r, http.MethodPost, "/api/demo/create-users", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	r = newTestRouter(t, func(cfg *config.Config) { cfg.App.EnableDemo = true })
	w, env := doJSON(t, r, http.MethodPost, "/api/demo/create-users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"count":3`)

	w, env = doJSON(t, r, http.MethodPost, "/api/demo/create-users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"count":0`)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status       string `json:"status"`
		Dependencies map[string]struct {
			OK    bool   `json:"ok"`
			State string `json:"state"`
		} `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "disabled", body.Dependencies["mongo"].State)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}
