package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-api/internal/model"
)

func TestMemoryUserRepository_EmailUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	require.NoError(t, repo.Create(ctx, &model.User{ID: "u1", Email: "a@x.com"}))
	assert.ErrorIs(t, repo.Create(ctx, &model.User{ID: "u2", Email: "a@x.com"}), ErrDuplicateKey)

	require.NoError(t, repo.Create(ctx, &model.User{ID: "u2", Email: "b@x.com"}))
	err := repo.Update(ctx, &model.User{ID: "u2", Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	assert.ErrorIs(t, repo.Update(ctx, &model.User{ID: "missing"}), ErrNotFound)

	got, err := repo.GetByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryUserRepository_ListPages(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, &model.User{ID: id, Email: id + "@x.com"}))
	}

	users, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "b", users[0].ID)

	users, err = repo.List(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestMemoryProjectRepository_AppendFileAndQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProjectRepository()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, &model.Project{ID: "p1", UserID: "u1", ProjectType: "software", Status: "completed", CreatedAt: now}))
	require.NoError(t, repo.Create(ctx, &model.Project{ID: "p2", UserID: "u1", ProjectType: "design", Status: "planning", CreatedAt: now.Add(time.Second)}))
	require.NoError(t, repo.Create(ctx, &model.Project{ID: "p3", UserID: "u2", ProjectType: "software", CreatedAt: now}))

	require.NoError(t, repo.AppendFile(ctx, "p1", "p1_a.pdf", now))
	require.NoError(t, repo.AppendFile(ctx, "p1", "p1_b.pdf", now))
	assert.ErrorIs(t, repo.AppendFile(ctx, "nope", "x", now), ErrNotFound)

	p, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1_a.pdf", "p1_b.pdf"}, p.Files)

	list, err := repo.List(ctx, model.ProjectFilter{UserID: "u1", Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p2", list[0].ID)

	total, err := repo.Count(ctx, "u1", "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	completed, err := repo.Count(ctx, "u1", model.ProjectStatusCompleted)
	require.NoError(t, err)
	assert.EqualValues(t, 1, completed)

	types, err := repo.CountByType(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"software": 1, "design": 1}, types)

	existing, err := repo.ExistingIDs(ctx, []string{"p1", "gone", "p3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, existing)
}

func TestMemoryTaskRepository_DeleteByProject(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepository()

	require.NoError(t, repo.Create(ctx, &model.Task{ID: "t1", ProjectID: "p1", Status: "todo"}))
	require.NoError(t, repo.Create(ctx, &model.Task{ID: "t2", ProjectID: "p1", Status: "completed"}))
	require.NoError(t, repo.Create(ctx, &model.Task{ID: "t3", ProjectID: "p2", Status: "completed"}))

	n, err := repo.CountByProjects(ctx, []string{"p1"}, model.TaskStatusCompleted)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.CountByProjects(ctx, nil, "")
	require.NoError(t, err)
	assert.Zero(t, n)

	deleted, err := repo.DeleteByProjectID(ctx, "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	tasks, err := repo.ListByProject(ctx, "p1", "")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	ids, err := repo.DistinctProjectIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids)
}
