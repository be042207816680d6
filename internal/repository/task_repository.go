package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"portfolio-api/internal/model"
)

const tasksCollection = "tasks"

type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(tasksCollection)}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if _, err := r.coll.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("create task failed: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("query task by id failed: %w", err)
	}
	return &task, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID, status string) ([]model.Task, error) {
	filter := bson.M{"project_id": projectID}
	if status != "" {
		filter["status"] = status
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list tasks failed: %w", err)
	}
	tasks := make([]model.Task, 0)
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks failed: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": task.ID}, bson.M{"$set": bson.M{
		"title":           task.Title,
		"description":     task.Description,
		"status":          task.Status,
		"priority":        task.Priority,
		"due_date":        task.DueDate,
		"estimated_hours": task.EstimatedHours,
		"completed_at":    task.CompletedAt,
		"updated_at":      task.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update task failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete task failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) DeleteByProjectID(ctx context.Context, projectID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, fmt.Errorf("delete project tasks failed: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *TaskRepository) DeleteByProjectIDs(ctx context.Context, projectIDs []string) (int64, error) {
	if len(projectIDs) == 0 {
		return 0, nil
	}
	res, err := r.coll.DeleteMany(ctx, bson.M{"project_id": bson.M{"$in": projectIDs}})
	if err != nil {
		return 0, fmt.Errorf("delete orphan tasks failed: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *TaskRepository) CountByProjects(ctx context.Context, projectIDs []string, status string) (int64, error) {
	if len(projectIDs) == 0 {
		return 0, nil
	}
	filter := bson.M{"project_id": bson.M{"$in": projectIDs}}
	if status != "" {
		filter["status"] = status
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count tasks failed: %w", err)
	}
	return n, nil
}

func (r *TaskRepository) DistinctProjectIDs(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "project_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("query task project ids failed: %w", err)
	}
	return stringValues(values), nil
}
