package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"portfolio-api/internal/model"
)

const projectsCollection = "projects"

type ProjectRepository struct {
	coll *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{coll: db.Collection(projectsCollection)}
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	if _, err := r.coll.InsertOne(ctx, project); err != nil {
		return fmt.Errorf("create project failed: %w", err)
	}
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("query project by id failed: %w", err)
	}
	return &project, nil
}

func (r *ProjectRepository) List(ctx context.Context, filter model.ProjectFilter) ([]model.Project, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.ProjectType != "" {
		query["project_type"] = filter.ProjectType
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(filter.Skip).
		SetLimit(filter.Limit)
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list projects failed: %w", err)
	}
	projects := make([]model.Project, 0)
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("decode projects failed: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": project.ID}, bson.M{"$set": bson.M{
		"title":        project.Title,
		"description":  project.Description,
		"technologies": project.Technologies,
		"status":       project.Status,
		"start_date":   project.StartDate,
		"end_date":     project.EndDate,
		"project_type": project.ProjectType,
		"priority":     project.Priority,
		"tags":         project.Tags,
		"updated_at":   project.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update project failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) AppendFile(ctx context.Context, id, filename string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"files": filename},
		"$set":  bson.M{"updated_at": at},
	})
	if err != nil {
		return fmt.Errorf("append project file failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete project failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) Count(ctx context.Context, userID, status string) (int64, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count projects failed: %w", err)
	}
	return n, nil
}

func (r *ProjectRepository) IDsByUser(ctx context.Context, userID string) ([]string, error) {
	return r.distinctIDs(ctx, bson.M{"user_id": userID})
}

func (r *ProjectRepository) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	return r.distinctIDs(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *ProjectRepository) distinctIDs(ctx context.Context, filter bson.M) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "_id", filter)
	if err != nil {
		return nil, fmt.Errorf("query project ids failed: %w", err)
	}
	return stringValues(values), nil
}

type typeCount struct {
	Type  string `bson:"_id"`
	Count int64  `bson:"count"`
}

func (r *ProjectRepository) CountByType(ctx context.Context, userID string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{"_id": "$project_type", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate project types failed: %w", err)
	}
	var rows []typeCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode project types failed: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		if row.Count > 0 {
			counts[row.Type] = row.Count
		}
	}
	return counts, nil
}

func stringValues(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
