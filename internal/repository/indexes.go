package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on. The unique
// email index is what turns concurrent duplicate registrations into
// ErrDuplicateKey.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	wanted := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{usersCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		}},
		{projectsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_created"),
		}},
		{tasksCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_project_status"),
		}},
	}

	for _, idx := range wanted {
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("create index on %s failed: %w", idx.collection, err)
		}
	}
	return nil
}
