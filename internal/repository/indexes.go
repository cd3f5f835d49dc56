package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes configures the indexes both repositories rely on.
// Called on startup from main after Mongo has connected.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	// Unique index on email: registration races resolve to a duplicate-key
	// error instead of two accounts.
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_email_unique").SetUnique(true),
		},
	}
	for _, m := range userIndexes {
		if _, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, m); err != nil {
			return err
		}
	}

	// Owner index to keep list cheap.
	contactIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_owner"),
		},
	}
	for _, m := range contactIndexes {
		if _, err := db.Collection(contactsCollection).Indexes().CreateOne(ctx, m); err != nil {
			return err
		}
	}

	return nil
}
