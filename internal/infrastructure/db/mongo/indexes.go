package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collectionIndexes lists every index the service relies on. The unique ones
// back the duplicate-email and one-profile-per-account guarantees.
var collectionIndexes = map[string][]mongo.IndexModel{
	collectionUsers: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	collectionPatients: {
		{Keys: bson.D{{Key: "account_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "full_name", Value: 1}}},
	},
	collectionDoctors: {
		{Keys: bson.D{{Key: "account_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "specialization", Value: 1}}},
	},
	collectionConsultations: {
		{Keys: bson.D{{Key: "patient_id", Value: 1}}},
		{Keys: bson.D{{Key: "doctor_id", Value: 1}}},
		{Keys: bson.D{{Key: "scheduled_at", Value: 1}}},
	},
	collectionMedicalRecords: {
		{Keys: bson.D{{Key: "patient_id", Value: 1}}},
	},
}

// EnsureIndexes creates all indexes. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for name, models := range collectionIndexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", name, err)
		}
	}
	return nil
}
