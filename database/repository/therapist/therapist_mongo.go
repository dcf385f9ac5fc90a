package therapistRepo

import (
	"context"
	"fmt"
	"time"

	"therapia/database"
	"therapia/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTherapistRepo implements TherapistRepository using MongoDB.
type MongoTherapistRepo struct {
	coll *mongo.Collection
}

// NewMongoTherapistRepo creates a new instance of TherapistRepository using MongoDB.
func NewMongoTherapistRepo() TherapistRepository {
	coll := database.MongoClient.Database(database.DBName).Collection("therapists")
	return &MongoTherapistRepo{coll: coll}
}

// ListTherapists returns the full directory. Callers treat the result as an
// immutable snapshot for the duration of one match request.
func (r *MongoTherapistRepo) ListTherapists(ctx context.Context) ([]models.TherapistProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve therapists: %w", err)
	}
	defer cursor.Close(ctx)

	var therapists []models.TherapistProfile
	if err := cursor.All(ctx, &therapists); err != nil {
		return nil, fmt.Errorf("failed to decode therapists: %w", err)
	}
	return therapists, nil
}

func (r *MongoTherapistRepo) GetByID(ctx context.Context, id string) (*models.TherapistProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var profile models.TherapistProfile
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to fetch therapist with id %s: %w", id, err)
	}
	return &profile, nil
}

// Create inserts a new therapist document (onboarding write path).
func (r *MongoTherapistRepo) Create(ctx context.Context, profile *models.TherapistProfile) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt
	if _, err := r.coll.InsertOne(ctx, profile); err != nil {
		return fmt.Errorf("failed to create therapist: %w", err)
	}
	return nil
}

// Update replaces an existing therapist document.
func (r *MongoTherapistRepo) Update(ctx context.Context, profile *models.TherapistProfile) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	profile.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": profile.ID}, bson.M{"$set": profile})
	if err != nil {
		return fmt.Errorf("failed to update therapist with id %s: %w", profile.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("therapist with id %s not found", profile.ID)
	}
	return nil
}
