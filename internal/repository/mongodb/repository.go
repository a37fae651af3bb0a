package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
)

const (
	draftsCollection  = "receipt_drafts"
	reportsCollection = "daily_receiving_reports"
)

// Repository defines the MongoDB backed storage used by the service.
type Repository interface {
	SaveDraft(ctx context.Context, draft models.Draft) error
	LoadDraft(ctx context.Context, id string) (models.Draft, error)
	DeleteDraft(ctx context.Context, id string) error
	PurgeDrafts(ctx context.Context, cutoff time.Time) (int64, error)
	SaveDailyReport(ctx context.Context, report models.DailyReceivingReport) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
	}

	_, err = repo.db.Collection(draftsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "updated_at", Value: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to index drafts: %w", err)
	}

	return repo, nil
}

// SaveDraft upserts a wizard snapshot by id.
func (r *MongoDBRepository) SaveDraft(ctx context.Context, draft models.Draft) error {
	_, err := r.db.Collection(draftsCollection).ReplaceOne(ctx,
		bson.M{"_id": draft.ID}, draft, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save draft %s: %w", draft.ID, err)
	}
	return nil
}

// LoadDraft fetches a draft by id.
func (r *MongoDBRepository) LoadDraft(ctx context.Context, id string) (models.Draft, error) {
	var draft models.Draft
	err := r.db.Collection(draftsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&draft)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Draft{}, models.ErrDraftNotFound
	}
	if err != nil {
		return models.Draft{}, fmt.Errorf("failed to load draft %s: %w", id, err)
	}
	return draft, nil
}

// DeleteDraft removes a draft. Unknown ids are ignored.
func (r *MongoDBRepository) DeleteDraft(ctx context.Context, id string) error {
	if _, err := r.db.Collection(draftsCollection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	return nil
}

// PurgeDrafts deletes drafts not touched since cutoff.
func (r *MongoDBRepository) PurgeDrafts(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.Collection(draftsCollection).DeleteMany(ctx, bson.M{"updated_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to purge drafts: %w", err)
	}
	return res.DeletedCount, nil
}

// SaveDailyReport saves a daily report to the database.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyReceivingReport) error {
	_, err := r.db.Collection(reportsCollection).InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to insert daily report: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
