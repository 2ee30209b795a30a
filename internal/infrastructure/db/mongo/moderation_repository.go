package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

// ModerationRepository implements ports.ModerationRepository using MongoDB.
type ModerationRepository struct {
	db *mongo.Database
}

func NewModerationRepository(db *mongo.Database) ports.ModerationRepository {
	return &ModerationRepository{db: db}
}

// UpdateAppStatus atomically sets the app status and appends a history entry.
func (r *ModerationRepository) UpdateAppStatus(ctx context.Context, e *domain.ModerationEvent) error {
	oid, err := parseID(e.AppID)
	if err != nil {
		return domain.ErrAppNotFound
	}

	entry := domain.StatusHistoryEntry{
		Status:    e.Status,
		Timestamp: e.Timestamp.UTC(),
		ActorID:   e.ModeratorID,
		Notes:     e.Notes,
	}
	update := bson.M{
		"$set":  bson.M{"status": e.Status, "updated_at": time.Now().UTC()},
		"$push": bson.M{"status_history": entry},
	}

	res, err := r.db.Collection(collectionApps).UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update app status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAppNotFound
	}
	return nil
}

// InsertEvent persists a decision to the moderation_events audit collection.
func (r *ModerationRepository) InsertEvent(ctx context.Context, e *domain.ModerationEvent) error {
	doc := bson.M{
		"app_id":       e.AppID,
		"status":       string(e.Status),
		"moderator_id": e.ModeratorID,
		"timestamp":    e.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if e.Notes != "" {
		doc["notes"] = e.Notes
	}

	_, err := r.db.Collection(collectionModerationEvents).InsertOne(ctx, doc)
	return err
}
