package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

type AppRepository struct {
	col *mongo.Collection
}

func NewAppRepository(db *mongo.Database) *AppRepository {
	return &AppRepository{col: db.Collection(collectionApps)}
}

type appDocument struct {
	ID            primitive.ObjectID          `bson:"_id,omitempty"`
	DeveloperID   string                      `bson:"developer_id"`
	Name          string                      `bson:"name"`
	Description   string                      `bson:"description"`
	Category      string                      `bson:"category"`
	Platform      string                      `bson:"platform"`
	PriceCents    int64                       `bson:"price_cents"`
	Status        domain.AppStatus            `bson:"status"`
	CreatedAt     time.Time                   `bson:"created_at"`
	UpdatedAt     time.Time                   `bson:"updated_at"`
	StatusHistory []domain.StatusHistoryEntry `bson:"status_history"`
}

func newAppDocument(a *domain.App) appDocument {
	return appDocument{
		DeveloperID:   a.DeveloperID,
		Name:          a.Name,
		Description:   a.Description,
		Category:      a.Category,
		Platform:      a.Platform,
		PriceCents:    a.PriceCents,
		Status:        a.Status,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
		StatusHistory: a.StatusHistory,
	}
}

func (d appDocument) toDomain() *domain.App {
	return &domain.App{
		ID:            d.ID.Hex(),
		DeveloperID:   d.DeveloperID,
		Name:          d.Name,
		Description:   d.Description,
		Category:      d.Category,
		Platform:      d.Platform,
		PriceCents:    d.PriceCents,
		Status:        d.Status,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
		StatusHistory: d.StatusHistory,
	}
}

func (r *AppRepository) Create(ctx context.Context, a *domain.App) (*domain.App, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newAppDocument(a)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert app: %w", err)
	}
	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *AppRepository) FindByID(ctx context.Context, id string) (*domain.App, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, domain.ErrAppNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc appDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppNotFound
		}
		return nil, fmt.Errorf("find app: %w", err)
	}
	return doc.toDomain(), nil
}

// UpdateMetadata sets the editable fields of an existing app. Status and
// status_history are never written here.
func (r *AppRepository) UpdateMetadata(ctx context.Context, a *domain.App) error {
	oid, err := parseID(a.ID)
	if err != nil {
		return domain.ErrAppNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": metadataFields(a)})
	if err != nil {
		return fmt.Errorf("update app: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAppNotFound
	}
	return nil
}

// Resubmit moves the app from rejected to pending in one conditional update,
// so a moderation decision landing concurrently is never overwritten.
func (r *AppRepository) Resubmit(ctx context.Context, id string, entry domain.StatusHistoryEntry) error {
	oid, err := parseID(id)
	if err != nil {
		return domain.ErrAppNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, update := resubmitUpdate(oid, entry)
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("resubmit app: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return fmt.Errorf("resubmit app: %w", err)
		}
		if n == 0 {
			return domain.ErrAppNotFound
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

func metadataFields(a *domain.App) bson.M {
	return bson.M{
		"name":        a.Name,
		"description": a.Description,
		"category":    a.Category,
		"platform":    a.Platform,
		"price_cents": a.PriceCents,
		"updated_at":  a.UpdatedAt,
	}
}

func resubmitUpdate(oid primitive.ObjectID, entry domain.StatusHistoryEntry) (bson.M, bson.M) {
	filter := bson.M{"_id": oid, "status": domain.AppStatusRejected}
	update := bson.M{
		"$set":  bson.M{"status": domain.AppStatusPending, "updated_at": entry.Timestamp},
		"$push": bson.M{"status_history": entry},
	}
	return filter, update
}

func (r *AppRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return domain.ErrAppNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete app: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAppNotFound
	}
	return nil
}

// List returns one page of apps matching f, newest first, and the total match count.
func (r *AppRepository) List(ctx context.Context, f ports.ListAppsFilter) ([]*domain.App, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(f)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count apps: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list apps: %w", err)
	}
	defer cur.Close(ctx)

	var docs []appDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode apps: %w", err)
	}

	apps := make([]*domain.App, len(docs))
	for i, d := range docs {
		apps[i] = d.toDomain()
	}
	return apps, total, nil
}

// listFilter builds the query document for f. Search is a case-insensitive
// substring match on the name.
func listFilter(f ports.ListAppsFilter) bson.M {
	filter := bson.M{}
	if f.DeveloperID != "" {
		filter["developer_id"] = f.DeveloperID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Search != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	return filter
}

// EnsureIndexes creates the indexes used by the list queries.
func (r *AppRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "category", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "developer_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
