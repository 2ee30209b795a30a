package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appfounders/marketplace/internal/core/domain"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(collectionReviews)}
}

type reviewDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	AppID      string             `bson:"app_id"`
	TesterID   string             `bson:"tester_id"`
	TesterName string             `bson:"tester_name"`
	Rating     int                `bson:"rating"`
	Comment    string             `bson:"comment,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (d reviewDocument) toDomain() *domain.Review {
	return &domain.Review{
		ID:         d.ID.Hex(),
		AppID:      d.AppID,
		TesterID:   d.TesterID,
		TesterName: d.TesterName,
		Rating:     d.Rating,
		Comment:    d.Comment,
		CreatedAt:  d.CreatedAt.UTC(),
	}
}

// Create inserts a review. The unique (app_id, tester_id) index turns a
// second review by the same tester into domain.ErrReviewExists.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := reviewDocument{
		AppID:      rv.AppID,
		TesterID:   rv.TesterID,
		TesterName: rv.TesterName,
		Rating:     rv.Rating,
		Comment:    rv.Comment,
		CreatedAt:  rv.CreatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrReviewExists
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}
	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc reviewDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return doc.toDomain(), nil
}

// ListByApp returns the reviews of an app, newest first.
func (r *ReviewRepository) ListByApp(ctx context.Context, appID string) ([]*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"app_id": appID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer cur.Close(ctx)

	var docs []reviewDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}

	out := make([]*domain.Review, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "app_id", Value: 1}, {Key: "tester_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "app_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
