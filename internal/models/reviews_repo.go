package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewsRepo interface {
	CreateReview(ctx context.Context, review *Review) (*Review, error)
	GetReviewByBooking(ctx context.Context, bookingID uuid.UUID) (*Review, error)
	ListReviewsBySpace(ctx context.Context, spaceID uuid.UUID, limit int) ([]*Review, error)
}

func (r *Review) BeforeCreate() {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = nowUTC()
	}
}

// CreateReview inserts the rating; the unique booking_id index enforces the
// one-review-per-booking rule even under concurrent submissions.
func (mdb *MongodbRepo) CreateReview(ctx context.Context, review *Review) (*Review, error) {
	if err := review.Validate(); err != nil {
		return nil, err
	}
	review.BeforeCreate()

	col, err := mdb.GetCollection(ctx, DBName, ReviewsColName)
	if err != nil {
		return nil, err
	}

	if _, err := col.InsertOne(ctx, review); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrReviewExists
		}
		return nil, fmt.Errorf("failed to insert review: %w", err)
	}
	return review, nil
}

func (mdb *MongodbRepo) GetReviewByBooking(ctx context.Context, bookingID uuid.UUID) (*Review, error) {
	col, err := mdb.GetCollection(ctx, DBName, ReviewsColName)
	if err != nil {
		return nil, err
	}

	var review Review
	if err := col.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&review); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}

func (mdb *MongodbRepo) ListReviewsBySpace(ctx context.Context, spaceID uuid.UUID, limit int) ([]*Review, error) {
	col, err := mdb.GetCollection(ctx, DBName, ReviewsColName)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, bson.M{"space_id": spaceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []*Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}
