package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SpacesRepo interface {
	CreateSpace(ctx context.Context, space *SportSpace) (*SportSpace, error)
	GetSpaceByID(ctx context.Context, id uuid.UUID) (*SportSpace, error)
	ListSpaces(ctx context.Context, filters SpaceFilters, offset, limit int) ([]*SportSpace, int, error)
	ListSpacesByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*SportSpace, int, error)
	UpdateSpace(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*SportSpace, error)
	DeleteSpace(ctx context.Context, id uuid.UUID) error
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, dbName, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(dbName).Collection(colName), nil
}

func (mdb *MongodbRepo) CreateSpace(ctx context.Context, space *SportSpace) (*SportSpace, error) {
	col, err := mdb.GetCollection(ctx, DBName, SpacesColName)
	if err != nil {
		return nil, err
	}

	if _, err := col.InsertOne(ctx, space); err != nil {
		return nil, fmt.Errorf("failed to insert space: %w", err)
	}
	return space, nil
}

func (mdb *MongodbRepo) GetSpaceByID(ctx context.Context, id uuid.UUID) (*SportSpace, error) {
	col, err := mdb.GetCollection(ctx, DBName, SpacesColName)
	if err != nil {
		return nil, err
	}

	var space SportSpace
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&space); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSpaceNotFound
		}
		return nil, fmt.Errorf("failed to get space: %w", err)
	}
	return &space, nil
}

func (mdb *MongodbRepo) ListSpaces(ctx context.Context, filters SpaceFilters, offset, limit int) ([]*SportSpace, int, error) {
	col, err := mdb.GetCollection(ctx, DBName, SpacesColName)
	if err != nil {
		return nil, 0, err
	}

	query := bson.M{}
	if filters.SearchQuery != "" {
		query["name"] = bson.M{"$regex": filters.SearchQuery, "$options": "i"}
	}
	if filters.Location != "" {
		query["location"] = bson.M{"$regex": filters.Location, "$options": "i"}
	}
	price := bson.M{}
	if filters.MinPrice > 0 {
		price["$gte"] = filters.MinPrice
	}
	if filters.MaxPrice > 0 {
		price["$lte"] = filters.MaxPrice
	}
	if len(price) > 0 {
		query["price_per_day"] = price
	}

	total, err := col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count spaces: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list spaces: %w", err)
	}
	defer cursor.Close(ctx)

	var spaces []*SportSpace
	if err := cursor.All(ctx, &spaces); err != nil {
		return nil, 0, fmt.Errorf("failed to decode spaces: %w", err)
	}
	return spaces, int(total), nil
}

func (mdb *MongodbRepo) ListSpacesByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*SportSpace, int, error) {
	col, err := mdb.GetCollection(ctx, DBName, SpacesColName)
	if err != nil {
		return nil, 0, err
	}

	query := bson.M{"owner_id": ownerID}
	total, err := col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count owner spaces: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list owner spaces: %w", err)
	}
	defer cursor.Close(ctx)

	var spaces []*SportSpace
	if err := cursor.All(ctx, &spaces); err != nil {
		return nil, 0, fmt.Errorf("failed to decode owner spaces: %w", err)
	}
	return spaces, int(total), nil
}

func (mdb *MongodbRepo) UpdateSpace(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*SportSpace, error) {
	col, err := mdb.GetCollection(ctx, DBName, SpacesColName)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated SportSpace
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": updates}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSpaceNotFound
		}
		return nil, fmt.Errorf("failed to update space: %w", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteSpace(ctx context.Context, id uuid.UUID) error {
	col, err := mdb.GetCollection(ctx, DBName, SpacesColName)
	if err != nil {
		return err
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete space: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrSpaceNotFound
	}
	return nil
}
