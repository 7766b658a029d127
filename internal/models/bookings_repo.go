package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// BookingsRepo is the authoritative reservation store. InsertBooking is the
// conflict guard: it re-checks the overlap invariant inside the same atomic
// operation as the insert, independent of any advisory pre-check.
type BookingsRepo interface {
	InsertBooking(ctx context.Context, booking *Booking) error
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	QueryOverlapping(ctx context.Context, spaceID uuid.UUID, date string) ([]*Booking, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, to, expectedCurrent BookingStatus) (*Booking, error)
	ListBookingsByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*Booking, int, error)
	ListBookingsByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*Booking, int, error)
	OwnerEarnings(ctx context.Context, ownerID uuid.UUID) (float64, error)
	DeleteBookingsBySpace(ctx context.Context, spaceID uuid.UUID) error
}

// EnsureBookingIndexes creates the indexes the booking engine relies on,
// including the unique calendar-lock key backing the conflict guard.
func (mdb *MongodbRepo) EnsureBookingIndexes(ctx context.Context) error {
	bookings, err := mdb.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	indexes := []mongo.IndexModel{
		// The overlap query always filters on (space_id, date, status)
		{
			Keys: bson.D{
				{Key: "space_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("space_date_status_idx"),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("user_created_idx"),
		},
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "date", Value: -1},
			},
			Options: options.Index().SetName("owner_date_idx"),
		},
	}
	if _, err := bookings.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating booking indexes: %v", err)
	}

	calendar, err := mdb.GetCollection(ctx, DBName, CalendarColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	_, err = calendar.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "space_id", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("space_date_unique"),
		},
	})
	if err != nil {
		return fmt.Errorf("error creating calendar indexes: %v", err)
	}

	reviews, err := mdb.GetCollection(ctx, DBName, ReviewsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	_, err = reviews.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "booking_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("booking_unique"),
		},
		{
			Keys:    bson.D{{Key: "space_id", Value: 1}},
			Options: options.Index().SetName("space_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("error creating review indexes: %v", err)
	}
	return nil
}

// InsertBooking performs the atomic check-and-insert. It runs a multi-document
// transaction that first bumps a per-(space, date) calendar document; two
// concurrent writers for the same calendar day then write-conflict, so the
// transactions serialize and one of them re-reads the other's committed row.
// The overlap re-check uses the same Interval.Overlaps predicate as the
// advisory availability check. On ErrSlotTaken no row is written.
func (mdb *MongodbRepo) InsertBooking(ctx context.Context, booking *Booking) error {
	iv, err := booking.Interval()
	if err != nil {
		return NewValidationError("start_time", err.Error())
	}

	bookings, err := mdb.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return err
	}
	calendar, err := mdb.GetCollection(ctx, DBName, CalendarColName)
	if err != nil {
		return err
	}

	session, err := mdb.mongodbClient.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// Serialize writers on this calendar day before reading.
		_, err := calendar.UpdateOne(sc,
			bson.M{"space_id": booking.SpaceID, "date": booking.Date},
			bson.M{"$inc": bson.M{"version": 1}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return nil, err
		}

		cursor, err := bookings.Find(sc, bson.M{
			"space_id": booking.SpaceID,
			"date":     booking.Date,
			"status":   bson.M{"$in": ActiveStatuses},
		})
		if err != nil {
			return nil, err
		}
		var existing []*Booking
		if err := cursor.All(sc, &existing); err != nil {
			return nil, err
		}

		for _, other := range existing {
			otherIv, err := other.Interval()
			if err != nil {
				continue
			}
			if iv.Overlaps(otherIv) {
				return nil, ErrSlotTaken
			}
		}

		if _, err := bookings.InsertOne(sc, booking); err != nil {
			return nil, err
		}
		return nil, nil
	}, txnOpts)

	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return nil, err
	}

	var booking Booking
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// QueryOverlapping returns the slot-holding bookings for one space and date.
// The caller applies the overlap predicate; this is the read behind the
// advisory availability check.
func (mdb *MongodbRepo) QueryOverlapping(ctx context.Context, spaceID uuid.UUID, date string) ([]*Booking, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return nil, err
	}

	cursor, err := col.Find(ctx, bson.M{
		"space_id": spaceID,
		"date":     date,
		"status":   bson.M{"$in": ActiveStatuses},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*Booking
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return out, nil
}

// UpdateBookingStatus is a compare-and-swap keyed by id and expected current
// status, so concurrent double-scans or double-cancels resolve to exactly one
// winner. ErrBookingNotFound means no document matched the (id, expected)
// pair; the caller re-fetches to tell "gone" from "already finalized".
func (mdb *MongodbRepo) UpdateBookingStatus(ctx context.Context, id uuid.UUID, to, expectedCurrent BookingStatus) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Booking
	err = col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": expectedCurrent},
		bson.M{"$set": bson.M{"status": to, "updated_at": nowUTC()}},
		opts,
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) ListBookingsByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*Booking, int, error) {
	return mdb.listBookings(ctx, bson.M{"user_id": userID}, bson.D{{Key: "created_at", Value: -1}}, offset, limit)
}

func (mdb *MongodbRepo) ListBookingsByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*Booking, int, error) {
	return mdb.listBookings(ctx, bson.M{"owner_id": ownerID}, bson.D{{Key: "date", Value: -1}}, offset, limit)
}

func (mdb *MongodbRepo) listBookings(ctx context.Context, query bson.M, sort bson.D, offset, limit int) ([]*Booking, int, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return nil, 0, err
	}

	total, err := col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*Booking
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return out, int(total), nil
}

// OwnerEarnings is a derived read: the sum of total over confirmed and
// completed bookings across the owner's spaces. Nothing is stored.
func (mdb *MongodbRepo) OwnerEarnings(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return 0, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"owner_id": ownerID,
			"status":   bson.M{"$in": ActiveStatuses},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$total"},
		}}},
	}

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate earnings: %w", err)
	}
	defer cursor.Close(ctx)

	var result []bson.M
	if err := cursor.All(ctx, &result); err != nil {
		return 0, fmt.Errorf("failed to decode earnings: %w", err)
	}
	if len(result) == 0 {
		return 0, nil
	}
	switch v := result[0]["total"].(type) {
	case float64:
		return v, nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("unexpected earnings total type %T", result[0]["total"])
	}
}

// DeleteBookingsBySpace purges a space's booking history ahead of deleting
// the space itself. If this fails the space delete must abort.
func (mdb *MongodbRepo) DeleteBookingsBySpace(ctx context.Context, spaceID uuid.UUID) error {
	col, err := mdb.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return err
	}
	if _, err := col.DeleteMany(ctx, bson.M{"space_id": spaceID}); err != nil {
		return fmt.Errorf("failed to purge bookings for space %s: %w", spaceID, err)
	}

	calendar, err := mdb.GetCollection(ctx, DBName, CalendarColName)
	if err != nil {
		return err
	}
	if _, err := calendar.DeleteMany(ctx, bson.M{"space_id": spaceID}); err != nil {
		return fmt.Errorf("failed to purge calendar for space %s: %w", spaceID, err)
	}
	return nil
}
