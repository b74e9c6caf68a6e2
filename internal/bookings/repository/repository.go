package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dentalave/pkg/client"
	apperrors "dentalave/pkg/errors"
	"dentalave/pkg/logger"
	"dentalave/pkg/model"
)

const collectionName = "bookings"

// BookingRepository persists bookings in MongoDB. The collection handle is
// resolved through the connection manager on every call so the first
// request after a cold start dials lazily.
type BookingRepository struct {
	manager      *client.Manager
	writeTimeout time.Duration
	readTimeout  time.Duration
	log          *logger.Logger
}

func NewBookingRepository(manager *client.Manager, readTimeout, writeTimeout time.Duration, log *logger.Logger) *BookingRepository {
	return &BookingRepository{
		manager:      manager,
		writeTimeout: writeTimeout,
		readTimeout:  readTimeout,
		log:          log,
	}
}

func (r *BookingRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.manager.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(collectionName), nil
}

// Create inserts the booking, stamping CreatedAt, and returns it with the
// generated id filled in.
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	opCtx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	result, err := coll.InsertOne(opCtx, booking)
	if err != nil {
		return nil, apperrors.Persistence("Failed to save booking", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid
	}

	r.log.Debug("Booking persisted", "booking_id", booking.ID.Hex())
	return booking, nil
}

// FindAll returns every booking, newest first. Ties on CreatedAt fall back
// to insertion order via the id. An empty collection yields an empty slice,
// never nil.
func (r *BookingRepository) FindAll(ctx context.Context) ([]model.Booking, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	sort := bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	cursor, err := coll.Find(opCtx, bson.D{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, apperrors.Persistence("Failed to list bookings", err)
	}
	defer cursor.Close(opCtx)

	bookings := []model.Booking{}
	if err := cursor.All(opCtx, &bookings); err != nil {
		return nil, apperrors.Persistence("Failed to decode bookings", err)
	}

	return bookings, nil
}
