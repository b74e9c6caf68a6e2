package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking is a persisted appointment request. Records are immutable after
// creation; CreatedAt is stamped by the repository at persistence time.
type Booking struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName   string             `json:"firstName" bson:"firstName"`
	LastName    string             `json:"lastName" bson:"lastName"`
	Email       string             `json:"email" bson:"email"`
	Phone       string             `json:"phone" bson:"phone"`
	Location    string             `json:"location" bson:"location"`
	BookingDate time.Time          `json:"bookingDate" bson:"bookingDate"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// BookingRequest is the wire shape of a booking submission. The date stays
// a string until validation parses it; invalid input is rejected before a
// Booking ever exists.
type BookingRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Location  string `json:"location" validate:"omitempty,max=200"`
	Date      string `json:"date" validate:"required"`
}
