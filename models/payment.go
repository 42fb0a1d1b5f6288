package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment records a PaymentIntent created for a membership purchase. The
// provider owns the intent lifecycle; this is the server-side audit entry.
type Payment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email       string             `bson:"email" json:"email"`
	AmountCents int64              `bson:"amountCents" json:"amountCents"`
	CouponCode  string             `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	IntentID    string             `bson:"intentId" json:"intentId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
