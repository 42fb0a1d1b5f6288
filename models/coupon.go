package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Coupon struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Code        string             `bson:"code" json:"code"`
	Discount    int64              `bson:"discount" json:"discount"` // percent off the membership price
	ExpiryDate  time.Time          `bson:"expiryDate" json:"expiryDate"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Expired reports whether the coupon can no longer be redeemed at t.
func (c *Coupon) Expired(t time.Time) bool {
	return t.After(c.ExpiryDate)
}
