package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is written once against an accepted product and never edited.
type Review struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ProductID     primitive.ObjectID `bson:"productId" json:"productId"`
	ReviewerEmail string             `bson:"reviewerEmail" json:"reviewerEmail"`
	ReviewerName  string             `bson:"reviewerName,omitempty" json:"reviewerName,omitempty"`
	Rating        int                `bson:"rating" json:"rating"`
	Text          string             `bson:"text" json:"text"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
