package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product status values. The casing is uneven because the original database
// stores "pending" lowercase and the moderated states capitalized; documents
// in the wild already look like this, so the constants match.
const (
	StatusPending  = "pending"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerEmail  string             `bson:"ownerEmail" json:"ownerEmail"`
	OwnerName   string             `bson:"ownerName,omitempty" json:"ownerName,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Tags        []string           `bson:"tags" json:"tags"`
	ExternalURL string             `bson:"externalUrl,omitempty" json:"externalUrl,omitempty"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Status      string             `bson:"status" json:"status"`
	Upvotes     int64              `bson:"upvotes" json:"upvotes"`
	Voters      []string           `bson:"voters" json:"voters"`
	Reporters   []string           `bson:"reporters" json:"reporters"`
	Featured    bool               `bson:"featured" json:"featured"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
