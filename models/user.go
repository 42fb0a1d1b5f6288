package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role constants for user authorization.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email      string             `bson:"email" json:"email"`
	Name       string             `bson:"name,omitempty" json:"name,omitempty"`
	PhotoURL   string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Role       string             `bson:"role" json:"role"`
	Subscribed bool               `bson:"subscribed" json:"subscribed"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
