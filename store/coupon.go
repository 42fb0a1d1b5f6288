package store

import (
	"context"
	"time"

	"github.com/nexsy/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertCoupon(ctx context.Context, c *models.Coupon) (primitive.ObjectID, error) {
	res, err := db.Coupons().InsertOne(ctx, c)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	cur, err := db.Coupons().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var coupons []models.Coupon
	if err := cur.All(ctx, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}

// UpdateCoupon overwrites the editable fields; returns the modified count so
// the handler can echo it like the original API did.
func (db *DB) UpdateCoupon(ctx context.Context, id primitive.ObjectID, c *models.Coupon) (int64, error) {
	set := bson.M{
		"code":        c.Code,
		"discount":    c.Discount,
		"expiryDate":  c.ExpiryDate,
		"description": c.Description,
	}
	res, err := db.Coupons().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (db *DB) DeleteCoupon(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := db.Coupons().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ValidCouponByCode returns the coupon for code when it exists and has not
// expired at now; ErrNotFound otherwise.
func (db *DB) ValidCouponByCode(ctx context.Context, code string, now time.Time) (*models.Coupon, error) {
	var c models.Coupon
	err := db.Coupons().FindOne(ctx, bson.M{"code": code}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if c.Expired(now) {
		return nil, ErrNotFound
	}
	return &c, nil
}
