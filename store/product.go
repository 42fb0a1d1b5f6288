package store

import (
	"context"

	"github.com/nexsy/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertProduct(ctx context.Context, p *models.Product) (primitive.ObjectID, error) {
	res, err := db.Products().InsertOne(ctx, p)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) ProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := db.Products().FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *DB) AllProducts(ctx context.Context) ([]models.Product, error) {
	return db.findProducts(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
}

func (db *DB) ProductsByOwner(ctx context.Context, email string) ([]models.Product, error) {
	return db.findProducts(ctx, bson.M{"ownerEmail": email}, options.Find().SetSort(bson.M{"createdAt": -1}))
}

// AcceptedProducts returns one page of accepted products, optionally filtered
// by a case-insensitive tag match, plus the total count of the filtered set.
func (db *DB) AcceptedProducts(ctx context.Context, search string, page, limit int64) ([]models.Product, int64, error) {
	filter := bson.M{"status": models.StatusAccepted}
	if search != "" {
		filter["tags"] = bson.M{"$elemMatch": bson.M{"$regex": search, "$options": "i"}}
	}
	total, err := db.Products().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	products, err := db.findProducts(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (db *DB) TrendingProducts(ctx context.Context, limit int64) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.M{"upvotes": -1}).SetLimit(limit)
	return db.findProducts(ctx, bson.M{"status": models.StatusAccepted}, opts)
}

func (db *DB) FeaturedProducts(ctx context.Context, limit int64) ([]models.Product, error) {
	filter := bson.M{"status": models.StatusAccepted, "featured": true}
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	return db.findProducts(ctx, filter, opts)
}

// ReportedProducts lists products with at least one reporter.
func (db *DB) ReportedProducts(ctx context.Context) ([]models.Product, error) {
	filter := bson.M{"reporters.0": bson.M{"$exists": true}}
	return db.findProducts(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
}

// UpdateProductStatus sets moderation fields. Nil fields are left untouched.
func (db *DB) UpdateProductStatus(ctx context.Context, id primitive.ObjectID, status *string, featured *bool) error {
	set := bson.M{}
	if status != nil {
		set["status"] = *status
	}
	if featured != nil {
		set["featured"] = *featured
	}
	if len(set) == 0 {
		return nil
	}
	res, err := db.Products().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProductDetails overwrites the owner-editable fields.
func (db *DB) UpdateProductDetails(ctx context.Context, id primitive.ObjectID, p *models.Product) error {
	set := bson.M{
		"title":       p.Title,
		"description": p.Description,
		"tags":        p.Tags,
		"externalUrl": p.ExternalURL,
		"imageUrl":    p.ImageURL,
	}
	res, err := db.Products().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) SetProductImage(ctx context.Context, id primitive.ObjectID, url string) error {
	res, err := db.Products().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"imageUrl": url}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	res, err := db.Products().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpvoteProduct applies an upvote at most once per voter. The membership
// check is part of the update filter, so the counter and the voter set move
// together in one atomic round trip; two concurrent votes from the same
// caller cannot both increment. Returns the updated document, ErrDuplicate
// when the voter is already present, or ErrNotFound.
func (db *DB) UpvoteProduct(ctx context.Context, id primitive.ObjectID, voter string) (*models.Product, error) {
	filter := bson.M{"_id": id, "voters": bson.M{"$ne": voter}}
	update := bson.M{
		"$inc":      bson.M{"upvotes": 1},
		"$addToSet": bson.M{"voters": voter},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Product
	err := db.Products().FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if err == mongo.ErrNoDocuments {
		// Either the product is gone or this voter already counted.
		if _, lookupErr := db.ProductByID(ctx, id); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ReportProduct records the reporter at most once. $addToSet is atomic and
// idempotent on its own here since no counter rides along; a repeat report
// matches the document but modifies nothing.
func (db *DB) ReportProduct(ctx context.Context, id primitive.ObjectID, reporter string) error {
	update := bson.M{"$addToSet": bson.M{"reporters": reporter}}
	res, err := db.Products().UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearReports empties the reporter set, removing the product from the
// reported listing.
func (db *DB) ClearReports(ctx context.Context, id primitive.ObjectID) error {
	res, err := db.Products().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"reporters": []string{}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) findProducts(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cur, err := db.Products().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}
