package store

import (
	"context"

	"github.com/nexsy/server/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Statistics is the admin dashboard summary.
type Statistics struct {
	Products int64 `json:"products"`
	Accepted int64 `json:"accepted"`
	Pending  int64 `json:"pending"`
	Rejected int64 `json:"rejected"`
	Reviews  int64 `json:"reviews"`
	Users    int64 `json:"users"`
}

// SiteStatistics aggregates the product status breakdown in one pipeline and
// counts reviews and users alongside.
func (db *DB) SiteStatistics(ctx context.Context) (*Statistics, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	cur, err := db.Products().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}

	stats := &Statistics{}
	for _, g := range groups {
		stats.Products += g.Count
		switch g.Status {
		case models.StatusAccepted:
			stats.Accepted = g.Count
		case models.StatusPending:
			stats.Pending = g.Count
		case models.StatusRejected:
			stats.Rejected = g.Count
		}
	}
	if stats.Reviews, err = db.Reviews().CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}
	if stats.Users, err = db.Users().CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}
	return stats, nil
}
