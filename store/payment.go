package store

import (
	"context"

	"github.com/nexsy/server/models"
)

func (db *DB) InsertPayment(ctx context.Context, p *models.Payment) error {
	_, err := db.Payments().InsertOne(ctx, p)
	return err
}
