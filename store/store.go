// Package store provides the interchangeable persistence backends for the
// workshop database. Every backend loads and saves the full snapshot as one
// unit; the ledger writes through after each mutation.
package store

import (
	"context"

	"bikeshop-backend/models"
)

// Store is the persistence contract the ledger writes through.
type Store interface {
	LoadAll(ctx context.Context) (models.Snapshot, error)
	SaveAll(ctx context.Context, snap models.Snapshot) error
}

// CatalogStore persists the custom repair-service catalog entries.
type CatalogStore interface {
	LoadServices(ctx context.Context) ([]models.RepairService, error)
	SaveServices(ctx context.Context, services []models.RepairService) error
}

// Migrate copies the full snapshot from src into dst, replacing whatever dst
// held. Used when a workshop moves between backends.
func Migrate(ctx context.Context, src, dst Store) error {
	snap, err := src.LoadAll(ctx)
	if err != nil {
		return err
	}
	return dst.SaveAll(ctx, snap)
}
