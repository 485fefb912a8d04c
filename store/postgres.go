package store

import (
	"context"

	"bikeshop-backend/models"

	"gorm.io/gorm"
)

// Postgres persists the snapshot in a postgres database through gorm, one
// table per collection. SaveAll replaces the tables inside a single
// transaction, keeping the document-style all-or-nothing write semantics of
// the other backends.
type Postgres struct {
	db *gorm.DB
}

// NewPostgres migrates the schema and returns the store.
func NewPostgres(db *gorm.DB) (*Postgres, error) {
	err := db.AutoMigrate(
		&models.Customer{},
		&models.Bicycle{},
		&models.JobOffer{},
		&models.RepairRecord{},
		&models.RepairService{},
	)
	if err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) LoadAll(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot
	db := p.db.WithContext(ctx)

	if err := db.Order("created_at").Find(&snap.Customers).Error; err != nil {
		return models.Snapshot{}, err
	}
	if err := db.Order("registered_at").Find(&snap.Bicycles).Error; err != nil {
		return models.Snapshot{}, err
	}
	if err := db.Order("created_at").Find(&snap.JobOffers).Error; err != nil {
		return models.Snapshot{}, err
	}
	if err := db.Order("completed_at").Find(&snap.RepairHistory).Error; err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

func (p *Postgres) SaveAll(ctx context.Context, snap models.Snapshot) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []interface{}{
			&models.RepairRecord{}, &models.JobOffer{}, &models.Bicycle{}, &models.Customer{},
		} {
			if err := wipe.Delete(model).Error; err != nil {
				return err
			}
		}

		if len(snap.Customers) > 0 {
			if err := tx.Create(&snap.Customers).Error; err != nil {
				return err
			}
		}
		if len(snap.Bicycles) > 0 {
			if err := tx.Create(&snap.Bicycles).Error; err != nil {
				return err
			}
		}
		if len(snap.JobOffers) > 0 {
			if err := tx.Create(&snap.JobOffers).Error; err != nil {
				return err
			}
		}
		if len(snap.RepairHistory) > 0 {
			if err := tx.Create(&snap.RepairHistory).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *Postgres) LoadServices(ctx context.Context) ([]models.RepairService, error) {
	var services []models.RepairService
	err := p.db.WithContext(ctx).Where("is_custom = ?", true).Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (p *Postgres) SaveServices(ctx context.Context, services []models.RepairService) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("is_custom = ?", true).Delete(&models.RepairService{}).Error; err != nil {
			return err
		}
		if len(services) > 0 {
			if err := tx.Create(&services).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
