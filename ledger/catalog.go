package ledger

import (
	"context"
	"strings"
	"sync"

	"bikeshop-backend/models"
	"bikeshop-backend/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuiltinServices returns the repair services every workshop starts with.
func BuiltinServices() []models.RepairService {
	return []models.RepairService{
		{ID: "brake_adjustment", Name: "Brake Adjustment", DefaultPrice: decimal.NewFromInt(50)},
		{ID: "gear_tuning", Name: "Gear Tuning", DefaultPrice: decimal.NewFromInt(40)},
		{ID: "chain_replacement", Name: "Chain Replacement", DefaultPrice: decimal.NewFromInt(80)},
		{ID: "tire_replacement", Name: "Tire Replacement", DefaultPrice: decimal.NewFromInt(120)},
		{ID: "brake_pad_replacement", Name: "Brake Pad Replacement", DefaultPrice: decimal.NewFromInt(60)},
		{ID: "wheel_truing", Name: "Wheel Truing", DefaultPrice: decimal.NewFromInt(70)},
		{ID: "full_service", Name: "Full Service", DefaultPrice: decimal.NewFromInt(200)},
	}
}

// Catalog manages the repair-service price list: the built-in services plus
// any custom ones staff add. Only the custom entries are persisted.
type Catalog struct {
	mu     sync.RWMutex
	store  store.CatalogStore
	custom []models.RepairService
}

// NewCatalog loads the custom services from st.
func NewCatalog(ctx context.Context, st store.CatalogStore) (*Catalog, error) {
	custom, err := st.LoadServices(ctx)
	if err != nil {
		return nil, err
	}
	return &Catalog{store: st, custom: custom}, nil
}

// Services returns the built-in services followed by the custom ones.
func (c *Catalog) Services() []models.RepairService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := BuiltinServices()
	return append(out, c.custom...)
}

// AddCustom adds a staff-defined service to the catalog.
func (c *Catalog) AddCustom(ctx context.Context, name string, defaultPrice decimal.Decimal) (models.RepairService, error) {
	if strings.TrimSpace(name) == "" {
		return models.RepairService{}, &ValidationError{Field: "name", Reason: "required"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	service := models.RepairService{
		ID:           "custom_" + uuid.NewString(),
		Name:         name,
		DefaultPrice: defaultPrice,
		IsCustom:     true,
	}
	c.custom = append(c.custom, service)

	if err := c.store.SaveServices(ctx, append([]models.RepairService(nil), c.custom...)); err != nil {
		return service, &PersistError{Err: err}
	}
	return service, nil
}

// UpdateCustom renames or reprices a custom service. Built-in services
// cannot be edited; their IDs are not in the custom set.
func (c *Catalog) UpdateCustom(ctx context.Context, id, name string, defaultPrice decimal.Decimal) (models.RepairService, error) {
	if strings.TrimSpace(name) == "" {
		return models.RepairService{}, &ValidationError{Field: "name", Reason: "required"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.custom {
		if c.custom[i].ID == id {
			c.custom[i].Name = name
			c.custom[i].DefaultPrice = defaultPrice
			if err := c.store.SaveServices(ctx, append([]models.RepairService(nil), c.custom...)); err != nil {
				return c.custom[i], &PersistError{Err: err}
			}
			return c.custom[i], nil
		}
	}
	return models.RepairService{}, &NotFoundError{Entity: "repair service", ID: id}
}

// RemoveCustom deletes a custom service from the catalog.
func (c *Catalog) RemoveCustom(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.custom {
		if c.custom[i].ID == id {
			c.custom = append(c.custom[:i], c.custom[i+1:]...)
			if err := c.store.SaveServices(ctx, append([]models.RepairService(nil), c.custom...)); err != nil {
				return &PersistError{Err: err}
			}
			return nil
		}
	}
	return &NotFoundError{Entity: "repair service", ID: id}
}
