package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Job offer status values. Pending is the only status the system assigns on
// creation; completion goes through the ledger so the history and stats stay
// in step. The other values are set by explicit edits.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

type JobOffer struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TicketID string    `gorm:"index;not null" json:"ticketId"`

	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`
	BicycleID  uuid.UUID `gorm:"type:uuid;index;not null" json:"bicycleId"`

	Repairs     RepairList      `gorm:"type:jsonb" json:"repairs"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	Notes       string          `json:"notes"`

	Status      string     `gorm:"index;default:'pending'" json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// RepairItem is one line on a ticket: what was done and for how much.
type RepairItem struct {
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// RepairList stores the repair lines as a jsonb column.
type RepairList []RepairItem

func (r RepairList) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *RepairList) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, r)
}

// Total sums the line prices at full precision.
func (r RepairList) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r {
		total = total.Add(item.Price)
	}
	return total
}

// Copy returns an independent copy of the list.
func (r RepairList) Copy() RepairList {
	if r == nil {
		return nil
	}
	out := make(RepairList, len(r))
	copy(out, r)
	return out
}
