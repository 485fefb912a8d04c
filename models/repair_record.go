package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RepairRecord is the historical record written when a job offer is
// completed. It carries a copy of the job's repairs so later edits or
// deletes of the job offer cannot rewrite history.
type RepairRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`
	BicycleID  uuid.UUID `gorm:"type:uuid;index;not null" json:"bicycleId"`
	JobOfferID uuid.UUID `gorm:"type:uuid;index;not null" json:"jobOfferId"`

	Repairs     RepairList      `gorm:"type:jsonb" json:"repairs"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	Notes       string          `json:"notes"`

	CompletedAt time.Time `json:"completedAt"`
}
