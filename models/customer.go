package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Name        string `gorm:"not null" json:"name"`
	PhoneNumber string `gorm:"not null;uniqueIndex" json:"phoneNumber"`
	Email       string `json:"email"`
	Address     string `json:"address"`

	TotalVisits int             `gorm:"default:0" json:"totalVisits"`
	TotalSpent  decimal.Decimal `gorm:"type:decimal(12,2);default:0.0" json:"totalSpent"`

	CreatedAt time.Time `json:"createdAt"`
}
