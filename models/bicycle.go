package models

import (
	"time"

	"github.com/google/uuid"
)

type Bicycle struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`

	Brand           string `gorm:"not null" json:"brand"`
	Model           string `json:"model"`
	Color           string `json:"color"`
	Type            string `json:"type"`
	AdditionalSpecs string `json:"additionalSpecs"`

	TotalRepairs    int        `gorm:"default:0" json:"totalRepairs"`
	LastServiceDate *time.Time `json:"lastServiceDate"`

	RegisteredAt time.Time `json:"registeredAt"`
}
