package models

import (
	"github.com/shopspring/decimal"
)

// RepairService is a catalog entry offered when building a job offer.
// Built-in services ship with the workshop; custom ones are added by staff.
type RepairService struct {
	ID           string          `gorm:"primary_key" json:"id"`
	Name         string          `gorm:"not null" json:"name"`
	DefaultPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"defaultPrice"`
	IsCustom     bool            `gorm:"default:false" json:"isCustom"`
}
