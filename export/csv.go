// Package export renders read-only snapshots of the workshop database as
// CSV, with the joined customer/bicycle columns the shop's spreadsheets
// expect.
package export

import (
	"fmt"
	"strings"
	"time"

	"bikeshop-backend/models"

	"github.com/google/uuid"
)

// CustomersCSV renders the customer collection.
func CustomersCSV(snap models.Snapshot) string {
	headers := []string{"id", "name", "phoneNumber", "email", "address", "totalVisits", "totalSpent", "createdAt"}
	rows := make([][]string, 0, len(snap.Customers))
	for _, c := range snap.Customers {
		rows = append(rows, []string{
			c.ID.String(),
			c.Name,
			c.PhoneNumber,
			c.Email,
			c.Address,
			fmt.Sprintf("%d", c.TotalVisits),
			c.TotalSpent.StringFixed(2),
			formatTime(c.CreatedAt),
		})
	}
	return renderCSV(headers, rows)
}

// BicyclesCSV renders the bicycle collection with owner name and phone
// joined in.
func BicyclesCSV(snap models.Snapshot) string {
	customers := customersByID(snap)
	headers := []string{"id", "customerName", "customerPhone", "brand", "model", "color", "type", "additionalSpecs", "totalRepairs", "registeredAt", "lastServiceDate"}
	rows := make([][]string, 0, len(snap.Bicycles))
	for _, b := range snap.Bicycles {
		name, phone := customerColumns(customers, b.CustomerID)
		lastService := ""
		if b.LastServiceDate != nil {
			lastService = formatTime(*b.LastServiceDate)
		}
		rows = append(rows, []string{
			b.ID.String(),
			name,
			phone,
			b.Brand,
			b.Model,
			b.Color,
			b.Type,
			b.AdditionalSpecs,
			fmt.Sprintf("%d", b.TotalRepairs),
			formatTime(b.RegisteredAt),
			lastService,
		})
	}
	return renderCSV(headers, rows)
}

// JobOffersCSV renders the job offers with customer and bicycle details
// joined in and the repair lines flattened to one column.
func JobOffersCSV(snap models.Snapshot) string {
	customers := customersByID(snap)
	bicycles := bicyclesByID(snap)
	headers := []string{"id", "ticketId", "customerName", "customerPhone", "bicycleBrand", "bicycleColor", "repairs", "totalAmount", "status", "notes", "createdAt", "completedAt"}
	rows := make([][]string, 0, len(snap.JobOffers))
	for _, job := range snap.JobOffers {
		name, phone := customerColumns(customers, job.CustomerID)
		brand, color := bicycleColumns(bicycles, job.BicycleID)
		completedAt := ""
		if job.CompletedAt != nil {
			completedAt = formatTime(*job.CompletedAt)
		}
		rows = append(rows, []string{
			job.ID.String(),
			job.TicketID,
			name,
			phone,
			brand,
			color,
			flattenRepairs(job.Repairs),
			job.TotalAmount.StringFixed(2),
			job.Status,
			job.Notes,
			formatTime(job.CreatedAt),
			completedAt,
		})
	}
	return renderCSV(headers, rows)
}

// RepairHistoryCSV renders the repair history with customer and bicycle
// details joined in.
func RepairHistoryCSV(snap models.Snapshot) string {
	customers := customersByID(snap)
	bicycles := bicyclesByID(snap)
	headers := []string{"id", "customerName", "customerPhone", "bicycleBrand", "bicycleColor", "repairs", "totalAmount", "notes", "completedAt"}
	rows := make([][]string, 0, len(snap.RepairHistory))
	for _, rec := range snap.RepairHistory {
		name, phone := customerColumns(customers, rec.CustomerID)
		brand, color := bicycleColumns(bicycles, rec.BicycleID)
		rows = append(rows, []string{
			rec.ID.String(),
			name,
			phone,
			brand,
			color,
			flattenRepairs(rec.Repairs),
			rec.TotalAmount.StringFixed(2),
			rec.Notes,
			formatTime(rec.CompletedAt),
		})
	}
	return renderCSV(headers, rows)
}

func customersByID(snap models.Snapshot) map[uuid.UUID]models.Customer {
	out := make(map[uuid.UUID]models.Customer, len(snap.Customers))
	for _, c := range snap.Customers {
		out[c.ID] = c
	}
	return out
}

func bicyclesByID(snap models.Snapshot) map[uuid.UUID]models.Bicycle {
	out := make(map[uuid.UUID]models.Bicycle, len(snap.Bicycles))
	for _, b := range snap.Bicycles {
		out[b.ID] = b
	}
	return out
}

func customerColumns(customers map[uuid.UUID]models.Customer, id uuid.UUID) (name, phone string) {
	if c, ok := customers[id]; ok {
		return c.Name, c.PhoneNumber
	}
	return "Unknown", "N/A"
}

func bicycleColumns(bicycles map[uuid.UUID]models.Bicycle, id uuid.UUID) (brand, color string) {
	if b, ok := bicycles[id]; ok {
		return b.Brand, b.Color
	}
	return "Unknown", "Unknown"
}

func flattenRepairs(repairs models.RepairList) string {
	parts := make([]string, 0, len(repairs))
	for _, r := range repairs {
		parts = append(parts, fmt.Sprintf("%s (₪%s)", r.Description, r.Price.StringFixed(2)))
	}
	return strings.Join(parts, "; ")
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// renderCSV joins headers and rows, quoting fields that contain a comma or a
// quote and doubling embedded quotes.
func renderCSV(headers []string, rows [][]string) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(headers, ","))
	for _, row := range rows {
		sb.WriteByte('\n')
		for i, field := range row {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(escapeField(field))
		}
	}
	return sb.String()
}

func escapeField(field string) string {
	if strings.ContainsAny(field, ",\"") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}
