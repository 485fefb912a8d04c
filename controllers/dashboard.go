package controllers

import (
	"net/http"
	"sort"
	"time"

	"bikeshop-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CustomerSummary struct {
	Name   string          `json:"name"`
	Visits int             `json:"visits"`
	Spent  decimal.Decimal `json:"spent"`
}

// GetDashboardOverview returns the counters and summaries for the database
// tab: collection sizes, revenue, and the top customers by spend.
func (a *App) GetDashboardOverview(c *gin.Context) {
	snap := a.Ledger.Snapshot()

	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	totalRevenue := decimal.Zero
	monthlyRevenue := decimal.Zero
	for _, rec := range snap.RepairHistory {
		totalRevenue = totalRevenue.Add(rec.TotalAmount)
		if !rec.CompletedAt.Before(firstOfMonth) {
			monthlyRevenue = monthlyRevenue.Add(rec.TotalAmount)
		}
	}

	pendingJobs := 0
	for _, job := range snap.JobOffers {
		if job.Status == models.StatusPending || job.Status == models.StatusInProgress {
			pendingJobs++
		}
	}

	topCustomers := make([]CustomerSummary, 0, len(snap.Customers))
	for _, customer := range snap.Customers {
		if customer.TotalVisits == 0 {
			continue
		}
		topCustomers = append(topCustomers, CustomerSummary{
			Name:   customer.Name,
			Visits: customer.TotalVisits,
			Spent:  customer.TotalSpent,
		})
	}
	sort.SliceStable(topCustomers, func(i, j int) bool {
		return topCustomers[i].Spent.GreaterThan(topCustomers[j].Spent)
	})
	if len(topCustomers) > 4 {
		topCustomers = topCustomers[:4]
	}

	c.JSON(http.StatusOK, gin.H{
		"totalCustomers":   len(snap.Customers),
		"totalBicycles":    len(snap.Bicycles),
		"totalJobOffers":   len(snap.JobOffers),
		"totalRepairs":     len(snap.RepairHistory),
		"pendingJobOffers": pendingJobs,
		"totalRevenue":     totalRevenue,
		"monthlyRevenue":   monthlyRevenue,
		"topCustomers":     topCustomers,
	})
}
