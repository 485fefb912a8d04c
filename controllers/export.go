package controllers

import (
	"net/http"

	"bikeshop-backend/export"
	"bikeshop-backend/models"
	"bikeshop-backend/utils"

	"github.com/gin-gonic/gin"
)

// ExportJSON returns the full database as a timestamped JSON document.
func (a *App) ExportJSON(c *gin.Context) {
	c.JSON(http.StatusOK, a.Ledger.ExportDatabase())
}

// ExportCSV streams one collection as CSV: /api/export/csv/:collection.
func (a *App) ExportCSV(c *gin.Context) {
	snap := a.Ledger.Snapshot()

	var csv, filename string
	switch c.Param("collection") {
	case "customers":
		csv, filename = export.CustomersCSV(snap), "customers.csv"
	case "bicycles":
		csv, filename = export.BicyclesCSV(snap), "bicycles.csv"
	case "job-offers":
		csv, filename = export.JobOffersCSV(snap), "job_offers.csv"
	case "repair-history":
		csv, filename = export.RepairHistoryCSV(snap), "repair_history.csv"
	default:
		utils.RespondWithError(c, http.StatusNotFound, "Unknown collection")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

// ImportJSON replaces the collections present in the posted document.
func (a *App) ImportJSON(c *gin.Context) {
	var data models.Snapshot
	if err := c.ShouldBindJSON(&data); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := a.Ledger.ImportDatabase(c.Request.Context(), data); err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Database imported successfully"})
}

// ClearDatabase wipes all four collections.
func (a *App) ClearDatabase(c *gin.Context) {
	if err := a.Ledger.ClearAll(c.Request.Context()); err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Database cleared"})
}
