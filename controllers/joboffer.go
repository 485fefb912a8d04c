package controllers

import (
	"net/http"

	"bikeshop-backend/ledger"
	"bikeshop-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateJobOffer opens a repair ticket.
func (a *App) CreateJobOffer(c *gin.Context) {
	var input ledger.JobOfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	job, err := a.Ledger.CreateJobOffer(c.Request.Context(), input)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetJobOffers lists all job offers.
func (a *App) GetJobOffers(c *gin.Context) {
	c.JSON(http.StatusOK, a.Ledger.JobOffers())
}

// GetJobOffer returns one job offer.
func (a *App) GetJobOffer(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid job offer ID format")
		return
	}

	job, err := a.Ledger.GetJobOffer(jobID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// UpdateJobOffer edits a ticket's repairs, notes, status or total.
func (a *App) UpdateJobOffer(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid job offer ID format")
		return
	}

	var update ledger.JobOfferUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	job, err := a.Ledger.UpdateJobOffer(c.Request.Context(), jobID, update)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// CompleteJob closes a ticket, writes the repair history record and updates
// the customer and bicycle statistics. If SMS is configured the customer is
// told their bike is ready.
func (a *App) CompleteJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid job offer ID format")
		return
	}

	record, err := a.Ledger.CompleteJob(c.Request.Context(), jobID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	if a.Notifier != nil {
		if customer, err := a.Ledger.GetCustomer(record.CustomerID); err == nil {
			bicycle, _ := a.Ledger.GetBicycle(record.BicycleID)
			a.Notifier.JobCompleted(customer, bicycle, record)
		}
	}

	c.JSON(http.StatusOK, record)
}

// DeleteJobOffer removes a ticket, reversing its bookkeeping if it had been
// completed.
func (a *App) DeleteJobOffer(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid job offer ID format")
		return
	}

	if err := a.Ledger.DeleteJobOffer(c.Request.Context(), jobID); err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job offer deleted successfully"})
}

// GetRepairHistory lists the completed repairs.
func (a *App) GetRepairHistory(c *gin.Context) {
	c.JSON(http.StatusOK, a.Ledger.RepairHistory())
}
