package controllers

import (
	"net/http"

	"bikeshop-backend/ledger"
	"bikeshop-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateBicycleInput struct {
	CustomerID uuid.UUID           `json:"customerId" binding:"required"`
	Bicycle    ledger.BicycleInput `json:"bicycle" binding:"required"`
}

// IntakeInput registers a bicycle for a walk-in in one step: the customer
// fields are merged by phone number, then the bicycle is attached.
type IntakeInput struct {
	Customer ledger.CustomerInput `json:"customer" binding:"required"`
	Bicycle  ledger.BicycleInput  `json:"bicycle" binding:"required"`
}

// CreateBicycle registers a bicycle for an existing customer.
func (a *App) CreateBicycle(c *gin.Context) {
	var input CreateBicycleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	bicycle, err := a.Ledger.AddBicycle(c.Request.Context(), input.Bicycle, input.CustomerID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bicycle)
}

// Intake handles the front-desk flow: customer and bicycle in one request.
func (a *App) Intake(c *gin.Context) {
	var input IntakeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Customer.PhoneNumber) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	customer, err := a.Ledger.AddCustomer(c.Request.Context(), input.Customer)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	bicycle, err := a.Ledger.AddBicycle(c.Request.Context(), input.Bicycle, customer.ID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": customer, "bicycle": bicycle})
}

// GetBicycles lists all bicycles.
func (a *App) GetBicycles(c *gin.Context) {
	c.JSON(http.StatusOK, a.Ledger.Bicycles())
}

// DeleteBicycle removes a bicycle and cascades over its job offers and
// repair history.
func (a *App) DeleteBicycle(c *gin.Context) {
	bicycleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bicycle ID format")
		return
	}

	if err := a.Ledger.DeleteBicycle(c.Request.Context(), bicycleID); err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bicycle deleted successfully"})
}
