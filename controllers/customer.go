package controllers

import (
	"net/http"

	"bikeshop-backend/ledger"
	"bikeshop-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateCustomer registers a customer. A phone number that is already on
// file returns the existing customer instead of a duplicate.
func (a *App) CreateCustomer(c *gin.Context) {
	var input ledger.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.PhoneNumber) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	customer, err := a.Ledger.AddCustomer(c.Request.Context(), input)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomers lists all customers, or the matches for ?search=term.
func (a *App) GetCustomers(c *gin.Context) {
	if term := c.Query("search"); term != "" {
		c.JSON(http.StatusOK, a.Ledger.SearchCustomers(term))
		return
	}
	c.JSON(http.StatusOK, a.Ledger.Customers())
}

// GetCustomerProfile returns a customer with their bicycles, job offers and
// repair history.
func (a *App) GetCustomerProfile(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	profile, err := a.Ledger.GetCustomerProfile(customerID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateCustomer applies partial changes to a customer.
func (a *App) UpdateCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var update ledger.CustomerUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if update.PhoneNumber != nil && !utils.ValidatePhone(*update.PhoneNumber) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	customer, err := a.Ledger.UpdateCustomer(c.Request.Context(), customerID, update)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}
