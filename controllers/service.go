package controllers

import (
	"net/http"

	"bikeshop-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateServiceInput defines the expected JSON structure for a custom
// repair service.
type CreateServiceInput struct {
	Name         string          `json:"name" binding:"required"`
	DefaultPrice decimal.Decimal `json:"defaultPrice" binding:"required"`
}

// GetServices lists the repair-service catalog: built-ins plus custom.
func (a *App) GetServices(c *gin.Context) {
	c.JSON(http.StatusOK, a.Catalog.Services())
}

// CreateService adds a custom repair service to the catalog.
func (a *App) CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service, err := a.Catalog.AddCustom(c.Request.Context(), input.Name, input.DefaultPrice)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, service)
}

// UpdateService renames or reprices a custom repair service.
func (a *App) UpdateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service, err := a.Catalog.UpdateCustom(c.Request.Context(), c.Param("id"), input.Name, input.DefaultPrice)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, service)
}

// DeleteService removes a custom repair service.
func (a *App) DeleteService(c *gin.Context) {
	if err := a.Catalog.RemoveCustom(c.Request.Context(), c.Param("id")); err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
