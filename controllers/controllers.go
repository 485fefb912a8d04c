// Package controllers maps the HTTP surface onto the ledger operations.
package controllers

import (
	"errors"
	"net/http"

	"bikeshop-backend/ledger"
	"bikeshop-backend/services"
	"bikeshop-backend/store"
	"bikeshop-backend/utils"

	"github.com/gin-gonic/gin"
)

// App bundles the collaborators the handlers need. Built once in main and
// handed to the router; no package-level state.
type App struct {
	Ledger  *ledger.Ledger
	Catalog *ledger.Catalog

	// Notifier is optional; nil disables completion SMS.
	Notifier *services.Notifier

	// Backends lists the configured storage backends by name, for the
	// migration endpoint.
	Backends map[string]store.Store
}

// respondLedgerError translates the ledger's error kinds to HTTP statuses.
// The UI branches on status and the structured payload, not message text.
func respondLedgerError(c *gin.Context, err error) {
	var (
		notFound     *ledger.NotFoundError
		duplicate    *ledger.DuplicatePhoneError
		invalidState *ledger.InvalidStateError
		validation   *ledger.ValidationError
		persist      *ledger.PersistError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "entity": notFound.Entity, "id": notFound.ID})
	case errors.As(err, &duplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "phoneNumber": duplicate.PhoneNumber, "existingId": duplicate.ExistingID})
	case errors.As(err, &invalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "entity": invalidState.Entity, "id": invalidState.ID, "state": invalidState.State})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": validation.Field})
	case errors.As(err, &persist):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
	}
}
