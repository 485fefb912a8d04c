package controllers

import (
	"net/http"

	"bikeshop-backend/store"
	"bikeshop-backend/utils"

	"github.com/gin-gonic/gin"
)

type MigrateInput struct {
	Source string `json:"source" binding:"required"`
	Target string `json:"target" binding:"required"`
}

// Migrate copies the full database from one configured backend to another,
// e.g. from the JSON file to postgres when a workshop outgrows local files.
func (a *App) Migrate(c *gin.Context) {
	var input MigrateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	src, ok := a.Backends[input.Source]
	if !ok {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown source backend: "+input.Source)
		return
	}
	dst, ok := a.Backends[input.Target]
	if !ok {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown target backend: "+input.Target)
		return
	}
	if input.Source == input.Target {
		utils.RespondWithError(c, http.StatusBadRequest, "Source and target backends are the same")
		return
	}

	if err := store.Migrate(c.Request.Context(), src, dst); err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Migration failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Migration completed", "source": input.Source, "target": input.Target})
}
