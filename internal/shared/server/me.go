package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/shared/auth"
	"bookstore-admin/internal/shared/server/middleware"
	"bookstore-admin/internal/shared/server/respond"
	"bookstore-admin/internal/submission"
)

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

func meHandler(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	role := middleware.RoleFromContext(c)

	audiences := []submission.Audience{submission.AudienceVendor}
	if role == auth.RoleAdmin {
		audiences = []submission.Audience{submission.AudienceAdmin, submission.AudienceVendor}
	}

	response := gin.H{
		"userId":    userID,
		"role":      role,
		"audiences": audiences,
		"editions":  []submission.EditionKind{submission.KindPaper, submission.KindElectronic},
	}
	if name := middleware.UserNameFromContext(c); name != "" {
		response["name"] = name
	}

	respond.JSON(c, http.StatusOK, response)
}
