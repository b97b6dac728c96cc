// controllers/respond.go - Shared service-error to HTTP mapping
package controllers

import (
	"errors"
	"net/http"

	"pkm-management-api/config"
	"pkm-management-api/services"
	"pkm-management-api/utils"

	"github.com/gin-gonic/gin"
)

// newProposalService wires the lifecycle engine over the shared DB handle
// and the process-wide event bus.
func newProposalService() *services.ProposalService {
	calendars := services.NewCalendarService(config.DB)
	eligibility := services.NewEligibilityService(config.DB, calendars)
	return services.NewProposalService(config.DB, eligibility, services.Dispatcher)
}

// respondError maps the typed workflow errors onto HTTP statuses, keeping
// the structured detail so the client can render an actionable message.
func respondError(c *gin.Context, err error) {
	var (
		validationErr  *utils.ValidationError
		capacityErr    *utils.CapacityError
		conflictErr    *utils.ConflictError
		notFoundErr    *utils.NotFoundError
		eligibilityErr *utils.EligibilityError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   validationErr.Message,
			"field":   validationErr.Field,
			"rule":    validationErr.Rule,
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{
			"success":  false,
			"error":    notFoundErr.Error(),
			"resource": notFoundErr.Resource,
		})
	case errors.As(err, &capacityErr):
		c.JSON(http.StatusConflict, gin.H{
			"success":   false,
			"error":     capacityErr.Error(),
			"resource":  capacityErr.Resource,
			"limit":     capacityErr.Limit,
			"requested": capacityErr.Requested,
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{
			"success":  false,
			"error":    conflictErr.Error(),
			"resource": conflictErr.Resource,
		})
	case errors.As(err, &eligibilityErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success":   false,
			"error":     eligibilityErr.Error(),
			"checklist": eligibilityErr.Checklist,
			"reasons":   eligibilityErr.Checklist.FailedReasons(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal server error",
		})
	}
}
