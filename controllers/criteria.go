// controllers/criteria.go - Scoring criteria ledger
package controllers

import (
	"net/http"
	"strconv"

	"pkm-management-api/config"
	"pkm-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetCriteriaLedger returns the ordered criteria of a grant type with the
// running weight total and completeness flag.
func GetCriteriaLedger(c *gin.Context) {
	grantTypeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid grant type ID"})
		return
	}
	includeDeleted := c.Query("include_deleted") == "true"

	ledger, err := services.NewCriteriaService(config.DB).Ledger(grantTypeID, includeDeleted)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"criteria":     ledger.Criteria,
		"total_weight": ledger.TotalWeight,
		"is_complete":  ledger.IsComplete,
	})
}

// CreateCriterion appends a criterion to a grant type's ledger.
func CreateCriterion(c *gin.Context) {
	var in services.CriterionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewCriteriaService(config.DB)
	criterion, err := svc.Add(in)
	if err != nil {
		respondError(c, err)
		return
	}

	// Surface the new running total so staff can see an over/under-weighted
	// ledger immediately.
	ledger, err := svc.Ledger(in.GrantTypeID, false)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"criterion":    criterion,
		"total_weight": ledger.TotalWeight,
		"is_complete":  ledger.IsComplete,
	})
}

// ReorderCriteria bulk re-assigns order indices, all-or-nothing.
func ReorderCriteria(c *gin.Context) {
	grantTypeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid grant type ID"})
		return
	}

	var req struct {
		Items []services.ReorderItem `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.NewCriteriaService(config.DB).Reorder(grantTypeID, req.Items); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Criteria reordered",
	})
}

// DuplicateCriteria copies a grant type's criteria to another type.
func DuplicateCriteria(c *gin.Context) {
	var req struct {
		SourceTypeID int  `json:"source_type_id" binding:"required"`
		TargetTypeID int  `json:"target_type_id" binding:"required"`
		Overwrite    bool `json:"overwrite"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.NewCriteriaService(config.DB).Duplicate(req.SourceTypeID, req.TargetTypeID, req.Overwrite); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Criteria duplicated",
	})
}

// DeleteCriterion tombstones one criterion.
func DeleteCriterion(c *gin.Context) {
	criterionID, err := strconv.Atoi(c.Param("criterion_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid criterion ID"})
		return
	}

	if err := services.NewCriteriaService(config.DB).SoftDelete(criterionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Criterion deleted",
	})
}

// RestoreCriterion clears a criterion's tombstone.
func RestoreCriterion(c *gin.Context) {
	criterionID, err := strconv.Atoi(c.Param("criterion_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid criterion ID"})
		return
	}

	if err := services.NewCriteriaService(config.DB).Restore(criterionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Criterion restored",
	})
}
