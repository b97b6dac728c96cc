// controllers/grant_type.go - Grant type (jenis PKM) reference data
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"pkm-management-api/config"
	"pkm-management-api/models"
	"pkm-management-api/utils"

	"github.com/gin-gonic/gin"
)

type GrantTypeRequest struct {
	Abbreviation string `json:"abbreviation" binding:"required"`
	GrantName    string `json:"grant_name" binding:"required"`
	MinMembers   int    `json:"min_members" binding:"required"`
	MaxMembers   int    `json:"max_members" binding:"required"`
	MaxReviewers int    `json:"max_reviewers" binding:"required"`
	IsActive     *bool  `json:"is_active"`
}

func validateGrantTypeRequest(req GrantTypeRequest) error {
	if req.MinMembers < 1 {
		return utils.NewValidationError("min_members", "min", "min_members must be at least 1")
	}
	if req.MaxMembers < req.MinMembers {
		return utils.NewValidationError("max_members", "ordering", "max_members must not be below min_members")
	}
	if req.MaxReviewers < 1 {
		return utils.NewValidationError("max_reviewers", "min", "max_reviewers must be at least 1")
	}
	return nil
}

// GetGrantTypes lists grant types. Students see active types only.
func GetGrantTypes(c *gin.Context) {
	roleID, _ := c.Get("roleID")

	var grantTypes []models.GrantType
	query := config.DB.Where("delete_at IS NULL")
	if roleID.(int) != models.RoleAdmin {
		query = query.Where("is_active = 1")
	}
	if err := query.Order("abbreviation ASC").Find(&grantTypes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch grant types"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"grant_types": grantTypes,
		"total":       len(grantTypes),
	})
}

// CreateGrantType creates a grant type (staff only).
func CreateGrantType(c *gin.Context) {
	var req GrantTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateGrantTypeRequest(req); err != nil {
		respondError(c, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	grantType := models.GrantType{
		Abbreviation: req.Abbreviation,
		GrantName:    req.GrantName,
		MinMembers:   req.MinMembers,
		MaxMembers:   req.MaxMembers,
		MaxReviewers: req.MaxReviewers,
		IsActive:     isActive,
		CreateAt:     time.Now(),
	}
	if err := config.DB.Create(&grantType).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create grant type"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"grant_type": grantType,
	})
}

// UpdateGrantType edits a grant type (staff only).
func UpdateGrantType(c *gin.Context) {
	grantTypeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid grant type ID"})
		return
	}

	var req GrantTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateGrantTypeRequest(req); err != nil {
		respondError(c, err)
		return
	}

	var grantType models.GrantType
	if err := config.DB.Where("grant_type_id = ? AND delete_at IS NULL", grantTypeID).First(&grantType).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Grant type not found"})
		return
	}

	now := time.Now()
	grantType.Abbreviation = req.Abbreviation
	grantType.GrantName = req.GrantName
	grantType.MinMembers = req.MinMembers
	grantType.MaxMembers = req.MaxMembers
	grantType.MaxReviewers = req.MaxReviewers
	if req.IsActive != nil {
		grantType.IsActive = *req.IsActive
	}
	grantType.UpdateAt = &now
	if err := config.DB.Save(&grantType).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update grant type"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"grant_type": grantType,
	})
}

// DeleteGrantType tombstones a grant type (staff only).
func DeleteGrantType(c *gin.Context) {
	grantTypeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid grant type ID"})
		return
	}

	res := config.DB.Exec(
		"UPDATE grant_types SET delete_at = NOW(), update_at = NOW() WHERE grant_type_id = ? AND delete_at IS NULL",
		grantTypeID,
	)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete grant type"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Grant type not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Grant type deleted",
	})
}
