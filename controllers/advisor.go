// controllers/advisor.go - Advisor quota administration and advisor decisions
package controllers

import (
	"net/http"
	"strconv"

	"pkm-management-api/config"
	"pkm-management-api/models"
	"pkm-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetAdvisors lists advisor profiles with their quota usage and whether each
// can still take a proposal, for the submission advisor picker.
func GetAdvisors(c *gin.Context) {
	var advisors []models.AdvisorProfile
	if err := config.DB.Preload("User").
		Where("delete_at IS NULL").
		Order("advisor_id ASC").
		Find(&advisors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch advisors"})
		return
	}

	type advisorView struct {
		models.AdvisorProfile
		HasFreeSlot bool `json:"has_free_slot"`
	}
	views := make([]advisorView, 0, len(advisors))
	for _, a := range advisors {
		views = append(views, advisorView{AdvisorProfile: a, HasFreeSlot: a.HasFreeSlot()})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"advisors": views,
		"total":    len(views),
	})
}

// UpdateAdvisorQuota changes the quota ceiling (staff only).
func UpdateAdvisorQuota(c *gin.Context) {
	advisorID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid advisor ID"})
		return
	}

	var req struct {
		Quota int `json:"quota"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.NewCapacityService(config.DB).UpdateQuota(advisorID, req.Quota); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Quota updated",
	})
}

// ResetAdvisorUsage zeroes the used counter. Administrative override, always
// audit-logged with the acting staff id.
func ResetAdvisorUsage(c *gin.Context) {
	advisorID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid advisor ID"})
		return
	}
	actorID, _ := c.Get("userID")

	if err := services.NewCapacityService(config.DB).Reset(advisorID, actorID.(int)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Advisor usage reset",
	})
}

type DecisionRequest struct {
	Note string `json:"note"`
}

// AdvisorApproveProposal records the assigned advisor's approval.
func AdvisorApproveProposal(c *gin.Context) {
	advisorDecide(c, true)
}

// AdvisorRejectProposal records the assigned advisor's rejection. The note
// is mandatory.
func AdvisorRejectProposal(c *gin.Context) {
	advisorDecide(c, false)
}

func advisorDecide(c *gin.Context, approve bool) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	svc := newProposalService()
	if err := svc.AdvisorDecide(proposalID, actorID.(int), roleID.(int), approve, req.Note); err != nil {
		respondError(c, err)
		return
	}

	message := "Proposal approved"
	if !approve {
		message = "Proposal rejected"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

// GetAdvisorProposals lists the proposals assigned to the calling advisor.
func GetAdvisorProposals(c *gin.Context) {
	actorID, _ := c.Get("userID")

	var advisor models.AdvisorProfile
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", actorID).First(&advisor).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Advisor profile not found"})
		return
	}

	proposals, err := newProposalService().List(services.ProposalFilter{
		AdvisorID: advisor.AdvisorID,
		Status:    c.Query("status"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"proposals": proposals,
		"total":     len(proposals),
	})
}
