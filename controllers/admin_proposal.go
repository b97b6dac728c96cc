// controllers/admin_proposal.go - Staff-side proposal decisions and listing
package controllers

import (
	"net/http"
	"strconv"

	"pkm-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetAllProposals lists proposals across the program with filters.
func GetAllProposals(c *gin.Context) {
	filter := services.ProposalFilter{Status: c.Query("status")}
	if v, err := strconv.Atoi(c.Query("calendar_id")); err == nil {
		filter.CalendarID = v
	}
	if v, err := strconv.Atoi(c.Query("grant_type_id")); err == nil {
		filter.GrantTypeID = v
	}
	if v, err := strconv.Atoi(c.Query("advisor_id")); err == nil {
		filter.AdvisorID = v
	}

	proposals, err := newProposalService().List(filter)
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

// AdminApproveProposal records the staff approval.
func AdminApproveProposal(c *gin.Context) {
	adminDecide(c, true)
}

// AdminRejectProposal records the staff rejection. The note is mandatory.
func AdminRejectProposal(c *gin.Context) {
	adminDecide(c, false)
}

func adminDecide(c *gin.Context, approve bool) {
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

	warnings, err := newProposalService().AdminDecide(proposalID, actorID.(int), roleID.(int), approve, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Proposal approved"
	if !approve {
		message = "Proposal rejected"
	}
	resp := gin.H{
		"success": true,
		"message": message,
	}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	c.JSON(http.StatusOK, resp)
}
