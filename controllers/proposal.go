// controllers/proposal.go - Student-facing proposal lifecycle
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"pkm-management-api/config"
	"pkm-management-api/models"
	"pkm-management-api/services"

	"github.com/gin-gonic/gin"
)

// SubmitProposal creates a proposal for the calling student.
func SubmitProposal(c *gin.Context) {
	var in services.SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	leaderID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	proposal, err := newProposalService().Submit(leaderID.(int), roleID.(int), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"proposal": proposal,
	})
}

// GetMyProposals lists proposals the caller leads, optionally filtered by
// derived status.
func GetMyProposals(c *gin.Context) {
	leaderID, _ := c.Get("userID")

	proposals, err := newProposalService().List(services.ProposalFilter{
		LeaderID: leaderID.(int),
		Status:   c.Query("status"),
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

// GetProposal returns one proposal with its derived overall status and
// transition history. Students see only their own proposals.
func GetProposal(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	proposal, err := newProposalService().Get(proposalID)
	if err != nil {
		respondError(c, err)
		return
	}

	if roleID.(int) == models.RoleStudent && !studentOnProposal(proposal, userID.(int)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Proposal not found"})
		return
	}

	var history []models.ProposalStatusHistory
	config.DB.Where("proposal_id = ?", proposalID).Order("create_at ASC").Find(&history)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"proposal":       proposal,
		"overall_status": proposal.OverallStatus(),
		"history":        history,
	})
}

func studentOnProposal(p *models.Proposal, studentID int) bool {
	if p.LeaderID == studentID {
		return true
	}
	for _, m := range p.Members {
		if m.DeleteAt == nil && m.StudentID == studentID {
			return true
		}
	}
	return false
}

// ResubmitProposal returns a revised proposal to the pending state.
func ResubmitProposal(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	var in services.ResubmitInput
	if err := c.ShouldBindJSON(&in); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	leaderID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	if err := newProposalService().Resubmit(proposalID, leaderID.(int), roleID.(int), in); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Proposal resubmitted",
	})
}

// WithdrawProposal soft-deletes the caller's proposal and frees the advisor
// quota slot.
func WithdrawProposal(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	leaderID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	if err := newProposalService().Withdraw(proposalID, leaderID.(int), roleID.(int)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Proposal withdrawn",
	})
}

// CheckEligibility returns the full submission checklist for the caller.
func CheckEligibility(c *gin.Context) {
	studentID, _ := c.Get("userID")

	calendars := services.NewCalendarService(config.DB)
	verdict, err := services.NewEligibilityService(config.DB, calendars).Evaluate(studentID.(int), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"eligible":  verdict.Eligible,
		"checklist": verdict.Checklist,
		"reasons":   verdict.Checklist.FailedReasons(),
	})
}
