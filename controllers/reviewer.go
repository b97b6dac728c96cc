// controllers/reviewer.go - Reviewer assignment (staff) and scoring (reviewers)
package controllers

import (
	"net/http"
	"strconv"

	"pkm-management-api/config"
	"pkm-management-api/models"
	"pkm-management-api/services"

	"github.com/gin-gonic/gin"
)

type ReviewerAssignmentRequest struct {
	ReviewerIDs []int `json:"reviewer_ids" binding:"required"`
}

// SetProposalReviewers replaces the full reviewer set of a proposal.
func SetProposalReviewers(c *gin.Context) {
	assignReviewers(c, true)
}

// AddProposalReviewers unions new reviewers into the existing set.
func AddProposalReviewers(c *gin.Context) {
	assignReviewers(c, false)
}

func assignReviewers(c *gin.Context, replace bool) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	var req ReviewerAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	svc := newProposalService()
	if replace {
		err = svc.SetReviewers(proposalID, actorID.(int), roleID.(int), req.ReviewerIDs)
	} else {
		err = svc.AddReviewers(proposalID, actorID.(int), roleID.(int), req.ReviewerIDs)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	proposal, err := svc.Get(proposalID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"reviewers": proposal.ActiveReviewerIDs(),
		"total":     len(proposal.ActiveReviewerIDs()),
	})
}

// GetReviewerProposals lists proposals assigned to the calling reviewer.
func GetReviewerProposals(c *gin.Context) {
	reviewerID, _ := c.Get("userID")

	proposals, err := newProposalService().List(services.ProposalFilter{
		ReviewerID: reviewerID.(int),
		Status:     c.Query("status"),
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

func newScoringService() *services.ScoringService {
	calendars := services.NewCalendarService(config.DB)
	criteria := services.NewCriteriaService(config.DB)
	return services.NewScoringService(config.DB, criteria, calendars)
}

// SubmitScores records the calling reviewer's per-criterion scores.
func SubmitScores(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	var req struct {
		Scores []services.ScoreInput `json:"scores" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reviewerID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	if err := newScoringService().SubmitScores(proposalID, reviewerID.(int), roleID.(int), req.Scores); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Scores recorded",
	})
}

// GetProposalScores lists the recorded scores of a proposal.
func GetProposalScores(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	scores, err := newScoringService().ScoresFor(proposalID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"scores":  scores,
		"total":   len(scores),
	})
}

// FinalizeProposalScore computes and stores the weighted final score.
func FinalizeProposalScore(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	actorID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	final, err := newScoringService().Finalize(proposalID, actorID.(int), roleID.(int))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"final_score": final,
	})
}

// RequestProposalRevision routes a proposal back to the leader for edits.
// Callable by the assigned advisor, an assigned reviewer, or staff.
func RequestProposalRevision(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	if err := newProposalService().RequestRevision(proposalID, actorID.(int), roleID.(int), req.Note); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Revision requested",
	})
}

// GetReviewers lists users with the reviewer role for assignment pickers.
func GetReviewers(c *gin.Context) {
	var reviewers []models.User
	if err := config.DB.
		Where("role_id = ? AND delete_at IS NULL", models.RoleReviewer).
		Order("user_fname ASC").
		Find(&reviewers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviewers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"reviewers": reviewers,
		"total":     len(reviewers),
	})
}
