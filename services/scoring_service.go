package services

import (
	"fmt"
	"time"

	"pkm-management-api/models"
	"pkm-management-api/utils"

	"gorm.io/gorm"
)

// ScoringService records reviewer scores against the grant type's criteria
// and computes the weighted final score.
type ScoringService struct {
	db        *gorm.DB
	criteria  *CriteriaService
	calendars *CalendarService
}

func NewScoringService(db *gorm.DB, criteria *CriteriaService, calendars *CalendarService) *ScoringService {
	return &ScoringService{db: db, criteria: criteria, calendars: calendars}
}

type ScoreInput struct {
	CriterionID int     `json:"criterion_id" binding:"required"`
	Score       float64 `json:"score"`
	Comment     *string `json:"comment"`
}

// SubmitScores upserts one reviewer's scores for a proposal. Scoring is only
// legal for an assigned reviewer, on an admin-approved proposal, during the
// review window.
func (s *ScoringService) SubmitScores(proposalID, reviewerID, roleID int, scores []ScoreInput) error {
	if err := checkRole(roleID, ActionScore); err != nil {
		return err
	}
	if len(scores) == 0 {
		return utils.NewValidationError("scores", "required", "at least one score is required")
	}
	seen := make(map[int]bool, len(scores))
	for _, in := range scores {
		if in.Score < 0 || in.Score > 100 {
			return utils.NewValidationError("score", "range", "scores must be between 0 and 100")
		}
		if seen[in.CriterionID] {
			return utils.NewValidationError("criterion_id", "distinct", "criterion scored twice in one request")
		}
		seen[in.CriterionID] = true
	}

	var proposal models.Proposal
	err := s.db.Preload("Reviewers", "delete_at IS NULL").
		Where("proposal_id = ? AND delete_at IS NULL", proposalID).
		First(&proposal).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &utils.NotFoundError{Resource: "proposal", ID: proposalID}
		}
		return err
	}
	if !containsInt(proposal.ActiveReviewerIDs(), reviewerID) {
		return utils.NewValidationError("reviewer", "not_assigned", "only an assigned reviewer may score this proposal")
	}
	if proposal.AdminStatus != models.StatusApproved {
		return &utils.ConflictError{Resource: "admin_status", Message: "only admin-approved proposals can be scored"}
	}

	window, err := s.calendars.Current()
	if err != nil {
		return err
	}
	if window == nil || !window.ReviewOpenAt(time.Now()) {
		return utils.NewValidationError("window", "review_closed", "the review window is not open")
	}

	ledger, err := s.criteria.Ledger(proposal.GrantTypeID, false)
	if err != nil {
		return err
	}
	valid := make(map[int]bool, len(ledger.Criteria))
	for _, c := range ledger.Criteria {
		valid[c.CriterionID] = true
	}
	for _, in := range scores {
		if !valid[in.CriterionID] {
			return utils.NewValidationError("criterion_id", "belongs_to_type",
				fmt.Sprintf("criterion %d does not belong to this grant type", in.CriterionID))
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, in := range scores {
			res := tx.Model(&models.ReviewerScore{}).
				Where("proposal_id = ? AND reviewer_id = ? AND criterion_id = ? AND delete_at IS NULL",
					proposalID, reviewerID, in.CriterionID).
				Updates(map[string]interface{}{
					"score":     in.Score,
					"comment":   in.Comment,
					"update_at": time.Now(),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				row := models.ReviewerScore{
					ProposalID:  proposalID,
					ReviewerID:  reviewerID,
					CriterionID: in.CriterionID,
					Score:       in.Score,
					Comment:     in.Comment,
					CreateAt:    time.Now(),
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// ComputeWeightedScore averages each criterion's scores across reviewers and
// combines them by weight_percent. Every live criterion must have at least
// one score.
func ComputeWeightedScore(criteria []models.ScoringCriterion, scores []models.ReviewerScore) (float64, error) {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, sc := range scores {
		if sc.DeleteAt != nil {
			continue
		}
		sums[sc.CriterionID] += sc.Score
		counts[sc.CriterionID]++
	}

	var final float64
	for _, c := range criteria {
		if c.DeleteAt != nil {
			continue
		}
		n := counts[c.CriterionID]
		if n == 0 {
			return 0, utils.NewValidationError("scores", "incomplete",
				fmt.Sprintf("criterion %q has no scores yet", c.Title))
		}
		avg := sums[c.CriterionID] / float64(n)
		final += avg * float64(c.WeightPercent) / 100.0
	}
	return final, nil
}

// Finalize computes and stores the proposal's final score. The grant type's
// ledger must be complete (weights totalling 100) before a final score is
// meaningful.
func (s *ScoringService) Finalize(proposalID, actorID, roleID int) (float64, error) {
	if roleID != models.RoleAdmin {
		return 0, utils.NewValidationError("role", "allowed_transition", "only staff may finalize scores")
	}

	var proposal models.Proposal
	err := s.db.Where("proposal_id = ? AND delete_at IS NULL", proposalID).First(&proposal).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, &utils.NotFoundError{Resource: "proposal", ID: proposalID}
		}
		return 0, err
	}

	ledger, err := s.criteria.Ledger(proposal.GrantTypeID, false)
	if err != nil {
		return 0, err
	}
	if !ledger.IsComplete {
		return 0, &utils.ConflictError{Resource: "criteria_ledger",
			Message: fmt.Sprintf("criteria weights total %d, not 100", ledger.TotalWeight)}
	}

	var scores []models.ReviewerScore
	if err := s.db.Where("proposal_id = ? AND delete_at IS NULL", proposalID).Find(&scores).Error; err != nil {
		return 0, err
	}

	final, err := ComputeWeightedScore(ledger.Criteria, scores)
	if err != nil {
		return 0, err
	}

	err = s.db.Model(&models.Proposal{}).
		Where("proposal_id = ? AND delete_at IS NULL", proposalID).
		Updates(map[string]interface{}{
			"final_score": final,
			"update_at":   time.Now(),
		}).Error
	if err != nil {
		return 0, err
	}
	return final, nil
}

// ScoresFor lists one proposal's scores, newest first.
func (s *ScoringService) ScoresFor(proposalID int) ([]models.ReviewerScore, error) {
	var scores []models.ReviewerScore
	err := s.db.Preload("Reviewer").Preload("Criterion").
		Where("proposal_id = ? AND delete_at IS NULL", proposalID).
		Order("create_at DESC").
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}
