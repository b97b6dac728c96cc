package services

import (
	"errors"
	"strings"
	"time"

	"pkm-management-api/models"
	"pkm-management-api/utils"

	"gorm.io/gorm"
)

// CriteriaService owns the ordered scoring criteria of each grant type and
// the advisory weights-sum-to-100 rule. Criteria are never hard-deleted;
// historical scores may reference them.
type CriteriaService struct {
	db *gorm.DB
}

func NewCriteriaService(db *gorm.DB) *CriteriaService {
	return &CriteriaService{db: db}
}

type CriterionInput struct {
	GrantTypeID   int    `json:"grant_type_id" binding:"required"`
	OrderIndex    int    `json:"order_index"`
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	WeightPercent int    `json:"weight_percent"`
}

// LedgerSummary reports the weight state of one grant type's criteria.
// IsComplete gates final scoring; incomplete ledgers are surfaced, not
// hard-blocked at creation time.
type LedgerSummary struct {
	Criteria    []models.ScoringCriterion `json:"criteria"`
	TotalWeight int                       `json:"total_weight"`
	IsComplete  bool                      `json:"is_complete"`
}

// SummarizeWeights totals the weights of non-deleted criteria.
func SummarizeWeights(criteria []models.ScoringCriterion) (int, bool) {
	total := 0
	for _, c := range criteria {
		if c.DeleteAt == nil {
			total += c.WeightPercent
		}
	}
	return total, total == 100
}

// Add appends a criterion at the given order. Individual weights up to 100
// are accepted regardless of the running total; completeness is reported by
// the ledger, not enforced here.
func (s *CriteriaService) Add(in CriterionInput) (*models.ScoringCriterion, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, utils.NewValidationError("title", "required", "criterion title is required")
	}
	if in.WeightPercent < 0 || in.WeightPercent > 100 {
		return nil, utils.NewValidationError("weight_percent", "range", "weight must be between 0 and 100")
	}
	if err := s.grantTypeExists(in.GrantTypeID); err != nil {
		return nil, err
	}

	criterion := models.ScoringCriterion{
		GrantTypeID:   in.GrantTypeID,
		OrderIndex:    in.OrderIndex,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		WeightPercent: in.WeightPercent,
		CreateAt:      time.Now(),
	}
	if err := s.db.Create(&criterion).Error; err != nil {
		return nil, err
	}
	return &criterion, nil
}

// Ledger returns the ordered criteria of a grant type with the weight
// summary. includeDeleted exposes tombstoned rows for restore/audit.
func (s *CriteriaService) Ledger(grantTypeID int, includeDeleted bool) (*LedgerSummary, error) {
	if err := s.grantTypeExists(grantTypeID); err != nil {
		return nil, err
	}
	var criteria []models.ScoringCriterion
	query := s.db.Where("grant_type_id = ?", grantTypeID).Order("order_index ASC, criterion_id ASC")
	if !includeDeleted {
		query = query.Where("delete_at IS NULL")
	}
	if err := query.Find(&criteria).Error; err != nil {
		return nil, err
	}
	total, complete := SummarizeWeights(criteria)
	return &LedgerSummary{Criteria: criteria, TotalWeight: total, IsComplete: complete}, nil
}

type ReorderItem struct {
	CriterionID int `json:"criterion_id" binding:"required"`
	OrderIndex  int `json:"order_index"`
}

// ValidateReorderPlan rejects duplicate ids or duplicate target indices
// before anything touches the database.
func ValidateReorderPlan(items []ReorderItem) error {
	if len(items) == 0 {
		return utils.NewValidationError("items", "required", "reorder plan is empty")
	}
	seenID := make(map[int]bool, len(items))
	seenIndex := make(map[int]bool, len(items))
	for _, item := range items {
		if seenID[item.CriterionID] {
			return utils.NewValidationError("criterion_id", "distinct", "criterion listed twice in reorder plan")
		}
		if seenIndex[item.OrderIndex] {
			return utils.NewValidationError("order_index", "distinct", "duplicate target order index")
		}
		seenID[item.CriterionID] = true
		seenIndex[item.OrderIndex] = true
	}
	return nil
}

// Reorder re-assigns order indices as a single all-or-nothing set, so other
// readers never observe transient duplicate indices.
func (s *CriteriaService) Reorder(grantTypeID int, items []ReorderItem) error {
	if err := ValidateReorderPlan(items); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			res := tx.Exec(
				"UPDATE scoring_criteria SET order_index = ?, update_at = NOW() WHERE criterion_id = ? AND grant_type_id = ? AND delete_at IS NULL",
				item.OrderIndex, item.CriterionID, grantTypeID,
			)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &utils.NotFoundError{Resource: "criterion", ID: item.CriterionID}
			}
		}
		return nil
	})
}

// Duplicate copies all live criteria from one grant type to another. With
// overwrite the target's existing criteria are tombstoned first; without it
// a non-empty target is a conflict.
func (s *CriteriaService) Duplicate(sourceTypeID, targetTypeID int, overwrite bool) error {
	if sourceTypeID == targetTypeID {
		return utils.NewValidationError("target_type_id", "distinct", "source and target grant type must differ")
	}
	if err := s.grantTypeExists(sourceTypeID); err != nil {
		return err
	}
	if err := s.grantTypeExists(targetTypeID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var targetCount int64
		if err := tx.Model(&models.ScoringCriterion{}).
			Where("grant_type_id = ? AND delete_at IS NULL", targetTypeID).
			Count(&targetCount).Error; err != nil {
			return err
		}
		if targetCount > 0 {
			if !overwrite {
				return &utils.ConflictError{Resource: "criteria", Message: "target grant type already has criteria"}
			}
			if err := tx.Exec(
				"UPDATE scoring_criteria SET delete_at = NOW(), update_at = NOW() WHERE grant_type_id = ? AND delete_at IS NULL",
				targetTypeID,
			).Error; err != nil {
				return err
			}
		}

		var source []models.ScoringCriterion
		if err := tx.Where("grant_type_id = ? AND delete_at IS NULL", sourceTypeID).
			Order("order_index ASC").Find(&source).Error; err != nil {
			return err
		}
		for _, c := range source {
			copied := models.ScoringCriterion{
				GrantTypeID:   targetTypeID,
				OrderIndex:    c.OrderIndex,
				Title:         c.Title,
				Description:   c.Description,
				WeightPercent: c.WeightPercent,
				CreateAt:      time.Now(),
			}
			if err := tx.Create(&copied).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SoftDelete tombstones a criterion.
func (s *CriteriaService) SoftDelete(criterionID int) error {
	res := s.db.Exec(
		"UPDATE scoring_criteria SET delete_at = NOW(), update_at = NOW() WHERE criterion_id = ? AND delete_at IS NULL",
		criterionID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &utils.NotFoundError{Resource: "criterion", ID: criterionID}
	}
	return nil
}

// Restore clears a criterion's tombstone.
func (s *CriteriaService) Restore(criterionID int) error {
	res := s.db.Exec(
		"UPDATE scoring_criteria SET delete_at = NULL, update_at = NOW() WHERE criterion_id = ? AND delete_at IS NOT NULL",
		criterionID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &utils.NotFoundError{Resource: "criterion", ID: criterionID}
	}
	return nil
}

func (s *CriteriaService) grantTypeExists(grantTypeID int) error {
	var grantType models.GrantType
	err := s.db.Select("grant_type_id").
		Where("grant_type_id = ? AND delete_at IS NULL", grantTypeID).
		First(&grantType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &utils.NotFoundError{Resource: "grant_type", ID: grantTypeID}
		}
		return err
	}
	return nil
}
