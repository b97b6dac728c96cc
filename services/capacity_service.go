package services

import (
	"errors"
	"fmt"
	"log"

	"pkm-management-api/models"
	"pkm-management-api/utils"

	"gorm.io/gorm"
)

// CapacityService tracks advisor quota consumption. Every mutation is a
// single compare-and-set UPDATE with the bound check in the WHERE clause, so
// concurrent submissions can never push used past quota or below zero.
type CapacityService struct {
	db *gorm.DB
}

func NewCapacityService(db *gorm.DB) *CapacityService {
	return &CapacityService{db: db}
}

// Get returns the advisor profile or a NotFoundError.
func (s *CapacityService) Get(advisorID int) (*models.AdvisorProfile, error) {
	var advisor models.AdvisorProfile
	err := s.db.Where("advisor_id = ? AND delete_at IS NULL", advisorID).First(&advisor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &utils.NotFoundError{Resource: "advisor", ID: advisorID}
		}
		return nil, err
	}
	return &advisor, nil
}

// Increment consumes one quota slot. Fails with CapacityError when the
// advisor is already at quota.
func (s *CapacityService) Increment(advisorID int) error {
	res := s.db.Exec(
		"UPDATE advisor_profiles SET used = used + 1, update_at = NOW() WHERE advisor_id = ? AND used < quota AND delete_at IS NULL",
		advisorID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		advisor, err := s.Get(advisorID)
		if err != nil {
			return err
		}
		return &utils.CapacityError{Resource: "advisor_quota", Limit: advisor.Quota, Requested: advisor.Used + 1}
	}
	return nil
}

// Decrement releases one quota slot. A slot count already at zero indicates
// an accounting bug upstream and is reported as a conflict.
func (s *CapacityService) Decrement(advisorID int) error {
	res := s.db.Exec(
		"UPDATE advisor_profiles SET used = used - 1, update_at = NOW() WHERE advisor_id = ? AND used > 0 AND delete_at IS NULL",
		advisorID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.Get(advisorID); err != nil {
			return err
		}
		return &utils.ConflictError{Resource: "advisor_quota", Message: "used count is already zero"}
	}
	return nil
}

// Reset zeroes the used counter. This is an administrative override for
// quota-policy changes, not a way to erase real assignments, so it is always
// audit-logged with the acting staff id.
func (s *CapacityService) Reset(advisorID, actorID int) error {
	res := s.db.Exec(
		"UPDATE advisor_profiles SET used = 0, update_at = NOW() WHERE advisor_id = ? AND delete_at IS NULL",
		advisorID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.Get(advisorID); err != nil {
			return err
		}
	}
	log.Printf("AUDIT: advisor %d quota usage reset by user %d", advisorID, actorID)
	return nil
}

// UpdateQuota changes the quota ceiling. The new quota may not undercut the
// slots already in use.
func (s *CapacityService) UpdateQuota(advisorID, newQuota int) error {
	if newQuota < 0 {
		return utils.NewValidationError("quota", "non_negative", "quota must not be negative")
	}
	res := s.db.Exec(
		"UPDATE advisor_profiles SET quota = ?, update_at = NOW() WHERE advisor_id = ? AND used <= ? AND delete_at IS NULL",
		newQuota, advisorID, newQuota,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		advisor, err := s.Get(advisorID)
		if err != nil {
			return err
		}
		return utils.NewValidationError("quota", "below_used",
			fmt.Sprintf("new quota %d is below the current used count %d", newQuota, advisor.Used))
	}
	return nil
}
