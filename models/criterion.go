package models

import "time"

// ScoringCriterion represents the scoring_criteria table (kriteria PKM).
// Each criterion belongs to exactly one grant type; weights across a type
// should total 100 before final scoring. Soft delete only — criteria may be
// referenced by historical scores.
type ScoringCriterion struct {
	CriterionID   int        `gorm:"primaryKey;column:criterion_id" json:"criterion_id"`
	GrantTypeID   int        `gorm:"column:grant_type_id" json:"grant_type_id"`
	OrderIndex    int        `gorm:"column:order_index" json:"order_index"`
	Title         string     `gorm:"column:title" json:"title"`
	Description   string     `gorm:"column:description" json:"description"`
	WeightPercent int        `gorm:"column:weight_percent" json:"weight_percent"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	GrantType *GrantType `gorm:"foreignKey:GrantTypeID" json:"grant_type,omitempty"`
}

func (ScoringCriterion) TableName() string {
	return "scoring_criteria"
}
