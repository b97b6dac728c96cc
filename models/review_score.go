package models

import "time"

// ReviewerScore is one reviewer's score for one criterion of a proposal.
// Scores are 0-100 per criterion; the weighted aggregate feeds
// proposals.final_score.
type ReviewerScore struct {
	ScoreID     int        `gorm:"primaryKey;column:score_id" json:"score_id"`
	ProposalID  int        `gorm:"column:proposal_id" json:"proposal_id"`
	ReviewerID  int        `gorm:"column:reviewer_id" json:"reviewer_id"`
	CriterionID int        `gorm:"column:criterion_id" json:"criterion_id"`
	Score       float64    `gorm:"column:score" json:"score"`
	Comment     *string    `gorm:"column:comment" json:"comment,omitempty"`
	CreateAt    time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Reviewer  *User             `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Criterion *ScoringCriterion `gorm:"foreignKey:CriterionID" json:"criterion,omitempty"`
}

func (ReviewerScore) TableName() string {
	return "reviewer_scores"
}
