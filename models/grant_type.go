package models

import "time"

// GrantType represents the grant_types table (jenis PKM). Each type carries
// its own team-size and reviewer-count limits.
type GrantType struct {
	GrantTypeID  int        `gorm:"primaryKey;column:grant_type_id" json:"grant_type_id"`
	Abbreviation string     `gorm:"column:abbreviation" json:"abbreviation"`
	GrantName    string     `gorm:"column:grant_name" json:"grant_name"`
	MinMembers   int        `gorm:"column:min_members" json:"min_members"`
	MaxMembers   int        `gorm:"column:max_members" json:"max_members"`
	MaxReviewers int        `gorm:"column:max_reviewers" json:"max_reviewers"`
	IsActive     bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (GrantType) TableName() string {
	return "grant_types"
}

// TeamSizeAllowed checks a full team size (leader included) against the
// type's member-count bounds.
func (g *GrantType) TeamSizeAllowed(size int) bool {
	return size >= g.MinMembers && size <= g.MaxMembers
}
