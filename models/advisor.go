package models

import "time"

// AdvisorProfile represents the advisor_profiles table (dosen pembimbing).
// Used counts current assignments; 0 <= used <= quota must hold at all times.
// The slot reflects assignment, not outcome: a rejected proposal keeps its
// slot until withdrawn.
type AdvisorProfile struct {
	AdvisorID int        `gorm:"primaryKey;column:advisor_id" json:"advisor_id"`
	UserID    int        `gorm:"column:user_id" json:"user_id"`
	Quota     int        `gorm:"column:quota" json:"quota"`
	Used      int        `gorm:"column:used" json:"used"`
	CreateAt  time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AdvisorProfile) TableName() string {
	return "advisor_profiles"
}

// HasFreeSlot reports whether the advisor can take one more proposal.
func (a *AdvisorProfile) HasFreeSlot() bool {
	return a.Used < a.Quota
}
