package models

import "time"

// AcademicCalendar represents the academic_calendars table. Each row is one
// yearly window with five ordered boundaries; at most one row is active
// system-wide at any time.
type AcademicCalendar struct {
	CalendarID      int        `gorm:"primaryKey;column:calendar_id" json:"calendar_id"`
	Year            int        `gorm:"column:year" json:"year"`
	IsActive        bool       `gorm:"column:is_active" json:"is_active"`
	SubmissionOpen  time.Time  `gorm:"column:submission_open" json:"submission_open"`
	SubmissionClose time.Time  `gorm:"column:submission_close" json:"submission_close"`
	ReviewOpen      time.Time  `gorm:"column:review_open" json:"review_open"`
	ReviewClose     time.Time  `gorm:"column:review_close" json:"review_close"`
	Announcement    time.Time  `gorm:"column:announcement" json:"announcement"`
	CreateAt        time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (AcademicCalendar) TableName() string {
	return "academic_calendars"
}

// SubmissionOpenAt reports whether now falls inside the half-open submission
// interval [submission_open, submission_close).
func (c *AcademicCalendar) SubmissionOpenAt(now time.Time) bool {
	return !now.Before(c.SubmissionOpen) && now.Before(c.SubmissionClose)
}

// ReviewOpenAt reports whether now falls inside [review_open, review_close).
func (c *AcademicCalendar) ReviewOpenAt(now time.Time) bool {
	return !now.Before(c.ReviewOpen) && now.Before(c.ReviewClose)
}
