package services

import (
	"time"

	"pkm-management-api/models"
	"pkm-management-api/utils"

	"gorm.io/gorm"
)

// EligibilityService decides whether a student may submit a new proposal
// right now. It is query-only: no call here mutates anything.
type EligibilityService struct {
	db        *gorm.DB
	calendars *CalendarService
}

func NewEligibilityService(db *gorm.DB, calendars *CalendarService) *EligibilityService {
	return &EligibilityService{db: db, calendars: calendars}
}

// EligibilityVerdict bundles the verdict with its full checklist so callers
// can render every failing reason, not just the first one.
type EligibilityVerdict struct {
	Eligible  bool                       `json:"eligible"`
	Checklist utils.EligibilityChecklist `json:"checklist"`
	Window    *models.AcademicCalendar   `json:"window,omitempty"`
}

// BuildChecklist combines the raw facts into the checklist. Every reason is
// evaluated; nothing short-circuits.
func BuildChecklist(window *models.AcademicCalendar, now time.Time, leadsActive, memberOfActive bool) utils.EligibilityChecklist {
	checklist := utils.EligibilityChecklist{
		HasActiveWindow: window != nil,
		AlreadyLeader:   leadsActive,
		AlreadyMember:   memberOfActive,
	}
	if window != nil {
		checklist.IsSubmissionOpen = window.SubmissionOpenAt(now)
	}
	return checklist
}

// Evaluate produces the verdict for the given student at the given instant.
func (s *EligibilityService) Evaluate(studentID int, now time.Time) (*EligibilityVerdict, error) {
	window, err := s.calendars.Current()
	if err != nil {
		return nil, err
	}

	var leadsActive, memberOfActive bool
	if window != nil {
		leadsActive, err = s.leadsNonTerminal(studentID, window.CalendarID)
		if err != nil {
			return nil, err
		}
		memberOfActive, err = s.memberOfNonTerminal(studentID, window.CalendarID)
		if err != nil {
			return nil, err
		}
	}

	checklist := BuildChecklist(window, now, leadsActive, memberOfActive)
	return &EligibilityVerdict{
		Eligible:  checklist.Eligible(),
		Checklist: checklist,
		Window:    window,
	}, nil
}

// nonTerminalConds filters proposals still occupying the student's slot in
// the window: not withdrawn and not rejected on any track.
const nonTerminalConds = "calendar_id = ? AND delete_at IS NULL" +
	" AND status <> 'rejected' AND advisor_status <> 'rejected' AND admin_status <> 'rejected'"

func (s *EligibilityService) leadsNonTerminal(studentID, calendarID int) (bool, error) {
	var count int64
	err := s.db.Model(&models.Proposal{}).
		Where(nonTerminalConds, calendarID).
		Where("leader_id = ?", studentID).
		Count(&count).Error
	return count > 0, err
}

func (s *EligibilityService) memberOfNonTerminal(studentID, calendarID int) (bool, error) {
	var count int64
	err := s.db.Model(&models.ProposalMember{}).
		Joins("JOIN proposals ON proposals.proposal_id = proposal_members.proposal_id").
		Where("proposal_members.student_id = ? AND proposal_members.delete_at IS NULL", studentID).
		Where("proposals.calendar_id = ? AND proposals.delete_at IS NULL"+
			" AND proposals.status <> 'rejected' AND proposals.advisor_status <> 'rejected' AND proposals.admin_status <> 'rejected'", calendarID).
		Count(&count).Error
	return count > 0, err
}
