package models

import "time"

// Status values for the proposal state triple. The overall engine status
// additionally allows revision_requested; the advisor and admin tracks are
// limited to pending/approved/rejected.
const (
	StatusPending           = "pending"
	StatusApproved          = "approved"
	StatusRejected          = "rejected"
	StatusRevisionRequested = "revision_requested"
)

// Display statuses derived from the triple. Kept separate from the stored
// values so the mapping can change without touching state data.
const (
	DisplayPending           = "pending"
	DisplayAdvisorApproved   = "advisor_approved"
	DisplayApproved          = "approved"
	DisplayRejected          = "rejected"
	DisplayRevisionRequested = "revision_requested"
)

// Proposal represents the proposals table. Three independently mutable status
// fields combine into the externally visible state via OverallStatus.
type Proposal struct {
	ProposalID     int        `gorm:"primaryKey;column:proposal_id" json:"proposal_id"`
	ProposalNumber string     `gorm:"column:proposal_number;unique" json:"proposal_number"`
	Title          string     `gorm:"column:title" json:"title"`
	GrantTypeID    int        `gorm:"column:grant_type_id" json:"grant_type_id"`
	CalendarID     int        `gorm:"column:calendar_id" json:"calendar_id"`
	LeaderID       int        `gorm:"column:leader_id" json:"leader_id"`
	AdvisorID      int        `gorm:"column:advisor_id" json:"advisor_id"`
	Status         string     `gorm:"column:status" json:"status"`
	AdvisorStatus  string     `gorm:"column:advisor_status" json:"advisor_status"`
	AdminStatus    string     `gorm:"column:admin_status" json:"admin_status"`
	AdvisorNote    *string    `gorm:"column:advisor_note" json:"advisor_note,omitempty"`
	AdminNote      *string    `gorm:"column:admin_note" json:"admin_note,omitempty"`
	RevisionCount  int        `gorm:"column:revision_count" json:"revision_count"`
	FinalScore     *float64   `gorm:"column:final_score" json:"final_score,omitempty"`
	FileID         *int       `gorm:"column:file_id" json:"file_id,omitempty"`
	CreateAt       time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	GrantType *GrantType         `gorm:"foreignKey:GrantTypeID" json:"grant_type,omitempty"`
	Calendar  *AcademicCalendar  `gorm:"foreignKey:CalendarID" json:"calendar,omitempty"`
	Leader    *User              `gorm:"foreignKey:LeaderID" json:"leader,omitempty"`
	Advisor   *AdvisorProfile    `gorm:"foreignKey:AdvisorID" json:"advisor,omitempty"`
	Members   []ProposalMember   `gorm:"foreignKey:ProposalID" json:"members,omitempty"`
	Reviewers []ProposalReviewer `gorm:"foreignKey:ProposalID" json:"reviewers,omitempty"`
	File      *FileUpload        `gorm:"foreignKey:FileID" json:"file,omitempty"`
}

// ProposalMember links a non-leader student to a proposal.
type ProposalMember struct {
	MemberID   int        `gorm:"primaryKey;column:member_id" json:"member_id"`
	ProposalID int        `gorm:"column:proposal_id" json:"proposal_id"`
	StudentID  int        `gorm:"column:student_id" json:"student_id"`
	CreateAt   time.Time  `gorm:"column:create_at" json:"create_at"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Student *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

// ProposalReviewer links an assigned reviewer to a proposal.
type ProposalReviewer struct {
	AssignmentID int        `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	ProposalID   int        `gorm:"column:proposal_id" json:"proposal_id"`
	ReviewerID   int        `gorm:"column:reviewer_id" json:"reviewer_id"`
	AssignedBy   int        `gorm:"column:assigned_by" json:"assigned_by"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// ProposalStatusHistory is an audit row written on every transition.
type ProposalStatusHistory struct {
	HistoryID  int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	ProposalID int       `gorm:"column:proposal_id" json:"proposal_id"`
	ActorID    int       `gorm:"column:actor_id" json:"actor_id"`
	Field      string    `gorm:"column:field" json:"field"` // status|advisor_status|admin_status
	OldValue   string    `gorm:"column:old_value" json:"old_value"`
	NewValue   string    `gorm:"column:new_value" json:"new_value"`
	Note       *string   `gorm:"column:note" json:"note,omitempty"`
	CreateAt   time.Time `gorm:"column:create_at" json:"create_at"`
}

// TableName overrides
func (Proposal) TableName() string {
	return "proposals"
}

func (ProposalMember) TableName() string {
	return "proposal_members"
}

func (ProposalReviewer) TableName() string {
	return "proposal_reviewers"
}

func (ProposalStatusHistory) TableName() string {
	return "proposal_status_histories"
}

// DeriveOverallStatus maps the state triple to the externally visible status.
// Rejection on any track wins, then revision, then full approval, then the
// advisor-approved intermediate state.
func DeriveOverallStatus(status, advisorStatus, adminStatus string) string {
	if status == StatusRejected || advisorStatus == StatusRejected || adminStatus == StatusRejected {
		return DisplayRejected
	}
	if status == StatusRevisionRequested {
		return DisplayRevisionRequested
	}
	if advisorStatus == StatusApproved && adminStatus == StatusApproved {
		return DisplayApproved
	}
	if advisorStatus == StatusApproved {
		return DisplayAdvisorApproved
	}
	return DisplayPending
}

// OverallStatus derives the display status of this proposal.
func (p *Proposal) OverallStatus() string {
	return DeriveOverallStatus(p.Status, p.AdvisorStatus, p.AdminStatus)
}

// IsTerminal reports whether the proposal has left the active workflow.
// Terminal proposals do not block a student from a new submission.
func (p *Proposal) IsTerminal() bool {
	return p.DeleteAt != nil || p.OverallStatus() == DisplayRejected
}

// TeamSize counts the leader plus non-removed members.
func (p *Proposal) TeamSize() int {
	size := 1
	for _, m := range p.Members {
		if m.DeleteAt == nil {
			size++
		}
	}
	return size
}

// ActiveReviewerIDs lists the non-removed reviewer ids.
func (p *Proposal) ActiveReviewerIDs() []int {
	ids := make([]int, 0, len(p.Reviewers))
	for _, r := range p.Reviewers {
		if r.DeleteAt == nil {
			ids = append(ids, r.ReviewerID)
		}
	}
	return ids
}
