package models

import (
	"testing"
	"time"
)

func TestDeriveOverallStatus(t *testing.T) {
	cases := []struct {
		name          string
		status        string
		advisorStatus string
		adminStatus   string
		want          string
	}{
		{"all pending", StatusPending, StatusPending, StatusPending, DisplayPending},
		{"advisor approved only", StatusPending, StatusApproved, StatusPending, DisplayAdvisorApproved},
		{"fully approved", StatusApproved, StatusApproved, StatusApproved, DisplayApproved},
		{"advisor rejected", StatusPending, StatusRejected, StatusPending, DisplayRejected},
		{"admin rejected", StatusRejected, StatusApproved, StatusRejected, DisplayRejected},
		{"rejection beats revision", StatusRevisionRequested, StatusRejected, StatusPending, DisplayRejected},
		{"revision requested", StatusRevisionRequested, StatusApproved, StatusPending, DisplayRevisionRequested},
		{"revision with both approvals", StatusRevisionRequested, StatusApproved, StatusApproved, DisplayRevisionRequested},
	}

	for _, tc := range cases {
		got := DeriveOverallStatus(tc.status, tc.advisorStatus, tc.adminStatus)
		if got != tc.want {
			t.Errorf("%s: DeriveOverallStatus(%s, %s, %s) = %s, want %s",
				tc.name, tc.status, tc.advisorStatus, tc.adminStatus, got, tc.want)
		}
	}
}

func TestProposalIsTerminal(t *testing.T) {
	pending := Proposal{Status: StatusPending, AdvisorStatus: StatusPending, AdminStatus: StatusPending}
	if pending.IsTerminal() {
		t.Error("pending proposal should not be terminal")
	}

	rejected := Proposal{Status: StatusPending, AdvisorStatus: StatusRejected, AdminStatus: StatusPending}
	if !rejected.IsTerminal() {
		t.Error("advisor-rejected proposal should be terminal")
	}

	now := time.Now()
	withdrawn := Proposal{Status: StatusPending, AdvisorStatus: StatusPending, AdminStatus: StatusPending, DeleteAt: &now}
	if !withdrawn.IsTerminal() {
		t.Error("withdrawn proposal should be terminal")
	}

	revision := Proposal{Status: StatusRevisionRequested, AdvisorStatus: StatusApproved, AdminStatus: StatusPending}
	if revision.IsTerminal() {
		t.Error("revision-requested proposal should not be terminal")
	}
}

func TestProposalTeamSizeSkipsRemovedMembers(t *testing.T) {
	now := time.Now()
	p := Proposal{
		Members: []ProposalMember{
			{StudentID: 2},
			{StudentID: 3},
			{StudentID: 4, DeleteAt: &now},
		},
	}
	if got := p.TeamSize(); got != 3 {
		t.Errorf("TeamSize() = %d, want 3 (leader + 2 live members)", got)
	}
}

func TestCalendarWindowBoundsAreHalfOpen(t *testing.T) {
	open := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	closed := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	cal := AcademicCalendar{SubmissionOpen: open, SubmissionClose: closed}

	if !cal.SubmissionOpenAt(open) {
		t.Error("submission_open instant itself should be inside the window")
	}
	if !cal.SubmissionOpenAt(open.AddDate(0, 0, 5)) {
		t.Error("mid-window instant should be inside the window")
	}
	if cal.SubmissionOpenAt(closed) {
		t.Error("submission_close instant should be outside the window")
	}
	if cal.SubmissionOpenAt(open.Add(-time.Second)) {
		t.Error("instant before submission_open should be outside the window")
	}
}

func TestGrantTypeTeamSizeAllowed(t *testing.T) {
	gt := GrantType{MinMembers: 2, MaxMembers: 5}
	for size, want := range map[int]bool{1: false, 2: true, 5: true, 6: false} {
		if got := gt.TeamSizeAllowed(size); got != want {
			t.Errorf("TeamSizeAllowed(%d) = %v, want %v", size, got, want)
		}
	}
}
