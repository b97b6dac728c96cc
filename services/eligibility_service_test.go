package services

import (
	"reflect"
	"testing"
	"time"

	"pkm-management-api/models"
)

func openWindow(now time.Time) *models.AcademicCalendar {
	return &models.AcademicCalendar{
		CalendarID:      1,
		Year:            now.Year(),
		IsActive:        true,
		SubmissionOpen:  now.AddDate(0, 0, -1),
		SubmissionClose: now.AddDate(0, 0, 7),
	}
}

func TestBuildChecklistAllClear(t *testing.T) {
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	checklist := BuildChecklist(openWindow(now), now, false, false)
	if !checklist.Eligible() {
		t.Fatalf("expected eligible, failed reasons: %v", checklist.FailedReasons())
	}
}

func TestBuildChecklistNoActiveWindow(t *testing.T) {
	now := time.Now()
	checklist := BuildChecklist(nil, now, false, false)
	if checklist.Eligible() {
		t.Fatal("expected not eligible without an active window")
	}
	want := []string{"no_active_window", "submission_closed"}
	if got := checklist.FailedReasons(); !reflect.DeepEqual(got, want) {
		t.Errorf("FailedReasons() = %v, want %v", got, want)
	}
}

func TestBuildChecklistSubmissionClosed(t *testing.T) {
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	window := openWindow(now)
	// Evaluate exactly at the close instant: half-open interval, so closed.
	checklist := BuildChecklist(window, window.SubmissionClose, false, false)
	if checklist.Eligible() {
		t.Fatal("expected not eligible at the close instant")
	}
	if !checklist.HasActiveWindow {
		t.Error("window existence should still be reported")
	}
	if checklist.IsSubmissionOpen {
		t.Error("submission should be closed at the close instant")
	}
}

func TestBuildChecklistAlreadyEnrolled(t *testing.T) {
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	window := openWindow(now)

	leader := BuildChecklist(window, now, true, false)
	if leader.Eligible() {
		t.Fatal("a leader of a live proposal must not be eligible again")
	}
	if got := leader.FailedReasons(); !reflect.DeepEqual(got, []string{"already_leader"}) {
		t.Errorf("FailedReasons() = %v, want [already_leader]", got)
	}

	member := BuildChecklist(window, now, false, true)
	if member.Eligible() {
		t.Fatal("a member of a live proposal must not be eligible as leader")
	}
	if got := member.FailedReasons(); !reflect.DeepEqual(got, []string{"already_member"}) {
		t.Errorf("FailedReasons() = %v, want [already_member]", got)
	}
}

func TestBuildChecklistCollectsEveryFailure(t *testing.T) {
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	window := openWindow(now)
	checklist := BuildChecklist(window, window.SubmissionClose.Add(time.Hour), true, true)
	want := []string{"submission_closed", "already_leader", "already_member"}
	if got := checklist.FailedReasons(); !reflect.DeepEqual(got, want) {
		t.Errorf("FailedReasons() = %v, want %v", got, want)
	}
}
