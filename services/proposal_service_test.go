package services

import (
	"errors"
	"reflect"
	"testing"

	"pkm-management-api/models"
	"pkm-management-api/utils"
)

func TestCanPerform(t *testing.T) {
	cases := []struct {
		roleID int
		action Action
		want   bool
	}{
		{models.RoleStudent, ActionSubmit, true},
		{models.RoleStudent, ActionResubmit, true},
		{models.RoleStudent, ActionWithdraw, true},
		{models.RoleStudent, ActionAdvisorDecide, false},
		{models.RoleStudent, ActionAdminDecide, false},
		{models.RoleAdvisor, ActionAdvisorDecide, true},
		{models.RoleAdvisor, ActionRequestRevision, true},
		{models.RoleAdvisor, ActionSubmit, false},
		{models.RoleAdvisor, ActionAssignReviewers, false},
		{models.RoleAdmin, ActionAssignReviewers, true},
		{models.RoleAdmin, ActionAdminDecide, true},
		{models.RoleAdmin, ActionAdvisorDecide, false},
		{models.RoleReviewer, ActionScore, true},
		{models.RoleReviewer, ActionRequestRevision, true},
		{models.RoleReviewer, ActionAdminDecide, false},
		{0, ActionSubmit, false},
		{99, ActionWithdraw, false},
	}

	for _, tc := range cases {
		if got := CanPerform(tc.roleID, tc.action); got != tc.want {
			t.Errorf("CanPerform(%d, %s) = %v, want %v", tc.roleID, tc.action, got, tc.want)
		}
	}
}

func TestValidateTeamSize(t *testing.T) {
	gt := &models.GrantType{MinMembers: 3, MaxMembers: 5}

	if err := validateTeamSize(gt, 3); err != nil {
		t.Fatalf("size 3 should pass, got %v", err)
	}
	if err := validateTeamSize(gt, 5); err != nil {
		t.Fatalf("size 5 should pass, got %v", err)
	}

	var capErr *utils.CapacityError
	err := validateTeamSize(gt, 6)
	if !errors.As(err, &capErr) {
		t.Fatalf("size 6 should fail with CapacityError, got %v", err)
	}
	if capErr.Limit != 5 || capErr.Requested != 6 {
		t.Errorf("CapacityError{Limit: %d, Requested: %d}, want {5, 6}", capErr.Limit, capErr.Requested)
	}

	var valErr *utils.ValidationError
	if err := validateTeamSize(gt, 2); !errors.As(err, &valErr) {
		t.Fatalf("size 2 should fail with ValidationError, got %v", err)
	}
}

func TestRequireJustification(t *testing.T) {
	if err := requireJustification("needs a stronger budget section"); err != nil {
		t.Fatalf("non-empty note should pass, got %v", err)
	}
	for _, note := range []string{"", "   ", "\t\n"} {
		var valErr *utils.ValidationError
		if err := requireJustification(note); !errors.As(err, &valErr) {
			t.Fatalf("note %q should fail with ValidationError, got %v", note, err)
		}
	}
}

func TestDistinctIDs(t *testing.T) {
	if !distinctIDs(nil) {
		t.Error("empty list should count as distinct")
	}
	if !distinctIDs([]int{4, 7, 2}) {
		t.Error("[4 7 2] should count as distinct")
	}
	if distinctIDs([]int{4, 7, 4}) {
		t.Error("[4 7 4] must be rejected")
	}
}

func TestMergeReviewerSets(t *testing.T) {
	cases := []struct {
		name     string
		existing []int
		incoming []int
		want     []int
	}{
		{"fresh assignment", nil, []int{10, 11}, []int{10, 11}},
		{"union keeps order", []int{10, 11}, []int{12}, []int{10, 11, 12}},
		{"repeats collapse", []int{10, 11}, []int{11, 12, 10}, []int{10, 11, 12}},
		{"idempotent reassign", []int{10, 11}, []int{10, 11}, []int{10, 11}},
		{"empty incoming", []int{10}, nil, []int{10}},
	}

	for _, tc := range cases {
		got := mergeReviewerSets(tc.existing, tc.incoming)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: mergeReviewerSets(%v, %v) = %v, want %v",
				tc.name, tc.existing, tc.incoming, got, tc.want)
		}
	}
}

func TestPlanReviewerChanges(t *testing.T) {
	cases := []struct {
		name       string
		existing   []int
		incoming   []int
		replace    bool
		max        int
		wantAdd    []int
		wantRemove []int
	}{
		{"fresh assignment", nil, []int{10, 11}, false, 3, []int{10, 11}, nil},
		{"union adds only the new id", []int{10, 11}, []int{11, 12}, false, 3, []int{12}, nil},
		{"idempotent reassign changes nothing", []int{10, 11}, []int{10, 11}, false, 3, nil, nil},
		{"replace removes the dropped id", []int{10, 11}, []int{11, 12}, true, 3, []int{12}, []int{10}},
		{"replace with same set changes nothing", []int{10, 11}, []int{10, 11}, true, 3, nil, nil},
	}

	for _, tc := range cases {
		toAdd, toRemove, err := planReviewerChanges(tc.existing, tc.incoming, tc.replace, tc.max)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !reflect.DeepEqual(toAdd, tc.wantAdd) {
			t.Errorf("%s: toAdd = %v, want %v", tc.name, toAdd, tc.wantAdd)
		}
		if !reflect.DeepEqual(toRemove, tc.wantRemove) {
			t.Errorf("%s: toRemove = %v, want %v", tc.name, toRemove, tc.wantRemove)
		}
	}
}

func TestPlanReviewerChangesRecountsGrownSet(t *testing.T) {
	// Two staff members each saw {10, 11} on a max_reviewers=3 type. The
	// first commit grew the set to {10, 11, 12}; the second request must be
	// re-planned against the grown set and fail the cap, not slip through on
	// its stale read.
	_, _, err := planReviewerChanges([]int{10, 11, 12}, []int{13}, false, 3)
	var capErr *utils.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityError against the grown set, got %v", err)
	}
	if capErr.Limit != 3 || capErr.Requested != 4 {
		t.Errorf("CapacityError{Limit: %d, Requested: %d}, want {3, 4}", capErr.Limit, capErr.Requested)
	}

	// Re-adding an already-assigned reviewer stays legal at the cap.
	toAdd, toRemove, err := planReviewerChanges([]int{10, 11, 12}, []int{12}, false, 3)
	if err != nil {
		t.Fatalf("idempotent add at the cap should pass, got %v", err)
	}
	if len(toAdd) != 0 || len(toRemove) != 0 {
		t.Errorf("idempotent add planned changes: toAdd=%v toRemove=%v", toAdd, toRemove)
	}
}

func TestQuotaSlotHeld(t *testing.T) {
	cases := []struct {
		name          string
		advisorStatus string
		releaseKnob   bool
		want          bool
	}{
		{"pending holds the slot", models.StatusPending, false, true},
		{"rejected holds the slot with the knob off", models.StatusRejected, false, true},
		{"rejected with the knob on was already released", models.StatusRejected, true, false},
		{"approved holds the slot with the knob on", models.StatusApproved, true, true},
	}

	for _, tc := range cases {
		p := &models.Proposal{AdvisorStatus: tc.advisorStatus}
		if got := quotaSlotHeld(p, tc.releaseKnob); got != tc.want {
			t.Errorf("%s: quotaSlotHeld() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMergeReviewerSetsAgainstCap(t *testing.T) {
	// Re-adding an assigned reviewer must not push the set past the cap.
	gt := models.GrantType{MaxReviewers: 2}
	existing := []int{10, 11}

	merged := mergeReviewerSets(existing, []int{11})
	if len(merged) > gt.MaxReviewers {
		t.Fatalf("idempotent add grew the set to %d, cap is %d", len(merged), gt.MaxReviewers)
	}

	merged = mergeReviewerSets(existing, []int{12})
	if len(merged) <= gt.MaxReviewers {
		t.Fatalf("a genuinely new reviewer should exceed the cap of %d, got %d", gt.MaxReviewers, len(merged))
	}
}
