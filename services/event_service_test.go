package services

import (
	"strings"
	"testing"

	"pkm-management-api/models"
)

func TestDescribeEventNamesTheSubmitter(t *testing.T) {
	p := &models.Proposal{
		Title:  "Smart Hydroponics",
		Leader: &models.User{UserFname: "Dewi", UserLname: "Lestari"},
	}

	title, message, kind := describeEvent(DomainEvent{Type: EventProposalSubmitted}, p)
	if title != "Proposal submitted" || kind != "info" {
		t.Fatalf("describeEvent() = (%q, %q), want (Proposal submitted, info)", title, kind)
	}
	if !strings.Contains(message, "Dewi Lestari") {
		t.Errorf("message %q should name the leader", message)
	}

	// No loaded leader falls back to a generic phrase.
	_, message, _ = describeEvent(DomainEvent{Type: EventProposalSubmitted}, &models.Proposal{Title: "X"})
	if !strings.Contains(message, "the team leader") {
		t.Errorf("message %q should fall back when the leader is not loaded", message)
	}
}

func TestDescribeEventDecisionKinds(t *testing.T) {
	p := &models.Proposal{Title: "Smart Hydroponics"}
	cases := []struct {
		event    DomainEvent
		wantKind string
	}{
		{DomainEvent{Type: EventAdvisorDecided, Decision: models.StatusApproved}, "success"},
		{DomainEvent{Type: EventAdvisorDecided, Decision: models.StatusRejected}, "error"},
		{DomainEvent{Type: EventAdminDecided, Decision: models.StatusApproved}, "success"},
		{DomainEvent{Type: EventAdminDecided, Decision: models.StatusRejected}, "error"},
		{DomainEvent{Type: EventRevisionRequested}, "warning"},
		{DomainEvent{Type: EventReviewersAssigned}, "info"},
	}

	for _, tc := range cases {
		title, _, kind := describeEvent(tc.event, p)
		if title == "" {
			t.Fatalf("%s: expected a notification, got none", tc.event.Type)
		}
		if kind != tc.wantKind {
			t.Errorf("%s (%s): kind = %s, want %s", tc.event.Type, tc.event.Decision, kind, tc.wantKind)
		}
	}

	if title, _, _ := describeEvent(DomainEvent{Type: "unknown"}, p); title != "" {
		t.Errorf("unknown event type should produce no notification, got %q", title)
	}
}

func TestDispatcherRunsHandlersInSubscriptionOrder(t *testing.T) {
	d := NewEventDispatcher()
	var order []string
	d.Subscribe(func(DomainEvent) { order = append(order, "first") })
	d.Subscribe(func(DomainEvent) { order = append(order, "second") })

	d.Publish(DomainEvent{Type: EventProposalSubmitted, ProposalID: 1})

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("handlers ran as %v, want [first second]", order)
	}
}

func TestPublishStampsOccurredAt(t *testing.T) {
	d := NewEventDispatcher()
	var got DomainEvent
	d.Subscribe(func(e DomainEvent) { got = e })

	d.Publish(DomainEvent{Type: EventAdminDecided, ProposalID: 2})
	if got.OccurredAt.IsZero() {
		t.Fatal("Publish should stamp OccurredAt when unset")
	}
}
