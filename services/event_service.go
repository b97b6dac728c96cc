package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"pkm-management-api/config"
	"pkm-management-api/models"

	"gorm.io/gorm"
)

// Domain event types emitted by the proposal lifecycle. The workflow's
// responsibility ends at publishing; notification and mail delivery are
// subscriber concerns.
const (
	EventProposalSubmitted = "ProposalSubmitted"
	EventAdvisorDecided    = "AdvisorDecided"
	EventReviewersAssigned = "ReviewersAssigned"
	EventAdminDecided      = "AdminDecided"
	EventRevisionRequested = "RevisionRequested"
)

// DomainEvent carries proposal id, actor and decision of one transition.
type DomainEvent struct {
	Type       string    `json:"type"`
	ProposalID int       `json:"proposal_id"`
	ActorID    int       `json:"actor_id"`
	Decision   string    `json:"decision,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventHandler func(DomainEvent)

// Dispatcher is the process-wide event bus. Subscribers are attached once at
// startup; controllers hand it to the services they build per request.
var Dispatcher = NewEventDispatcher()

// EventDispatcher fans events out to in-process subscribers. Handlers run
// synchronously in subscription order; a handler must not block on slow I/O.
type EventDispatcher struct {
	mu       sync.RWMutex
	handlers []EventHandler
}

func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{}
}

func (d *EventDispatcher) Subscribe(h EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

func (d *EventDispatcher) Publish(e DomainEvent) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	d.mu.RLock()
	handlers := make([]EventHandler, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()
	for _, h := range handlers {
		h(e)
	}
}

// NotificationSubscriber turns domain events into inbox rows for the
// affected users and, when SMTP is configured, decision emails to the
// proposal leader.
type NotificationSubscriber struct {
	db        *gorm.DB
	sendEmail bool
}

func NewNotificationSubscriber(db *gorm.DB, sendEmail bool) *NotificationSubscriber {
	return &NotificationSubscriber{db: db, sendEmail: sendEmail}
}

func (n *NotificationSubscriber) Handle(e DomainEvent) {
	var proposal models.Proposal
	err := n.db.Preload("Leader").Preload("Advisor.User").
		Where("proposal_id = ?", e.ProposalID).First(&proposal).Error
	if err != nil {
		log.Printf("notification subscriber: load proposal %d: %v", e.ProposalID, err)
		return
	}

	title, message, kind := describeEvent(e, &proposal)
	if title == "" {
		return
	}

	recipients := n.recipients(e, &proposal)
	proposalID := uint(proposal.ProposalID)
	for _, userID := range recipients {
		notif := models.Notification{
			UserID:            uint(userID),
			Title:             title,
			Message:           message,
			Type:              kind,
			RelatedProposalID: &proposalID,
			CreateAt:          time.Now(),
		}
		if err := n.db.Create(&notif).Error; err != nil {
			log.Printf("notification subscriber: create for user %d: %v", userID, err)
		}
	}

	if n.sendEmail && proposal.Leader != nil && proposal.Leader.Email != "" {
		html := fmt.Sprintf("<p>%s</p><p>Proposal: %s (%s)</p>", message, proposal.Title, proposal.ProposalNumber)
		if err := config.SendMail([]string{proposal.Leader.Email}, title, html); err != nil {
			log.Printf("notification subscriber: mail to %s: %v", proposal.Leader.Email, err)
		}
	}
}

func (n *NotificationSubscriber) recipients(e DomainEvent, p *models.Proposal) []int {
	switch e.Type {
	case EventProposalSubmitted:
		// Advisor hears about new assignments; leader gets a receipt.
		ids := []int{p.LeaderID}
		if p.Advisor != nil {
			ids = append(ids, p.Advisor.UserID)
		}
		return ids
	case EventReviewersAssigned:
		var ids []int
		var reviewers []models.ProposalReviewer
		if err := n.db.Where("proposal_id = ? AND delete_at IS NULL", p.ProposalID).Find(&reviewers).Error; err == nil {
			for _, r := range reviewers {
				ids = append(ids, r.ReviewerID)
			}
		}
		return ids
	default:
		return []int{p.LeaderID}
	}
}

func describeEvent(e DomainEvent, p *models.Proposal) (title, message, kind string) {
	switch e.Type {
	case EventProposalSubmitted:
		submitter := "the team leader"
		if p.Leader != nil {
			submitter = p.Leader.FullName()
		}
		return "Proposal submitted", fmt.Sprintf("Proposal %q was submitted by %s.", p.Title, submitter), "info"
	case EventAdvisorDecided:
		if e.Decision == models.StatusApproved {
			return "Advisor approved", fmt.Sprintf("Your advisor approved proposal %q.", p.Title), "success"
		}
		return "Advisor rejected", fmt.Sprintf("Your advisor rejected proposal %q.", p.Title), "error"
	case EventReviewersAssigned:
		return "Review assignment", fmt.Sprintf("You have been assigned to review proposal %q.", p.Title), "info"
	case EventAdminDecided:
		if e.Decision == models.StatusApproved {
			return "Proposal approved", fmt.Sprintf("Proposal %q was approved by the program staff.", p.Title), "success"
		}
		return "Proposal rejected", fmt.Sprintf("Proposal %q was rejected by the program staff.", p.Title), "error"
	case EventRevisionRequested:
		return "Revision requested", fmt.Sprintf("Proposal %q needs revision before it can proceed.", p.Title), "warning"
	}
	return "", "", ""
}
