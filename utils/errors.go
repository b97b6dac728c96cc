// utils/errors.go - Typed errors returned by the workflow services
package utils

import "fmt"

// ValidationError reports malformed input: bad date order, weight out of
// range, missing required justification, and similar field-level failures.
type ValidationError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NewValidationError builds a ValidationError for the given field and rule.
func NewValidationError(field, rule, message string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule, Message: message}
}

// CapacityError reports an exceeded quota or size limit: advisor quota,
// team-member bounds, reviewer-per-proposal limits.
type CapacityError struct {
	Resource  string `json:"resource"`
	Limit     int    `json:"limit"`
	Requested int    `json:"requested"`
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s capacity exceeded: requested %d, limit %d", e.Resource, e.Requested, e.Limit)
}

// ConflictError reports an illegal re-transition of an already-decided state
// or an overwrite attempted without permission.
type ConflictError struct {
	Resource string `json:"resource"`
	Message  string `json:"message"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Resource, e.Message)
}

// NotFoundError reports an unknown id reference.
type NotFoundError struct {
	Resource string      `json:"resource"`
	ID       interface{} `json:"id"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

// EligibilityChecklist enumerates every submission precondition. All reasons
// are evaluated together so callers can render a complete checklist instead
// of the first failure.
type EligibilityChecklist struct {
	HasActiveWindow  bool `json:"has_active_window"`
	IsSubmissionOpen bool `json:"is_submission_open"`
	AlreadyLeader    bool `json:"already_leader"`
	AlreadyMember    bool `json:"already_member"`
}

// Eligible reports whether every precondition passes.
func (c EligibilityChecklist) Eligible() bool {
	return c.HasActiveWindow && c.IsSubmissionOpen && !c.AlreadyLeader && !c.AlreadyMember
}

// FailedReasons lists the names of the failing checks, submission-order.
func (c EligibilityChecklist) FailedReasons() []string {
	var reasons []string
	if !c.HasActiveWindow {
		reasons = append(reasons, "no_active_window")
	}
	if !c.IsSubmissionOpen {
		reasons = append(reasons, "submission_closed")
	}
	if c.AlreadyLeader {
		reasons = append(reasons, "already_leader")
	}
	if c.AlreadyMember {
		reasons = append(reasons, "already_member")
	}
	return reasons
}

// EligibilityError rejects a submission attempted outside the window or by an
// already-enrolled student. It carries the full checklist.
type EligibilityError struct {
	Checklist EligibilityChecklist `json:"checklist"`
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("student is not eligible to submit: %v", e.Checklist.FailedReasons())
}
