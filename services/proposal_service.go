package services

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"pkm-management-api/models"
	"pkm-management-api/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Action names one transition of the proposal lifecycle.
type Action string

const (
	ActionSubmit          Action = "submit"
	ActionAdvisorDecide   Action = "advisor_decide"
	ActionAssignReviewers Action = "assign_reviewers"
	ActionAdminDecide     Action = "admin_decide"
	ActionRequestRevision Action = "request_revision"
	ActionResubmit        Action = "resubmit"
	ActionWithdraw        Action = "withdraw"
	ActionScore           Action = "score"
)

// allowedTransitions is the capability table gating which role may call which
// transition. Kept as data rather than per-role types so it stays trivial to
// audit and test.
var allowedTransitions = map[int]map[Action]bool{
	models.RoleStudent: {
		ActionSubmit:   true,
		ActionResubmit: true,
		ActionWithdraw: true,
	},
	models.RoleAdvisor: {
		ActionAdvisorDecide:   true,
		ActionRequestRevision: true,
	},
	models.RoleAdmin: {
		ActionAssignReviewers: true,
		ActionAdminDecide:     true,
		ActionRequestRevision: true,
	},
	models.RoleReviewer: {
		ActionScore:           true,
		ActionRequestRevision: true,
	},
}

// CanPerform reports whether the role may call the transition.
func CanPerform(roleID int, action Action) bool {
	return allowedTransitions[roleID][action]
}

func checkRole(roleID int, action Action) error {
	if !CanPerform(roleID, action) {
		return utils.NewValidationError("role", "allowed_transition",
			fmt.Sprintf("role %d may not perform %s", roleID, action))
	}
	return nil
}

// ProposalService is the lifecycle engine. State is the triple
// (status, advisor_status, admin_status); every transition validates its
// preconditions, writes an audit row and publishes a domain event.
type ProposalService struct {
	db          *gorm.DB
	eligibility *EligibilityService
	events      *EventDispatcher

	// releaseQuotaOnReject frees the advisor slot when the advisor rejects.
	// The observed product behavior keeps the slot; the knob makes that an
	// explicit decision instead of an accident.
	releaseQuotaOnReject bool
}

func NewProposalService(db *gorm.DB, eligibility *EligibilityService, events *EventDispatcher) *ProposalService {
	return &ProposalService{
		db:                   db,
		eligibility:          eligibility,
		events:               events,
		releaseQuotaOnReject: os.Getenv("RELEASE_QUOTA_ON_REJECT") == "1",
	}
}

type SubmitInput struct {
	Title       string `json:"title" binding:"required"`
	GrantTypeID int    `json:"grant_type_id" binding:"required"`
	AdvisorID   int    `json:"advisor_id" binding:"required"`
	MemberIDs   []int  `json:"member_ids"`
	FileID      *int   `json:"file_id"`
}

// validateTeamSize checks leader+members against the grant type bounds.
// Oversized teams are a capacity failure; undersized ones a validation one.
func validateTeamSize(grantType *models.GrantType, teamSize int) error {
	if teamSize > grantType.MaxMembers {
		return &utils.CapacityError{Resource: "team_members", Limit: grantType.MaxMembers, Requested: teamSize}
	}
	if teamSize < grantType.MinMembers {
		return utils.NewValidationError("member_ids", "min_members",
			fmt.Sprintf("team of %d is below the minimum of %d for this grant type", teamSize, grantType.MinMembers))
	}
	return nil
}

// quotaSlotHeld reports whether the proposal still occupies its advisor's
// quota slot. A slot freed by the reject-release policy must not be freed
// again on withdrawal.
func quotaSlotHeld(p *models.Proposal, releaseQuotaOnReject bool) bool {
	return !(releaseQuotaOnReject && p.AdvisorStatus == models.StatusRejected)
}

// requireJustification enforces the non-empty note rule on rejections and
// revision requests.
func requireJustification(note string) error {
	if strings.TrimSpace(note) == "" {
		return utils.NewValidationError("note", "required", "a justification note is required")
	}
	return nil
}

// distinctIDs reports whether the list is free of repeats.
func distinctIDs(ids []int) bool {
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}

// planReviewerChanges computes the row changes that turn the existing
// reviewer set into the requested one. The cap check runs here, against the
// set the caller read under the proposal row lock, so a set grown by a
// concurrent assignment is re-counted rather than trusted from an earlier
// read.
func planReviewerChanges(existing, incoming []int, replace bool, maxReviewers int) (toAdd, toRemove []int, err error) {
	var final []int
	if replace {
		final = mergeReviewerSets(nil, incoming)
	} else {
		final = mergeReviewerSets(existing, incoming)
	}
	if len(final) > maxReviewers {
		return nil, nil, &utils.CapacityError{Resource: "reviewers", Limit: maxReviewers, Requested: len(final)}
	}

	keep := make(map[int]bool, len(final))
	for _, id := range final {
		keep[id] = true
	}
	if replace {
		for _, id := range existing {
			if !keep[id] {
				toRemove = append(toRemove, id)
			}
		}
	}
	have := make(map[int]bool, len(existing))
	for _, id := range existing {
		have[id] = true
	}
	for _, id := range final {
		if !have[id] {
			toAdd = append(toAdd, id)
		}
	}
	return toAdd, toRemove, nil
}

// mergeReviewerSets unions incoming ids into the existing set, preserving
// first-seen order. Repeats collapse, which makes assignment idempotent.
func mergeReviewerSets(existing, incoming []int) []int {
	merged := make([]int, 0, len(existing)+len(incoming))
	seen := make(map[int]bool, len(existing)+len(incoming))
	for _, id := range existing {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}
	for _, id := range incoming {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}
	return merged
}

// Submit creates a proposal for an eligible leader. The advisor quota
// increment and the proposal insert share one transaction, so a full advisor
// leaves no partial proposal behind.
func (s *ProposalService) Submit(leaderID, roleID int, in SubmitInput) (*models.Proposal, error) {
	if err := checkRole(roleID, ActionSubmit); err != nil {
		return nil, err
	}

	verdict, err := s.eligibility.Evaluate(leaderID, time.Now())
	if err != nil {
		return nil, err
	}
	if !verdict.Eligible {
		return nil, &utils.EligibilityError{Checklist: verdict.Checklist}
	}

	in.Title = utils.SanitizeInput(in.Title)
	if in.Title == "" {
		return nil, utils.NewValidationError("title", "required", "proposal title is required")
	}
	if !distinctIDs(in.MemberIDs) {
		return nil, utils.NewValidationError("member_ids", "distinct", "member ids must be distinct")
	}
	for _, id := range in.MemberIDs {
		if id == leaderID {
			return nil, utils.NewValidationError("member_ids", "excludes_leader", "the leader must not appear in the member list")
		}
	}

	grantType, err := s.getGrantType(in.GrantTypeID)
	if err != nil {
		return nil, err
	}
	if !grantType.IsActive {
		return nil, utils.NewValidationError("grant_type_id", "inactive", "grant type is not open for submissions")
	}
	if err := validateTeamSize(grantType, len(in.MemberIDs)+1); err != nil {
		return nil, err
	}
	if err := s.checkMembersAreStudents(in.MemberIDs); err != nil {
		return nil, err
	}

	var proposal models.Proposal
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := NewCapacityService(tx).Increment(in.AdvisorID); err != nil {
			return err
		}

		proposal = models.Proposal{
			ProposalNumber: fmt.Sprintf("PKM-%d-%s", verdict.Window.Year, strings.ToUpper(uuid.NewString()[:8])),
			Title:          in.Title,
			GrantTypeID:    in.GrantTypeID,
			CalendarID:     verdict.Window.CalendarID,
			LeaderID:       leaderID,
			AdvisorID:      in.AdvisorID,
			Status:         models.StatusPending,
			AdvisorStatus:  models.StatusPending,
			AdminStatus:    models.StatusPending,
			FileID:         in.FileID,
			CreateAt:       time.Now(),
		}
		if err := tx.Create(&proposal).Error; err != nil {
			return err
		}

		for _, memberID := range in.MemberIDs {
			member := models.ProposalMember{
				ProposalID: proposal.ProposalID,
				StudentID:  memberID,
				CreateAt:   time.Now(),
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}

		return writeHistory(tx, proposal.ProposalID, leaderID, "status", "", models.StatusPending, nil)
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(DomainEvent{Type: EventProposalSubmitted, ProposalID: proposal.ProposalID, ActorID: leaderID})
	return &proposal, nil
}

// AdvisorDecide records the assigned advisor's approve/reject. Rejection
// needs a note and, by default, keeps the quota slot occupied.
func (s *ProposalService) AdvisorDecide(proposalID, actorID, roleID int, approve bool, note string) error {
	if err := checkRole(roleID, ActionAdvisorDecide); err != nil {
		return err
	}
	note = utils.SanitizeInput(note)

	proposal, err := s.Get(proposalID)
	if err != nil {
		return err
	}
	advisor, err := NewCapacityService(s.db).Get(proposal.AdvisorID)
	if err != nil {
		return err
	}
	if advisor.UserID != actorID {
		return utils.NewValidationError("advisor", "not_assigned", "only the assigned advisor may decide this proposal")
	}
	if proposal.AdvisorStatus != models.StatusPending {
		return &utils.ConflictError{Resource: "advisor_status",
			Message: "proposal is already " + proposal.AdvisorStatus}
	}

	decision := models.StatusApproved
	if !approve {
		if err := requireJustification(note); err != nil {
			return err
		}
		decision = models.StatusRejected
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"advisor_status": decision,
			"update_at":      time.Now(),
		}
		if strings.TrimSpace(note) != "" {
			updates["advisor_note"] = strings.TrimSpace(note)
		}
		res := tx.Model(&models.Proposal{}).
			Where("proposal_id = ? AND advisor_status = ? AND delete_at IS NULL", proposalID, models.StatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &utils.ConflictError{Resource: "advisor_status", Message: "proposal was decided concurrently"}
		}

		if decision == models.StatusRejected && s.releaseQuotaOnReject {
			if err := NewCapacityService(tx).Decrement(proposal.AdvisorID); err != nil {
				return err
			}
		}

		return writeHistory(tx, proposalID, actorID, "advisor_status", models.StatusPending, decision, notePtr(note))
	})
	if err != nil {
		return err
	}

	s.events.Publish(DomainEvent{Type: EventAdvisorDecided, ProposalID: proposalID, ActorID: actorID, Decision: decision})
	return nil
}

// SetReviewers replaces the full reviewer set of a proposal.
func (s *ProposalService) SetReviewers(proposalID, actorID, roleID int, reviewerIDs []int) error {
	return s.assignReviewers(proposalID, actorID, roleID, reviewerIDs, true)
}

// AddReviewers unions the given ids into the existing reviewer set.
func (s *ProposalService) AddReviewers(proposalID, actorID, roleID int, reviewerIDs []int) error {
	return s.assignReviewers(proposalID, actorID, roleID, reviewerIDs, false)
}

func (s *ProposalService) assignReviewers(proposalID, actorID, roleID int, reviewerIDs []int, replace bool) error {
	if err := checkRole(roleID, ActionAssignReviewers); err != nil {
		return err
	}
	if !distinctIDs(reviewerIDs) {
		return utils.NewValidationError("reviewer_ids", "distinct", "reviewer ids must be distinct")
	}

	proposal, err := s.Get(proposalID)
	if err != nil {
		return err
	}
	grantType, err := s.getGrantType(proposal.GrantTypeID)
	if err != nil {
		return err
	}
	if err := s.checkReviewersEligible(reviewerIDs); err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Lock the proposal row so concurrent assignments serialize; the
		// reviewer set and the cap check both run under the lock.
		var locked models.Proposal
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("proposal_id = ? AND delete_at IS NULL", proposalID).
			First(&locked).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &utils.NotFoundError{Resource: "proposal", ID: proposalID}
			}
			return err
		}

		var current []models.ProposalReviewer
		if err := tx.Where("proposal_id = ? AND delete_at IS NULL", proposalID).Find(&current).Error; err != nil {
			return err
		}
		existing := make([]int, 0, len(current))
		for _, r := range current {
			existing = append(existing, r.ReviewerID)
		}

		toAdd, toRemove, err := planReviewerChanges(existing, reviewerIDs, replace, grantType.MaxReviewers)
		if err != nil {
			return err
		}

		for _, id := range toRemove {
			if err := tx.Exec(
				"UPDATE proposal_reviewers SET delete_at = NOW() WHERE proposal_id = ? AND reviewer_id = ? AND delete_at IS NULL",
				proposalID, id,
			).Error; err != nil {
				return err
			}
		}
		for _, id := range toAdd {
			assignment := models.ProposalReviewer{
				ProposalID: proposalID,
				ReviewerID: id,
				AssignedBy: actorID,
				CreateAt:   time.Now(),
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.events.Publish(DomainEvent{Type: EventReviewersAssigned, ProposalID: proposalID, ActorID: actorID})
	return nil
}

// AdminDecide records the staff approve/reject and mirrors it into the
// overall status. Deciding without any reviewer assigned is tolerated for
// historical data but surfaced as a warning.
func (s *ProposalService) AdminDecide(proposalID, actorID, roleID int, approve bool, note string) ([]string, error) {
	if err := checkRole(roleID, ActionAdminDecide); err != nil {
		return nil, err
	}
	note = utils.SanitizeInput(note)

	proposal, err := s.Get(proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.AdminStatus != models.StatusPending {
		return nil, &utils.ConflictError{Resource: "admin_status",
			Message: "proposal is already " + proposal.AdminStatus}
	}

	decision := models.StatusApproved
	if !approve {
		if err := requireJustification(note); err != nil {
			return nil, err
		}
		decision = models.StatusRejected
	}

	var warnings []string
	if len(proposal.ActiveReviewerIDs()) == 0 {
		warnings = append(warnings, "no reviewers are assigned to this proposal")
	}

	oldStatus := proposal.Status
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"admin_status": decision,
			"status":       decision,
			"update_at":    time.Now(),
		}
		if strings.TrimSpace(note) != "" {
			updates["admin_note"] = strings.TrimSpace(note)
		}
		res := tx.Model(&models.Proposal{}).
			Where("proposal_id = ? AND admin_status = ? AND delete_at IS NULL", proposalID, models.StatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &utils.ConflictError{Resource: "admin_status", Message: "proposal was decided concurrently"}
		}

		if err := writeHistory(tx, proposalID, actorID, "admin_status", models.StatusPending, decision, notePtr(note)); err != nil {
			return err
		}
		return writeHistory(tx, proposalID, actorID, "status", oldStatus, decision, nil)
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(DomainEvent{Type: EventAdminDecided, ProposalID: proposalID, ActorID: actorID, Decision: decision})
	return warnings, nil
}

// RequestRevision routes the proposal back to the leader for edits. Advisors
// and reviewers may only do this on proposals they are attached to.
func (s *ProposalService) RequestRevision(proposalID, actorID, roleID int, note string) error {
	if err := checkRole(roleID, ActionRequestRevision); err != nil {
		return err
	}
	note = utils.SanitizeInput(note)
	if err := requireJustification(note); err != nil {
		return err
	}

	proposal, err := s.Get(proposalID)
	if err != nil {
		return err
	}
	if proposal.Status == models.StatusRevisionRequested {
		return &utils.ConflictError{Resource: "status", Message: "revision is already requested"}
	}
	if proposal.OverallStatus() == models.DisplayRejected {
		return &utils.ConflictError{Resource: "status", Message: "a rejected proposal cannot enter revision"}
	}

	switch roleID {
	case models.RoleAdvisor:
		advisor, err := NewCapacityService(s.db).Get(proposal.AdvisorID)
		if err != nil {
			return err
		}
		if advisor.UserID != actorID {
			return utils.NewValidationError("advisor", "not_assigned", "only the assigned advisor may request revision")
		}
	case models.RoleReviewer:
		if !containsInt(proposal.ActiveReviewerIDs(), actorID) {
			return utils.NewValidationError("reviewer", "not_assigned", "only an assigned reviewer may request revision")
		}
	}

	oldStatus := proposal.Status
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Proposal{}).
			Where("proposal_id = ? AND status = ? AND delete_at IS NULL", proposalID, oldStatus).
			Updates(map[string]interface{}{
				"status":    models.StatusRevisionRequested,
				"update_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &utils.ConflictError{Resource: "status", Message: "proposal changed concurrently"}
		}
		return writeHistory(tx, proposalID, actorID, "status", oldStatus, models.StatusRevisionRequested, notePtr(note))
	})
	if err != nil {
		return err
	}

	s.events.Publish(DomainEvent{Type: EventRevisionRequested, ProposalID: proposalID, ActorID: actorID})
	return nil
}

type ResubmitInput struct {
	Title  *string `json:"title"`
	FileID *int    `json:"file_id"`
}

// Resubmit returns a revised proposal to pending. Eligibility is NOT
// re-checked: a proposal accepted into a window stays in that window even
// after the submission period closes.
func (s *ProposalService) Resubmit(proposalID, leaderID, roleID int, in ResubmitInput) error {
	if err := checkRole(roleID, ActionResubmit); err != nil {
		return err
	}

	proposal, err := s.Get(proposalID)
	if err != nil {
		return err
	}
	if proposal.LeaderID != leaderID {
		return utils.NewValidationError("leader", "not_owner", "only the proposal leader may resubmit")
	}
	if proposal.Status != models.StatusRevisionRequested {
		return &utils.ConflictError{Resource: "status", Message: "proposal is not awaiting revision"}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":         models.StatusPending,
			"revision_count": gorm.Expr("revision_count + 1"),
			"update_at":      time.Now(),
		}
		if in.Title != nil {
			if title := utils.SanitizeInput(*in.Title); title != "" {
				updates["title"] = title
			}
		}
		if in.FileID != nil {
			updates["file_id"] = *in.FileID
		}
		res := tx.Model(&models.Proposal{}).
			Where("proposal_id = ? AND status = ? AND delete_at IS NULL", proposalID, models.StatusRevisionRequested).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &utils.ConflictError{Resource: "status", Message: "proposal changed concurrently"}
		}
		return writeHistory(tx, proposalID, leaderID, "status", models.StatusRevisionRequested, models.StatusPending, nil)
	})
}

// Withdraw soft-deletes the proposal and releases the advisor's slot.
// Withdrawal is the one path that frees capacity regardless of outcome.
func (s *ProposalService) Withdraw(proposalID, leaderID, roleID int) error {
	if err := checkRole(roleID, ActionWithdraw); err != nil {
		return err
	}

	proposal, err := s.Get(proposalID)
	if err != nil {
		return err
	}
	if proposal.LeaderID != leaderID {
		return utils.NewValidationError("leader", "not_owner", "only the proposal leader may withdraw")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			"UPDATE proposals SET delete_at = NOW(), update_at = NOW() WHERE proposal_id = ? AND delete_at IS NULL",
			proposalID,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &utils.ConflictError{Resource: "proposal", Message: "proposal was withdrawn concurrently"}
		}
		if quotaSlotHeld(proposal, s.releaseQuotaOnReject) {
			if err := NewCapacityService(tx).Decrement(proposal.AdvisorID); err != nil {
				return err
			}
		}
		return writeHistory(tx, proposalID, leaderID, "status", proposal.Status, "withdrawn", nil)
	})
}

// Get loads a proposal with its members and reviewers.
func (s *ProposalService) Get(proposalID int) (*models.Proposal, error) {
	var proposal models.Proposal
	err := s.db.
		Preload("Members", "delete_at IS NULL").
		Preload("Reviewers", "delete_at IS NULL").
		Where("proposal_id = ? AND delete_at IS NULL", proposalID).
		First(&proposal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &utils.NotFoundError{Resource: "proposal", ID: proposalID}
		}
		return nil, err
	}
	return &proposal, nil
}

// ProposalFilter narrows List results.
type ProposalFilter struct {
	CalendarID  int
	GrantTypeID int
	LeaderID    int
	AdvisorID   int
	ReviewerID  int
	Status      string
}

// List returns proposals newest first, with relations preloaded.
func (s *ProposalService) List(f ProposalFilter) ([]models.Proposal, error) {
	query := s.db.Model(&models.Proposal{}).
		Preload("GrantType").
		Preload("Leader").
		Preload("Members", "delete_at IS NULL").
		Preload("Reviewers", "delete_at IS NULL").
		Where("proposals.delete_at IS NULL")

	if f.CalendarID != 0 {
		query = query.Where("proposals.calendar_id = ?", f.CalendarID)
	}
	if f.GrantTypeID != 0 {
		query = query.Where("proposals.grant_type_id = ?", f.GrantTypeID)
	}
	if f.LeaderID != 0 {
		query = query.Where("proposals.leader_id = ?", f.LeaderID)
	}
	if f.AdvisorID != 0 {
		query = query.Where("proposals.advisor_id = ?", f.AdvisorID)
	}
	if f.ReviewerID != 0 {
		query = query.Joins("JOIN proposal_reviewers pr ON pr.proposal_id = proposals.proposal_id").
			Where("pr.reviewer_id = ? AND pr.delete_at IS NULL", f.ReviewerID)
	}

	var proposals []models.Proposal
	if err := query.Order("proposals.create_at DESC").Find(&proposals).Error; err != nil {
		return nil, err
	}

	if f.Status != "" {
		filtered := proposals[:0]
		for _, p := range proposals {
			if p.OverallStatus() == f.Status {
				filtered = append(filtered, p)
			}
		}
		proposals = filtered
	}
	return proposals, nil
}

func (s *ProposalService) getGrantType(grantTypeID int) (*models.GrantType, error) {
	var grantType models.GrantType
	err := s.db.Where("grant_type_id = ? AND delete_at IS NULL", grantTypeID).First(&grantType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &utils.NotFoundError{Resource: "grant_type", ID: grantTypeID}
		}
		return nil, err
	}
	return &grantType, nil
}

func (s *ProposalService) checkMembersAreStudents(memberIDs []int) error {
	if len(memberIDs) == 0 {
		return nil
	}
	var count int64
	err := s.db.Model(&models.User{}).
		Where("user_id IN ? AND role_id = ? AND delete_at IS NULL", memberIDs, models.RoleStudent).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count != int64(len(memberIDs)) {
		return utils.NewValidationError("member_ids", "students_only", "every member must be an active student")
	}
	return nil
}

func (s *ProposalService) checkReviewersEligible(reviewerIDs []int) error {
	if len(reviewerIDs) == 0 {
		return nil
	}
	var count int64
	err := s.db.Model(&models.User{}).
		Where("user_id IN ? AND role_id = ? AND delete_at IS NULL", reviewerIDs, models.RoleReviewer).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count != int64(len(reviewerIDs)) {
		return utils.NewValidationError("reviewer_ids", "eligible_reviewer", "every id must belong to an active reviewer")
	}
	return nil
}

func writeHistory(tx *gorm.DB, proposalID, actorID int, field, oldValue, newValue string, note *string) error {
	history := models.ProposalStatusHistory{
		ProposalID: proposalID,
		ActorID:    actorID,
		Field:      field,
		OldValue:   oldValue,
		NewValue:   newValue,
		Note:       note,
		CreateAt:   time.Now(),
	}
	return tx.Create(&history).Error
}

func notePtr(note string) *string {
	trimmed := strings.TrimSpace(note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func containsInt(ids []int, target int) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
