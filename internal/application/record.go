package application

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sdgmon/portal-go/internal/config"
	"github.com/sdgmon/portal-go/internal/domain/record"
	"github.com/sdgmon/portal-go/internal/domain/user"
	"github.com/sdgmon/portal-go/internal/repository"
)

var (
	ErrMessageRequired   = errors.New("a non-empty message is required")
	ErrNoCandidateRecord = errors.New("no record found in the expected status")
	ErrUnknownIndicator  = errors.New("unknown indicator code")
)

// ForbiddenError carries the role-and-state-specific denial text. The reason
// string is part of the API contract.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

func forbidden(reason string) error {
	return &ForbiddenError{Reason: reason}
}

// RecordService is the workflow engine: it locates the current version of a
// record, validates the requested transition against the permission table and
// writes the patched version back through the tiered store.
type RecordService struct {
	Repos       *repository.Repos
	Assignments *AssignmentService

	// Now is swappable for tests.
	Now func() time.Time
}

func NewRecordService(repos *repository.Repos, assignments *AssignmentService) *RecordService {
	return &RecordService{
		Repos:       repos,
		Assignments: assignments,
		Now:         time.Now,
	}
}

func (s *RecordService) stamp() string {
	return s.Now().UTC().Format(record.SavedAtLayout)
}

// Save creates a draft or submits a record. When the actor already owns a
// draft version of the indicator the draft is updated in place, optionally
// advancing to submitted in the same call; otherwise a new version is
// appended. Submitting requires a non-empty message and triggers reviewer
// assignment.
func (s *RecordService) Save(actor user.Actor, input record.SaveRecordInput) (*record.Record, error) {
	if actor.Role != user.RoleSubmitter {
		return nil, forbidden(fmt.Sprintf("%ss cannot create records", actor.Role))
	}
	if !config.KnownIndicator(input.ID) {
		return nil, ErrUnknownIndicator
	}

	target := input.Status
	if target == "" {
		target = record.StatusDraft
	}
	if target == record.StatusSubmitted && strings.TrimSpace(input.Message) == "" {
		return nil, ErrMessageRequired
	}

	now := s.stamp()

	history, err := s.Repos.Record.FindByID(input.ID)
	if err != nil {
		return nil, err
	}
	if draft := latestOwnedDraft(history, actor.Email); draft != nil {
		return s.Repos.Record.UpdateByIDAndTimestamp(input.ID, draft.SavedAt, func(rec *record.Record) {
			applyPayload(rec, input)
			rec.SubmitterMessage = input.Message
			if target == record.StatusSubmitted {
				s.markSubmitted(rec, actor, now)
			} else {
				rec.EditedBy = actor.Email
				rec.EditedAt = now
			}
		})
	}

	rec := &record.Record{
		IndicatorID: input.ID,
		SavedAt:     now,
		Status:      record.StatusDraft,
		User:        actor.Email,
	}
	applyPayload(rec, input)
	rec.SubmitterMessage = input.Message
	if target == record.StatusSubmitted {
		s.markSubmitted(rec, actor, now)
	}

	if err := s.Repos.Record.Put(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *RecordService) markSubmitted(rec *record.Record, actor user.Actor, now string) {
	rec.Status = record.StatusSubmitted
	rec.SubmittedBy = actor.Email
	rec.SubmittedAt = now

	// Assignment is best effort: no eligible reviewer just means no stamp.
	if reviewer, err := s.Assignments.NextReviewer(); err == nil {
		rec.AssignedReviewer = reviewer.Email
	} else if !errors.Is(err, ErrNoEligibleUsers) {
		log.Printf("reviewer assignment failed: %v", err)
	}
}

// latestOwnedDraft finds the actor's own most recent draft. A newer draft by
// another submitter must not shadow it, or a save would append a third
// version and orphan the actor's draft.
func latestOwnedDraft(history []record.Record, email string) *record.Record {
	var best *record.Record
	for i := range history {
		if history[i].Status != record.StatusDraft || history[i].User != email {
			continue
		}
		if best == nil || history[i].NewerThan(*best) {
			best = &history[i]
		}
	}
	return best
}

func applyPayload(rec *record.Record, input record.SaveRecordInput) {
	rec.Value = input.Value
	rec.Unit = input.Unit
	rec.Frequency = input.Frequency
	rec.Period = input.Period
	rec.Responsible = input.Responsible
	rec.Disaggregation = input.Disaggregation
	rec.Notes = input.Notes
}

// Transition applies a review, approve or reject decision. The record to act
// on is the most recent version in the expected predecessor status; among
// several predecessor statuses (reject) the permission table order decides.
func (s *RecordService) Transition(actor user.Actor, id string, action record.Action, note string) (*record.Record, error) {
	switch action {
	case record.ActionReview, record.ActionApprove, record.ActionReject:
	default:
		return nil, fmt.Errorf("unknown decision %q", action)
	}
	if strings.TrimSpace(note) == "" {
		return nil, ErrMessageRequired
	}

	history, err := s.Repos.Record.FindByID(id)
	if err != nil {
		return nil, err
	}

	for _, rule := range record.RulesFor(action) {
		candidate := record.LatestWithStatus(history, rule.From)
		if candidate == nil {
			continue
		}
		if !rule.AllowsRole(actor.Role) {
			return nil, forbidden(record.ForbiddenReason(action, rule.From, actor.Role))
		}

		now := s.stamp()
		return s.Repos.Record.UpdateByIDAndTimestamp(id, candidate.SavedAt, func(rec *record.Record) {
			rec.Status = rule.To
			switch action {
			case record.ActionReview:
				rec.ReviewedBy = actor.Email
				rec.ReviewedAt = now
				rec.ReviewerMessage = note
				if approver, err := s.Assignments.NextApprover(); err == nil {
					rec.AssignedApprover = approver.Email
				} else if !errors.Is(err, ErrNoEligibleUsers) {
					log.Printf("approver assignment failed: %v", err)
				}
			case record.ActionApprove:
				rec.ApprovedBy = actor.Email
				rec.ApprovedAt = now
				rec.ApproverMessage = note
			case record.ActionReject:
				rec.RejectedBy = actor.Email
				rec.RejectedAt = now
				if actor.Role == user.RoleApprover {
					rec.ApproverMessage = note
				} else {
					rec.ReviewerMessage = note
				}
			}
		})
	}

	return nil, ErrNoCandidateRecord
}

// Delete soft-deletes a record: the version keeps existing with status
// deleted. What a role may delete depends on the record's current status.
func (s *RecordService) Delete(actor user.Actor, id, savedAt string) (*record.Record, error) {
	target, err := s.locate(id, savedAt)
	if err != nil {
		return nil, err
	}

	if allowed, reason := record.DeleteAllowed(actor.Role, target.Status); !allowed {
		return nil, forbidden(reason)
	}
	if actor.Role == user.RoleSubmitter && target.User != actor.Email {
		return nil, forbidden("submitters can only delete their own records")
	}

	now := s.stamp()
	return s.Repos.Record.UpdateByIDAndTimestamp(id, target.SavedAt, func(rec *record.Record) {
		rec.Status = record.StatusDeleted
		rec.DeletedBy = actor.Email
		rec.DeletedAt = now
	})
}

// Restore moves a deleted record back to draft. Only the original submitter
// may do this; all per-stage messages are cleared.
func (s *RecordService) Restore(actor user.Actor, id, savedAt string) (*record.Record, error) {
	target, err := s.locate(id, savedAt)
	if err != nil {
		return nil, err
	}

	rule, ok := record.RuleFor(record.ActionRestore, target.Status)
	if !ok {
		return nil, forbidden(record.ForbiddenReason(record.ActionRestore, target.Status, actor.Role))
	}
	if !rule.AllowsRole(actor.Role) {
		return nil, forbidden(record.ForbiddenReason(record.ActionRestore, target.Status, actor.Role))
	}
	if target.User != actor.Email {
		return nil, forbidden("only the original submitter can restore a deleted record")
	}

	now := s.stamp()
	return s.Repos.Record.UpdateByIDAndTimestamp(id, target.SavedAt, func(rec *record.Record) {
		rec.Status = record.StatusDraft
		rec.ClearMessages()
		rec.RestoredBy = actor.Email
		rec.RestoredAt = now
	})
}

// EditFields mutates payload fields without a status change: reviewers and
// approvers touch submitted records, submitters their own drafts.
func (s *RecordService) EditFields(actor user.Actor, id string, input record.EditFieldsInput) (*record.Record, error) {
	history, err := s.Repos.Record.FindByID(id)
	if err != nil {
		return nil, err
	}
	latest := record.Latest(history)
	if latest == nil {
		return nil, ErrNoCandidateRecord
	}

	// The edit lands on the newest version in a status the role may edit,
	// so a later version in an unrelated status does not shadow it: a
	// reviewer still reaches the submitted version when a fresh draft of
	// the same indicator exists.
	var target *record.Record
	for _, status := range record.EditableStatuses(actor.Role) {
		candidate := record.LatestWithStatus(history, status)
		if candidate == nil {
			continue
		}
		if target == nil || candidate.NewerThan(*target) {
			target = candidate
		}
	}
	if target == nil {
		_, reason := record.EditAllowed(actor.Role, latest.Status)
		return nil, forbidden(reason)
	}
	if actor.Role == user.RoleSubmitter && target.User != actor.Email {
		return nil, forbidden("submitters can only edit their own records")
	}

	now := s.stamp()
	return s.Repos.Record.UpdateByIDAndTimestamp(id, target.SavedAt, func(rec *record.Record) {
		if input.Value != nil {
			rec.Value = *input.Value
		}
		if input.Unit != nil {
			rec.Unit = *input.Unit
		}
		if input.Frequency != nil {
			rec.Frequency = *input.Frequency
		}
		if input.Period != nil {
			rec.Period = *input.Period
		}
		if input.Responsible != nil {
			rec.Responsible = *input.Responsible
		}
		if input.Disaggregation != nil {
			rec.Disaggregation = *input.Disaggregation
		}
		if input.Notes != nil {
			rec.Notes = *input.Notes
		}
		rec.EditedBy = actor.Email
		rec.EditedAt = now
	})
}

// List returns the reconciled, display-filtered view, optionally merged with
// records the client held in its own local tier.
func (s *RecordService) List(statusFilter record.Status, all bool, clientRecords []record.Record) ([]record.Record, error) {
	stored, err := s.Repos.Record.GetAll()
	if err != nil {
		return nil, err
	}

	view := record.Reconcile(append(stored, clientRecords...))
	view = record.FilterDisplayable(view)

	if all || statusFilter == "" {
		return view, nil
	}

	filtered := make([]record.Record, 0, len(view))
	for _, r := range view {
		if r.Status == statusFilter {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// locate finds the version to act on: exact (id, saved_at) when the stamp is
// known, otherwise the most recent version for the id.
func (s *RecordService) locate(id, savedAt string) (*record.Record, error) {
	history, err := s.Repos.Record.FindByID(id)
	if err != nil {
		return nil, err
	}
	if savedAt != "" {
		for i := range history {
			if history[i].SavedAt == savedAt {
				return &history[i], nil
			}
		}
	}
	target := record.Latest(history)
	if target == nil {
		return nil, ErrNoCandidateRecord
	}
	return target, nil
}
