package application

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdgmon/portal-go/internal/domain/record"
	"github.com/sdgmon/portal-go/internal/domain/user"
	"github.com/sdgmon/portal-go/internal/repository"
	"github.com/sdgmon/portal-go/internal/repository/mock"
)

var (
	submitter = user.Actor{Email: "submitter@sdg.test", Role: user.RoleSubmitter}
	reviewer  = user.Actor{Email: "reviewer@sdg.test", Role: user.RoleReviewer}
	approver  = user.Actor{Email: "approver@sdg.test", Role: user.RoleApprover}
	admin     = user.Actor{Email: "admin@sdg.test", Role: user.RoleAdmin}
)

// newWorkflowFixture wires a RecordService against the in-memory record store
// and a mocked user pool, with a deterministic clock that advances one minute
// per stamp so every version gets a distinct saved_at.
func newWorkflowFixture(t *testing.T) (*RecordService, *repository.MemoryRecordRepo, *mock.MockUserRepo) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	store := repository.NewMemoryRecordRepo()
	users := mock.NewMockUserRepo(ctrl)
	repos := &repository.Repos{Record: store, User: users}

	assignments := NewAssignmentService(repos)
	svc := NewRecordService(repos, assignments)

	base := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	svc.Now = clock
	assignments.Now = clock

	return svc, store, users
}

func seed(t *testing.T, store *repository.MemoryRecordRepo, rec record.Record) record.Record {
	t.Helper()
	require.NoError(t, store.Put(&rec))
	return rec
}

func TestSaveCreatesDraft(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	rec, err := svc.Save(submitter, record.SaveRecordInput{
		ID:     "FM-OC-001",
		Status: record.StatusDraft,
		Value:  "42.5",
		Unit:   "percent",
	})
	require.NoError(t, err)

	assert.Equal(t, record.StatusDraft, rec.Status)
	assert.Equal(t, submitter.Email, rec.User)
	assert.NotEmpty(t, rec.SavedAt)
	assert.Empty(t, rec.SubmittedBy)

	stored, err := store.FindByID("FM-OC-001")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "42.5", stored[0].Value)
}

func TestSaveSubmitRequiresMessage(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	_, err := svc.Save(submitter, record.SaveRecordInput{
		ID:      "FM-OC-001",
		Status:  record.StatusSubmitted,
		Value:   "42.5",
		Message: "   ",
	})
	assert.ErrorIs(t, err, ErrMessageRequired)

	stored, err := store.GetAll()
	require.NoError(t, err)
	assert.Empty(t, stored, "a rejected submit must not leave a version behind")
}

func TestSaveSubmitAssignsReviewer(t *testing.T) {
	svc, store, users := newWorkflowFixture(t)

	users.EXPECT().FindActiveByRole(user.RoleReviewer).Return([]user.User{
		{Email: reviewer.Email, Role: user.RoleReviewer, IsActive: true},
	}, nil)

	rec, err := svc.Save(submitter, record.SaveRecordInput{
		ID:      "FM-OC-001",
		Status:  record.StatusSubmitted,
		Value:   "42.5",
		Message: "initial figures for Q1",
	})
	require.NoError(t, err)

	assert.Equal(t, record.StatusSubmitted, rec.Status)
	assert.Equal(t, submitter.Email, rec.SubmittedBy)
	assert.NotEmpty(t, rec.SubmittedAt)
	assert.Equal(t, reviewer.Email, rec.AssignedReviewer)
	assert.Equal(t, "initial figures for Q1", rec.SubmitterMessage)

	stored, _ := store.FindByID("FM-OC-001")
	require.Len(t, stored, 1)
}

func TestSaveSubmitWithoutReviewersStillSubmits(t *testing.T) {
	svc, _, users := newWorkflowFixture(t)

	users.EXPECT().FindActiveByRole(user.RoleReviewer).Return(nil, nil)

	rec, err := svc.Save(submitter, record.SaveRecordInput{
		ID:      "FM-OC-001",
		Status:  record.StatusSubmitted,
		Message: "no reviewers around",
	})
	require.NoError(t, err)
	assert.Equal(t, record.StatusSubmitted, rec.Status)
	assert.Empty(t, rec.AssignedReviewer)
}

func TestSaveUpdatesOwnDraftInPlace(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	first, err := svc.Save(submitter, record.SaveRecordInput{ID: "FM-OC-001", Value: "1"})
	require.NoError(t, err)

	second, err := svc.Save(submitter, record.SaveRecordInput{ID: "FM-OC-001", Value: "2"})
	require.NoError(t, err)

	assert.Equal(t, first.SavedAt, second.SavedAt, "editing an owned draft keeps the same version")
	stored, _ := store.FindByID("FM-OC-001")
	require.Len(t, stored, 1)
	assert.Equal(t, "2", stored[0].Value)
	assert.Equal(t, submitter.Email, stored[0].EditedBy)
}

func TestSaveAppendsWhenDraftBelongsToSomeoneElse(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusDraft,
		User:        "other@sdg.test",
		Value:       "1",
	})

	_, err := svc.Save(submitter, record.SaveRecordInput{ID: "FM-OC-001", Value: "2"})
	require.NoError(t, err)

	stored, _ := store.FindByID("FM-OC-001")
	assert.Len(t, stored, 2)
}

func TestSaveOwnDraftNotShadowedByNewerForeignDraft(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	mine := seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T07:00:00Z",
		Status:      record.StatusDraft,
		User:        submitter.Email,
		Value:       "1",
	})
	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusDraft,
		User:        "other@sdg.test",
		Value:       "9",
	})

	rec, err := svc.Save(submitter, record.SaveRecordInput{ID: "FM-OC-001", Value: "2"})
	require.NoError(t, err)

	assert.Equal(t, mine.SavedAt, rec.SavedAt, "the actor's own draft is updated, not a new version appended")
	stored, _ := store.FindByID("FM-OC-001")
	require.Len(t, stored, 2)
	for _, r := range stored {
		switch r.SavedAt {
		case mine.SavedAt:
			assert.Equal(t, "2", r.Value)
			assert.Equal(t, submitter.Email, r.EditedBy)
		default:
			assert.Equal(t, "9", r.Value, "the other submitter's draft stays untouched")
		}
	}
}

func TestSaveForbiddenForNonSubmitters(t *testing.T) {
	svc, _, _ := newWorkflowFixture(t)

	_, err := svc.Save(reviewer, record.SaveRecordInput{ID: "FM-OC-001"})

	var fe *ForbiddenError
	require.ErrorAs(t, err, &fe)
}

func TestReviewHappyPath(t *testing.T) {
	svc, store, users := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusSubmitted,
		User:        submitter.Email,
		Value:       "42.5",
	})
	users.EXPECT().FindActiveByRole(user.RoleApprover).Return([]user.User{
		{Email: approver.Email, Role: user.RoleApprover, IsActive: true},
	}, nil)

	rec, err := svc.Transition(reviewer, "FM-OC-001", record.ActionReview, "ok")
	require.NoError(t, err)

	assert.Equal(t, record.StatusReviewed, rec.Status)
	assert.Equal(t, reviewer.Email, rec.ReviewedBy)
	assert.NotEmpty(t, rec.ReviewedAt)
	assert.Equal(t, "ok", rec.ReviewerMessage)
	assert.Equal(t, approver.Email, rec.AssignedApprover)
	assert.Equal(t, "42.5", rec.Value, "payload survives the transition")
}

func TestReviewProceedsWithoutApprover(t *testing.T) {
	svc, store, users := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusSubmitted,
		User:        submitter.Email,
	})
	users.EXPECT().FindActiveByRole(user.RoleApprover).Return([]user.User{}, nil)

	rec, err := svc.Transition(reviewer, "FM-OC-001", record.ActionReview, "looks fine")
	require.NoError(t, err)
	assert.Equal(t, record.StatusReviewed, rec.Status)
	assert.Empty(t, rec.AssignedApprover)
}

func TestTransitionEmptyNoteLeavesRecordUntouched(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusSubmitted,
		User:        submitter.Email,
	})

	_, err := svc.Transition(reviewer, "FM-OC-001", record.ActionReview, "  ")
	assert.ErrorIs(t, err, ErrMessageRequired)

	stored, _ := store.FindByID("FM-OC-001")
	require.Len(t, stored, 1)
	assert.Equal(t, record.StatusSubmitted, stored[0].Status)
	assert.Empty(t, stored[0].ReviewedBy)
}

func TestTransitionWrongRoleForbidden(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusSubmitted,
		User:        submitter.Email,
	})

	_, err := svc.Transition(approver, "FM-OC-001", record.ActionReview, "sneaking in")
	var fe *ForbiddenError
	require.ErrorAs(t, err, &fe)

	_, err = svc.Transition(submitter, "FM-OC-001", record.ActionReject, "self reject")
	require.ErrorAs(t, err, &fe)

	stored, _ := store.FindByID("FM-OC-001")
	assert.Equal(t, record.StatusSubmitted, stored[0].Status)
}

func TestTransitionNoCandidateInExpectedStatus(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusDraft,
		User:        submitter.Email,
	})

	_, err := svc.Transition(reviewer, "FM-OC-001", record.ActionReview, "nothing to review")
	assert.ErrorIs(t, err, ErrNoCandidateRecord)
}

func TestApproveFromReviewed(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusReviewed,
		User:        submitter.Email,
	})

	rec, err := svc.Transition(approver, "FM-OC-001", record.ActionApprove, "final")
	require.NoError(t, err)

	assert.Equal(t, record.StatusApproved, rec.Status)
	assert.Equal(t, approver.Email, rec.ApprovedBy)
	assert.Equal(t, "final", rec.ApproverMessage)
}

func TestRejectMessageGoesToActorStage(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusSubmitted,
		User:        submitter.Email,
	})
	seed(t, store, record.Record{
		IndicatorID: "FM-OC-002",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusReviewed,
		User:        submitter.Email,
	})

	rec, err := svc.Transition(reviewer, "FM-OC-001", record.ActionReject, "wrong period")
	require.NoError(t, err)
	assert.Equal(t, record.StatusRejected, rec.Status)
	assert.Equal(t, "wrong period", rec.ReviewerMessage)
	assert.Empty(t, rec.ApproverMessage)

	rec, err = svc.Transition(approver, "FM-OC-002", record.ActionReject, "disaggregation missing")
	require.NoError(t, err)
	assert.Equal(t, record.StatusRejected, rec.Status)
	assert.Equal(t, "disaggregation missing", rec.ApproverMessage)
}

func TestRejectFollowsTableOrderAcrossPredecessors(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	// Same indicator has an older submitted version and a newer reviewed one;
	// the reject lands on the submitted version because the permission table
	// lists it first and the reviewer may only act there.
	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T07:00:00Z",
		Status:      record.StatusSubmitted,
		User:        submitter.Email,
	})
	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusReviewed,
		User:        submitter.Email,
	})

	rec, err := svc.Transition(reviewer, "FM-OC-001", record.ActionReject, "stale submission")
	require.NoError(t, err)
	assert.Equal(t, "2025-05-12T07:00:00Z", rec.SavedAt)
	assert.Equal(t, record.StatusRejected, rec.Status)
}

func TestDeleteSubmitterOnSubmittedForbidden(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusSubmitted,
		User:        submitter.Email,
	})

	_, err := svc.Delete(submitter, "FM-OC-001", "")

	var fe *ForbiddenError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "submitters can only delete records still in draft", fe.Reason)

	stored, _ := store.FindByID("FM-OC-001")
	assert.Equal(t, record.StatusSubmitted, stored[0].Status)
}

func TestDeleteOwnDraft(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusDraft,
		User:        submitter.Email,
	})

	rec, err := svc.Delete(submitter, "FM-OC-001", "")
	require.NoError(t, err)
	assert.Equal(t, record.StatusDeleted, rec.Status)
	assert.Equal(t, submitter.Email, rec.DeletedBy)
	assert.NotEmpty(t, rec.DeletedAt)
}

func TestDeleteSomeoneElsesDraftForbidden(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusDraft,
		User:        "other@sdg.test",
	})

	_, err := svc.Delete(submitter, "FM-OC-001", "")
	var fe *ForbiddenError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "submitters can only delete their own records", fe.Reason)
}

func TestAdminDeletesAnyState(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	for i, status := range []record.Status{record.StatusDraft, record.StatusSubmitted, record.StatusApproved} {
		seed(t, store, record.Record{
			IndicatorID: "FM-OC-00" + string(rune('1'+i)),
			SavedAt:     "2025-05-12T08:00:00Z",
			Status:      status,
			User:        "other@sdg.test",
		})
	}

	for _, id := range []string{"FM-OC-001", "FM-OC-002", "FM-OC-003"} {
		rec, err := svc.Delete(admin, id, "")
		require.NoError(t, err)
		assert.Equal(t, record.StatusDeleted, rec.Status)
	}
}

func TestDeleteExactVersionBySavedAt(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T07:00:00Z",
		Status:      record.StatusDraft,
		User:        submitter.Email,
	})
	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusDraft,
		User:        submitter.Email,
	})

	rec, err := svc.Delete(submitter, "FM-OC-001", "2025-05-12T07:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-05-12T07:00:00Z", rec.SavedAt)

	stored, _ := store.FindByID("FM-OC-001")
	for _, r := range stored {
		if r.SavedAt == "2025-05-12T08:00:00Z" {
			assert.Equal(t, record.StatusDraft, r.Status, "the newer version stays untouched")
		}
	}
}

func TestRestoreOwnerOnly(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID:      "FM-OC-001",
		SavedAt:          "2025-05-12T08:00:00Z",
		Status:           record.StatusDeleted,
		User:             submitter.Email,
		SubmitterMessage: "first try",
		ReviewerMessage:  "needs work",
	})

	other := user.Actor{Email: "other@sdg.test", Role: user.RoleSubmitter}
	_, err := svc.Restore(other, "FM-OC-001", "")
	var fe *ForbiddenError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "only the original submitter can restore a deleted record", fe.Reason)

	rec, err := svc.Restore(submitter, "FM-OC-001", "")
	require.NoError(t, err)
	assert.Equal(t, record.StatusDraft, rec.Status)
	assert.Equal(t, submitter.Email, rec.RestoredBy)
	assert.Empty(t, rec.SubmitterMessage, "restore clears stage messages")
	assert.Empty(t, rec.ReviewerMessage)
}

func TestRestoreOnlyFromDeleted(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusRejected,
		User:        submitter.Email,
	})

	_, err := svc.Restore(submitter, "FM-OC-001", "")
	var fe *ForbiddenError
	require.ErrorAs(t, err, &fe)
}

func TestEditFieldsReviewerOnSubmitted(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusSubmitted,
		User:        submitter.Email,
		Value:       "42.5",
		Unit:        "percent",
	})

	newValue := "43.1"
	rec, err := svc.EditFields(reviewer, "FM-OC-001", record.EditFieldsInput{Value: &newValue})
	require.NoError(t, err)

	assert.Equal(t, "43.1", rec.Value)
	assert.Equal(t, "percent", rec.Unit, "untouched fields keep their value")
	assert.Equal(t, record.StatusSubmitted, rec.Status, "field edits never change status")
	assert.Equal(t, reviewer.Email, rec.EditedBy)
}

func TestEditFieldsReachesSubmittedPastNewerDraft(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusSubmitted,
		User:        submitter.Email,
		Value:       "42.5",
	})
	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T09:00:00Z",
		Status:      record.StatusDraft,
		User:        "other@sdg.test",
		Value:       "0",
	})

	newValue := "43.1"
	rec, err := svc.EditFields(reviewer, "FM-OC-001", record.EditFieldsInput{Value: &newValue})
	require.NoError(t, err)

	assert.Equal(t, "2025-05-12T08:00:00Z", rec.SavedAt, "the edit lands on the submitted version, not the newer draft")
	assert.Equal(t, record.StatusSubmitted, rec.Status)
	assert.Equal(t, "43.1", rec.Value)

	stored, _ := store.FindByID("FM-OC-001")
	for _, r := range stored {
		if r.Status == record.StatusDraft {
			assert.Equal(t, "0", r.Value, "the draft stays untouched")
		}
	}
}

func TestEditFieldsSubmitterOnlyOwnDraft(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusDraft,
		User:        "other@sdg.test",
	})

	v := "1"
	_, err := svc.EditFields(submitter, "FM-OC-001", record.EditFieldsInput{Value: &v})
	var fe *ForbiddenError
	require.ErrorAs(t, err, &fe)
}

func TestEditFieldsWrongStatusForbidden(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusApproved,
		User:        submitter.Email,
	})

	v := "1"
	_, err := svc.EditFields(reviewer, "FM-OC-001", record.EditFieldsInput{Value: &v})
	var fe *ForbiddenError
	require.ErrorAs(t, err, &fe)
}

func TestListMergesClientTierAndFilters(t *testing.T) {
	svc, store, _ := newWorkflowFixture(t)

	seed(t, store, record.Record{
		IndicatorID: "FM-OC-001",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusSubmitted,
		User:        submitter.Email,
		Value:       "old",
	})
	seed(t, store, record.Record{
		IndicatorID: "FM-OC-002",
		SavedAt:     "2025-05-12T08:00:00Z",
		Status:      record.StatusDraft,
		User:        submitter.Email,
		Value:       "kept",
	})

	client := []record.Record{
		{
			IndicatorID: "FM-OC-001",
			SavedAt:     "2025-05-12T09:00:00Z",
			Status:      record.StatusDraft,
			User:        submitter.Email,
			Value:       "newer from browser",
		},
		{
			// No value and no notes, filtered out of the display view.
			IndicatorID: "FM-OC-003",
			SavedAt:     "2025-05-12T09:00:00Z",
			Status:      record.StatusDraft,
			User:        submitter.Email,
		},
	}

	view, err := svc.List("", true, client)
	require.NoError(t, err)
	require.Len(t, view, 2)

	byID := map[string]record.Record{}
	for _, r := range view {
		byID[r.IndicatorID] = r
	}
	assert.Equal(t, "newer from browser", byID["FM-OC-001"].Value, "the client copy is newer and wins")
	assert.Equal(t, "kept", byID["FM-OC-002"].Value)

	drafts, err := svc.List(record.StatusDraft, false, client)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	for _, r := range drafts {
		assert.Equal(t, record.StatusDraft, r.Status)
	}
}
