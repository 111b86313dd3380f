package application

import (
	"errors"
	"math/rand"
	"time"

	"github.com/sdgmon/portal-go/internal/config"
	"github.com/sdgmon/portal-go/internal/domain/record"
	"github.com/sdgmon/portal-go/internal/domain/user"
	"github.com/sdgmon/portal-go/internal/repository"
)

// ErrNoEligibleUsers signals that no active user holds the requested role.
// Callers treat it as non-fatal: the transition proceeds without an
// assignment stamp.
var ErrNoEligibleUsers = errors.New("no eligible users available")

// AssignmentService distributes incoming work across reviewers and approvers.
// Workload is never kept in a separate ledger: it is derived on demand by
// scanning the record store, keyed off the record's user field.
type AssignmentService struct {
	Repos  *repository.Repos
	Policy string

	Now  func() time.Time
	Intn func(n int) int
}

func NewAssignmentService(repos *repository.Repos) *AssignmentService {
	return &AssignmentService{
		Repos:  repos,
		Policy: config.AssignmentPolicy,
		Now:    time.Now,
		Intn:   rand.Intn,
	}
}

func (s *AssignmentService) NextReviewer() (user.User, error) {
	return s.next(user.RoleReviewer, record.StatusSubmitted)
}

func (s *AssignmentService) NextApprover() (user.User, error) {
	return s.next(user.RoleApprover, record.StatusReviewed)
}

func (s *AssignmentService) next(role user.Role, pending record.Status) (user.User, error) {
	pool, err := s.Repos.User.FindActiveByRole(role)
	if err != nil {
		return user.User{}, err
	}
	if len(pool) == 0 {
		return user.User{}, ErrNoEligibleUsers
	}
	// With a single candidate there is nothing to balance.
	if len(pool) == 1 {
		return pool[0], nil
	}

	records, err := s.Repos.Record.GetAll()
	if err != nil {
		return user.User{}, err
	}

	switch s.Policy {
	case config.PolicyRoundRobin:
		return s.pickStalest(pool, records), nil
	case config.PolicyRandom:
		return pool[s.Intn(len(pool))], nil
	default:
		return s.pickLeastLoaded(pool, records, pending), nil
	}
}

// pickLeastLoaded selects the candidate with the fewest records waiting on
// them. Ties keep the first candidate in pool order.
func (s *AssignmentService) pickLeastLoaded(pool []user.User, records []record.Record, pending record.Status) user.User {
	best := pool[0]
	bestCount := pendingCount(records, best.Email, pending)
	for _, candidate := range pool[1:] {
		if count := pendingCount(records, candidate.Email, pending); count < bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best
}

// pickStalest selects the candidate whose newest owned record is oldest. A
// candidate with no records at all is infinitely stale and wins outright.
func (s *AssignmentService) pickStalest(pool []user.User, records []record.Record) user.User {
	best := pool[0]
	bestStamp := lastAssigned(records, best.Email)
	for _, candidate := range pool[1:] {
		if stamp := lastAssigned(records, candidate.Email); stamp.Before(bestStamp) {
			best = candidate
			bestStamp = stamp
		}
	}
	return best
}

func pendingCount(records []record.Record, email string, pending record.Status) int {
	count := 0
	for _, r := range records {
		if r.User == email && r.Status == pending {
			count++
		}
	}
	return count
}

// lastAssigned is the max saved_at across the user's owned records; the zero
// time when they own none.
func lastAssigned(records []record.Record, email string) time.Time {
	var last time.Time
	for _, r := range records {
		if r.User != email {
			continue
		}
		if t := r.SavedAtTime(); t.After(last) {
			last = t
		}
	}
	return last
}

type UserWorkload struct {
	Email          string    `json:"email"`
	Role           user.Role `json:"role"`
	PendingCount   int       `json:"pending_count"`
	CompletedToday int       `json:"completed_today"`
	LastAssigned   string    `json:"last_assigned,omitempty"`
}

type WorkloadDashboard struct {
	Reviewers            []UserWorkload `json:"reviewers"`
	Approvers            []UserWorkload `json:"approvers"`
	TotalPendingReview   int            `json:"total_pending_review"`
	TotalPendingApproval int            `json:"total_pending_approval"`
}

// Workload computes the per-user dashboard figures for both roles by a single
// scan over the reconciled record store.
func (s *AssignmentService) Workload() (WorkloadDashboard, error) {
	records, err := s.Repos.Record.GetAll()
	if err != nil {
		return WorkloadDashboard{}, err
	}

	dashboard := WorkloadDashboard{}

	reviewers, err := s.Repos.User.FindActiveByRole(user.RoleReviewer)
	if err != nil {
		return WorkloadDashboard{}, err
	}
	for _, u := range reviewers {
		dashboard.Reviewers = append(dashboard.Reviewers, s.workloadFor(u, records, record.StatusSubmitted))
	}

	approvers, err := s.Repos.User.FindActiveByRole(user.RoleApprover)
	if err != nil {
		return WorkloadDashboard{}, err
	}
	for _, u := range approvers {
		dashboard.Approvers = append(dashboard.Approvers, s.workloadFor(u, records, record.StatusReviewed))
	}

	for _, r := range records {
		switch r.Status {
		case record.StatusSubmitted:
			dashboard.TotalPendingReview++
		case record.StatusReviewed:
			dashboard.TotalPendingApproval++
		}
	}
	return dashboard, nil
}

func (s *AssignmentService) workloadFor(u user.User, records []record.Record, pending record.Status) UserWorkload {
	w := UserWorkload{
		Email:        u.Email,
		Role:         u.Role,
		PendingCount: pendingCount(records, u.Email, pending),
	}
	if last := lastAssigned(records, u.Email); !last.IsZero() {
		w.LastAssigned = last.Format(record.SavedAtLayout)
	}

	today := s.Now()
	for _, r := range records {
		switch u.Role {
		case user.RoleReviewer:
			if r.ReviewedBy == u.Email && sameDay(r.ReviewedAt, today) {
				w.CompletedToday++
			} else if r.RejectedBy == u.Email && sameDay(r.RejectedAt, today) {
				w.CompletedToday++
			}
		case user.RoleApprover:
			if r.ApprovedBy == u.Email && sameDay(r.ApprovedAt, today) {
				w.CompletedToday++
			} else if r.RejectedBy == u.Email && sameDay(r.RejectedAt, today) {
				w.CompletedToday++
			}
		}
	}
	return w
}

func sameDay(stamp string, day time.Time) bool {
	t, err := time.Parse(record.SavedAtLayout, stamp)
	if err != nil {
		return false
	}
	y1, m1, d1 := t.UTC().Date()
	y2, m2, d2 := day.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
