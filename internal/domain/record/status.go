package record

import (
	"fmt"

	"github.com/sdgmon/portal-go/internal/domain/user"
)

type Action string

const (
	ActionSubmit  Action = "submit"
	ActionReview  Action = "review"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionDelete  Action = "delete"
	ActionRestore Action = "restore"
	ActionEdit    Action = "edit"
)

// TransitionRule is one row of the status machine: who may move a record from
// one status to another, and whether the move needs a note or ownership.
type TransitionRule struct {
	Action       Action
	From         Status
	To           Status
	Roles        []user.Role
	OwnerOnly    bool
	NeedsMessage bool
}

func (r TransitionRule) AllowsRole(role user.Role) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Transitions is the full state machine as data. Deletes are handled
// separately because they are reachable from several statuses with
// per-role restrictions (see DeleteAllowed).
var Transitions = []TransitionRule{
	{Action: ActionSubmit, From: StatusDraft, To: StatusSubmitted, Roles: []user.Role{user.RoleSubmitter}, OwnerOnly: true, NeedsMessage: true},
	{Action: ActionReview, From: StatusSubmitted, To: StatusReviewed, Roles: []user.Role{user.RoleReviewer}, NeedsMessage: true},
	{Action: ActionReject, From: StatusSubmitted, To: StatusRejected, Roles: []user.Role{user.RoleReviewer, user.RoleApprover}, NeedsMessage: true},
	{Action: ActionApprove, From: StatusReviewed, To: StatusApproved, Roles: []user.Role{user.RoleApprover}, NeedsMessage: true},
	{Action: ActionReject, From: StatusReviewed, To: StatusRejected, Roles: []user.Role{user.RoleApprover}, NeedsMessage: true},
	{Action: ActionRestore, From: StatusDeleted, To: StatusDraft, Roles: []user.Role{user.RoleSubmitter}, OwnerOnly: true},
}

// RulesFor returns the table rows for one action, in table order. The order
// matters: transition lookups try predecessor statuses in this order.
func RulesFor(action Action) []TransitionRule {
	var rules []TransitionRule
	for _, r := range Transitions {
		if r.Action == action {
			rules = append(rules, r)
		}
	}
	return rules
}

// RuleFor returns the rule moving a record out of the given status.
func RuleFor(action Action, from Status) (TransitionRule, bool) {
	for _, r := range Transitions {
		if r.Action == action && r.From == from {
			return r, true
		}
	}
	return TransitionRule{}, false
}

type deleteRule struct {
	from   []Status
	reason string
}

// The reason strings are part of the API contract: clients display them
// verbatim and tests assert on them.
var deleteRules = map[user.Role]deleteRule{
	user.RoleSubmitter: {
		from:   []Status{StatusDraft},
		reason: "submitters can only delete records still in draft",
	},
	user.RoleReviewer: {
		from:   []Status{StatusSubmitted},
		reason: "reviewers can only delete submitted records",
	},
	user.RoleApprover: {
		from:   []Status{StatusReviewed, StatusApproved, StatusRejected},
		reason: "approvers can only delete reviewed, approved or rejected records",
	},
}

// DeleteAllowed reports whether the role may delete a record in the given
// status. Admins delete unconditionally. The returned reason is the
// user-facing denial text when not allowed.
func DeleteAllowed(role user.Role, from Status) (bool, string) {
	if role == user.RoleAdmin {
		return true, ""
	}
	rule, ok := deleteRules[role]
	if !ok {
		return false, fmt.Sprintf("%ss cannot delete records", role)
	}
	for _, st := range rule.from {
		if st == from {
			return true, ""
		}
	}
	return false, rule.reason
}

var editRules = map[user.Role][]Status{
	user.RoleSubmitter: {StatusDraft},
	user.RoleReviewer:  {StatusSubmitted},
	user.RoleApprover:  {StatusSubmitted},
}

// EditableStatuses returns the statuses whose payload the role may edit in
// place.
func EditableStatuses(role user.Role) []Status {
	return editRules[role]
}

// EditAllowed reports whether the role may edit payload fields of a record in
// the given status without changing its status.
func EditAllowed(role user.Role, from Status) (bool, string) {
	statuses, ok := editRules[role]
	if !ok {
		return false, fmt.Sprintf("%ss cannot edit records", role)
	}
	for _, st := range statuses {
		if st == from {
			return true, ""
		}
	}
	return false, fmt.Sprintf("%ss cannot edit records in status %q", role, from)
}

// ForbiddenReason builds the denial text for a transition the table does not
// allow for this role and status.
func ForbiddenReason(action Action, from Status, role user.Role) string {
	if _, ok := RuleFor(action, from); ok {
		return fmt.Sprintf("%ss are not allowed to %s records", role, action)
	}
	return fmt.Sprintf("cannot %s a record in status %q", action, from)
}
