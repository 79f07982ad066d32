package rules

import (
	"errors"
	"fmt"

	"github.com/anjiri1684/torah_tutor/models"
)

var ErrInvalidTransition = errors.New("invalid approval transition")

type ApprovalAction string

const (
	ActionApprove ApprovalAction = "approve"
	ActionReject  ApprovalAction = "reject"
	ActionReopen  ApprovalAction = "reopen"
	ActionReapply ApprovalAction = "reapply"
)

// AuditLabel is the value written to the audit trail for an action.
func (a ApprovalAction) AuditLabel() string {
	switch a {
	case ActionApprove:
		return "approved"
	case ActionReject:
		return "rejected"
	case ActionReopen:
		return "reopened"
	case ActionReapply:
		return "reapplied"
	}
	return string(a)
}

// AdminOnly reports whether the action is reserved for administrators.
// Reapplying is done by the teacher themself.
func (a ApprovalAction) AdminOnly() bool {
	return a != ActionReapply
}

// NextApprovalStatus returns the status reached by applying action to from.
// Approved is terminal.
func NextApprovalStatus(from string, action ApprovalAction) (string, error) {
	switch {
	case from == models.ApprovalPending && action == ActionApprove:
		return models.ApprovalApproved, nil
	case from == models.ApprovalPending && action == ActionReject:
		return models.ApprovalRejected, nil
	case from == models.ApprovalRejected && (action == ActionReopen || action == ActionReapply):
		return models.ApprovalPending, nil
	}
	return "", fmt.Errorf("%w: cannot %s a %q teacher", ErrInvalidTransition, action, from)
}

// IsListedTeacher is the single gate for surfacing a teacher anywhere:
// search results, course listings, course creation and session hosting.
func IsListedTeacher(p models.Profile) bool {
	return p.Role == models.RoleTeacher && p.ApprovalValue() == models.ApprovalApproved
}
