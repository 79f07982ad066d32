package services

import (
	"context"
	"fmt"

	"github.com/anjiri1684/torah_tutor/logger"
	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/google/uuid"
)

// ApprovalQueue lists teachers awaiting review, including rejected ones that
// may be reopened.
func (s *Services) ApprovalQueue(ctx context.Context) ([]models.Profile, error) {
	return s.store.ListProfiles(ctx, ProfileFilter{
		Role:           models.RoleTeacher,
		ApprovalStatus: []string{models.ApprovalPending, models.ApprovalRejected},
	})
}

// DecideApproval applies an admin action to a teacher's approval status.
func (s *Services) DecideApproval(ctx context.Context, adminID, teacherID uuid.UUID, action rules.ApprovalAction, notes string) (models.Profile, error) {
	if !action.AdminOnly() {
		return models.Profile{}, fmt.Errorf("%w: %s is not an admin action", ErrInvalidInput, action)
	}
	admin, err := s.store.GetProfile(ctx, adminID)
	if err != nil {
		return models.Profile{}, err
	}
	if admin.Role != models.RoleAdmin {
		return models.Profile{}, ErrForbidden
	}

	p, err := s.transition(ctx, adminID, teacherID, action, notes)
	if err != nil {
		return models.Profile{}, err
	}

	switch action {
	case rules.ActionApprove:
		go s.notify.Send(p.FullName, p.Email,
			"Your Teacher Application has been Approved!",
			"<h1>Congratulations!</h1><p>Your application to teach has been approved. You can now publish courses and host sessions.</p>")
	case rules.ActionReject:
		go s.notify.Send(p.FullName, p.Email,
			"Update on Your Teacher Application",
			"<h1>Application Update</h1><p>After careful review, your application was not approved at this time. You may update your profile and reapply.</p>")
	}
	return p, nil
}

// Reapply returns a rejected teacher to the review queue.
func (s *Services) Reapply(ctx context.Context, teacherID uuid.UUID, notes string) (models.Profile, error) {
	return s.transition(ctx, teacherID, teacherID, rules.ActionReapply, notes)
}

func (s *Services) transition(ctx context.Context, actorID, teacherID uuid.UUID, action rules.ApprovalAction, notes string) (models.Profile, error) {
	teacher, err := s.store.GetProfile(ctx, teacherID)
	if err != nil {
		return models.Profile{}, err
	}
	if teacher.Role != models.RoleTeacher {
		return models.Profile{}, fmt.Errorf("%w: %s is not a teacher", ErrInvalidInput, teacherID)
	}

	from := teacher.ApprovalValue()
	to, err := rules.NextApprovalStatus(from, action)
	if err != nil {
		return models.Profile{}, err
	}

	now := s.now()
	updated, err := s.store.TransitionApproval(ctx, ApprovalTransition{
		TeacherID: teacherID,
		From:      from,
		To:        to,
		ActorID:   actorID,
		At:        now,
		Audit: models.ApprovalAudit{
			AdminID:   actorID,
			TeacherID: teacherID,
			Action:    action.AuditLabel(),
			Notes:     notes,
			CreatedAt: now,
		},
	})
	if err != nil {
		return models.Profile{}, err
	}

	logger.Info().
		Str("teacher_id", teacherID.String()).
		Str("actor_id", actorID.String()).
		Str("from", from).
		Str("to", to).
		Msg("approval status changed")
	return updated, nil
}

func (s *Services) ApprovalHistory(ctx context.Context, teacherID uuid.UUID) ([]models.ApprovalAudit, error) {
	return s.store.ListApprovalAudits(ctx, teacherID)
}

// ChangeRole is an admin override. A user promoted to teacher enters the
// review queue; an existing approval status is kept as is.
func (s *Services) ChangeRole(ctx context.Context, userID uuid.UUID, role string) (models.Profile, error) {
	switch role {
	case models.RoleStudent, models.RoleTeacher, models.RoleAdmin:
	default:
		return models.Profile{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	p, err := s.store.ChangeRole(ctx, userID, role)
	if err != nil {
		return models.Profile{}, err
	}
	logger.Info().Str("user_id", userID.String()).Str("role", role).Msg("role changed")
	return p, nil
}

func (s *Services) ListUsers(ctx context.Context, role string, limit, offset int) ([]models.Profile, error) {
	return s.store.ListProfiles(ctx, ProfileFilter{Role: role, Limit: limit, Offset: offset})
}

func (s *Services) DeleteUser(ctx context.Context, adminID, userID uuid.UUID) error {
	if adminID == userID {
		return fmt.Errorf("%w: admins cannot delete themselves", ErrInvalidInput)
	}
	if err := s.store.DeleteProfile(ctx, userID); err != nil {
		return err
	}
	logger.Warn().Str("user_id", userID.String()).Str("admin_id", adminID.String()).Msg("user deleted")
	return nil
}
