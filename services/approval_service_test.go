package services_test

import (
	"testing"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveTeacherWritesAudit(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	teacher := f.teacher(models.GenderMale, models.ApprovalPending)

	got, err := f.svc.DecideApproval(f.ctx, admin.ID, teacher.ID, rules.ActionApprove, "verified credentials")
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, got.ApprovalValue())
	require.NotNil(t, got.ApprovedAt)
	assert.Equal(t, testNow, *got.ApprovedAt)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, admin.ID, *got.ApprovedBy)

	audits, err := f.svc.ApprovalHistory(f.ctx, teacher.ID)
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, "approved", audits[0].Action)
	assert.Equal(t, "verified credentials", audits[0].Notes)
	assert.Equal(t, admin.ID, audits[0].AdminID)
}

func TestApprovedIsTerminal(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	teacher := f.teacher("", models.ApprovalApproved)

	for _, action := range []rules.ApprovalAction{rules.ActionApprove, rules.ActionReject, rules.ActionReopen} {
		_, err := f.svc.DecideApproval(f.ctx, admin.ID, teacher.ID, action, "")
		assert.ErrorIs(t, err, services.ErrInvalidTransition, string(action))
	}
	_, err := f.svc.Reapply(f.ctx, teacher.ID, "")
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	p, err := f.store.GetProfile(f.ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, p.ApprovalValue())

	audits, err := f.svc.ApprovalHistory(f.ctx, teacher.ID)
	require.NoError(t, err)
	assert.Empty(t, audits)
}

func TestRejectThenReapplyThenApprove(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	teacher := f.teacher("", models.ApprovalPending)

	_, err := f.svc.DecideApproval(f.ctx, admin.ID, teacher.ID, rules.ActionReject, "missing documents")
	require.NoError(t, err)

	queue, err := f.svc.ApprovalQueue(f.ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1, "rejected teachers stay reviewable")

	p, err := f.svc.Reapply(f.ctx, teacher.ID, "uploaded documents")
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalPending, p.ApprovalValue())

	_, err = f.svc.DecideApproval(f.ctx, admin.ID, teacher.ID, rules.ActionApprove, "")
	require.NoError(t, err)

	audits, err := f.svc.ApprovalHistory(f.ctx, teacher.ID)
	require.NoError(t, err)
	labels := make([]string, len(audits))
	for i, a := range audits {
		labels[i] = a.Action
	}
	assert.Equal(t, []string{"rejected", "reapplied", "approved"}, labels)
}

func TestDecideApprovalGuards(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	other := f.teacher("", models.ApprovalApproved)
	teacher := f.teacher("", models.ApprovalPending)
	student := f.student("")

	_, err := f.svc.DecideApproval(f.ctx, other.ID, teacher.ID, rules.ActionApprove, "")
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = f.svc.DecideApproval(f.ctx, admin.ID, teacher.ID, rules.ActionReapply, "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = f.svc.DecideApproval(f.ctx, admin.ID, student.ID, rules.ActionApprove, "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestChangeRoleToTeacherEntersQueue(t *testing.T) {
	f := newFixture(t)
	student := f.student("")

	p, err := f.svc.ChangeRole(f.ctx, student.ID, models.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalPending, p.ApprovalValue())
	assert.False(t, rules.IsListedTeacher(p))

	_, err = f.svc.ChangeRole(f.ctx, student.ID, "superuser")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestChangeRoleKeepsConcurrentApproval(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	teacher := f.teacher("", models.ApprovalPending)

	f.interleave(func() {
		_, err := f.svc.DecideApproval(f.ctx, admin.ID, teacher.ID, rules.ActionApprove, "")
		require.NoError(t, err)
	})
	p, err := f.svc.ChangeRole(f.ctx, teacher.ID, models.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, p.ApprovalValue())

	stored, err := f.store.GetProfile(f.ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, stored.ApprovalValue())
	assert.True(t, rules.IsListedTeacher(stored))

	audits, err := f.svc.ApprovalHistory(f.ctx, teacher.ID)
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, "approved", audits[0].Action)
}

func TestChangeRoleUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ChangeRole(f.ctx, uuid.New(), models.RoleTeacher)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	teacher := f.teacher("", models.ApprovalApproved)
	f.course(teacher, "Torah", true)

	assert.ErrorIs(t, f.svc.DeleteUser(f.ctx, admin.ID, admin.ID), services.ErrInvalidInput)
	require.NoError(t, f.svc.DeleteUser(f.ctx, admin.ID, teacher.ID))

	_, err := f.svc.Profile(f.ctx, teacher.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	courses, err := f.svc.TeacherCourses(f.ctx, teacher.ID)
	require.NoError(t, err)
	assert.Empty(t, courses)
}
