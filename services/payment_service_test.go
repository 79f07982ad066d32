package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/torah_tutor/database/inmem"
	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) completedHours(teacher models.Profile, month time.Time, hours int) {
	f.t.Helper()
	course := f.course(teacher, "Torah", true)
	for i := 0; i < hours; i++ {
		s := models.CourseSession{
			CourseID:        course.ID,
			StudentID:       uuid.New(),
			TeacherID:       teacher.ID,
			SessionDate:     month.AddDate(0, 0, i),
			DurationMinutes: 60,
			SessionType:     models.SessionRegular,
			Status:          models.SessionCompleted,
		}
		require.NoError(f.t, f.store.CreateSession(f.ctx, &s))
	}
}

var september = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func TestGenerateMonthlyPayments(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher("", models.ApprovalApproved)
	f.completedHours(teacher, september, 10)
	idle := f.teacher("", models.ApprovalApproved)
	f.completedHours(f.teacher("", models.ApprovalPending), september, 3)

	noRate := f.teacher("", models.ApprovalApproved)
	noRate.HourlyRate = nil
	require.NoError(t, f.store.UpdateProfile(f.ctx, &noRate))
	f.completedHours(noRate, september, 2)

	summary, err := f.svc.GenerateMonthlyPayments(f.ctx, "2026-09")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Skipped, "idle teacher")
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, noRate.ID, summary.Failed[0].TeacherID)

	payments, err := f.svc.MyPayments(f.ctx, teacher.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	p := payments[0]
	assert.Equal(t, "2026-09", p.Month)
	assert.Equal(t, 600, p.TotalMinutes)
	assert.Equal(t, 10.0, p.TotalHours)
	assert.Equal(t, int64(20000), p.GrossAmount)
	assert.Equal(t, int64(14000), p.TeacherAmount)
	assert.Equal(t, int64(6000), p.AdminAmount)
	assert.Equal(t, 7000, p.TeacherShareBps)
	assert.Equal(t, models.PaymentPending, p.Status)

	none, err := f.svc.MyPayments(f.ctx, idle.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	again, err := f.svc.GenerateMonthlyPayments(f.ctx, "2026-09")
	require.NoError(t, err)
	assert.Zero(t, again.Created)
	assert.Equal(t, 2, again.Skipped)
}

func TestGenerateRejectsBadMonth(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GenerateMonthlyPayments(f.ctx, "2026/09")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestSettingsChangeDoesNotTouchGeneratedPayments(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	teacher := f.teacher("", models.ApprovalApproved)
	f.completedHours(teacher, september, 3)

	_, err := f.svc.UpdateSalarySettings(f.ctx, admin.ID, rules.Split{TeacherBps: 6667, AdminBps: 3333})
	require.NoError(t, err)
	_, err = f.svc.GenerateMonthlyPayments(f.ctx, "2026-09")
	require.NoError(t, err)

	_, err = f.svc.UpdateSalarySettings(f.ctx, admin.ID, rules.Split{TeacherBps: 9000, AdminBps: 1000})
	require.NoError(t, err)
	_, err = f.svc.UpdateSalarySettings(f.ctx, admin.ID, rules.Split{TeacherBps: 9000, AdminBps: 500})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	payments, err := f.svc.MyPayments(f.ctx, teacher.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	p := payments[0]
	assert.Equal(t, 6667, p.TeacherShareBps)
	assert.Equal(t, 3333, p.AdminShareBps)
	assert.Equal(t, p.GrossAmount, p.TeacherAmount+p.AdminAmount)

	split, err := f.svc.CurrentSplit(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, rules.Split{TeacherBps: 9000, AdminBps: 1000}, split)

	history, err := f.svc.SalaryHistory(f.ctx)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

type fakeStatements struct {
	mu       sync.Mutex
	rendered []uuid.UUID
	err      error
}

func (s *fakeStatements) Render(p models.MonthlyTeacherPayment, _ models.Profile) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.rendered = append(s.rendered, p.ID)
	return "https://statements.example.com/" + p.ID.String() + ".pdf", nil
}

func TestProcessPaymentOnce(t *testing.T) {
	store := inmem.New()
	statements := &fakeStatements{}
	svc := services.New(store, services.Config{Statements: statements, Now: func() time.Time { return testNow }})
	f := &fixture{t: t, ctx: context.Background(), store: store, svc: svc, events: &recordingPublisher{}}

	admin := f.admin()
	teacher := f.teacher("", models.ApprovalApproved)
	f.completedHours(teacher, september, 4)
	_, err := svc.GenerateMonthlyPayments(f.ctx, "2026-09")
	require.NoError(t, err)
	pending, err := svc.ListPayments(f.ctx, services.PaymentFilter{Status: models.PaymentPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	id := pending[0].ID

	p, err := svc.ProcessPayment(f.ctx, admin.ID, id)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentProcessed, p.Status)
	require.NotNil(t, p.ProcessedBy)
	assert.Equal(t, admin.ID, *p.ProcessedBy)
	assert.Equal(t, pending[0].TeacherAmount, p.TeacherAmount)

	_, err = svc.ProcessPayment(f.ctx, admin.ID, id)
	assert.ErrorIs(t, err, services.ErrAlreadyProcessed)

	_, err = svc.ProcessPayment(f.ctx, admin.ID, uuid.New())
	assert.ErrorIs(t, err, services.ErrNotFound)

	assert.Eventually(t, func() bool {
		got, err := store.GetPayment(f.ctx, id)
		return err == nil && got.StatementURL != nil
	}, time.Second, 10*time.Millisecond)
}

func TestProcessPaymentSurvivesStatementFailure(t *testing.T) {
	store := inmem.New()
	statements := &fakeStatements{err: errors.New("chrome not installed")}
	svc := services.New(store, services.Config{Statements: statements, Now: func() time.Time { return testNow }})
	f := &fixture{t: t, ctx: context.Background(), store: store, svc: svc, events: &recordingPublisher{}}

	admin := f.admin()
	teacher := f.teacher("", models.ApprovalApproved)
	f.completedHours(teacher, september, 1)
	_, err := svc.GenerateMonthlyPayments(f.ctx, "2026-09")
	require.NoError(t, err)
	payments, err := svc.MyPayments(f.ctx, teacher.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)

	p, err := svc.ProcessPayment(f.ctx, admin.ID, payments[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentProcessed, p.Status)
}
