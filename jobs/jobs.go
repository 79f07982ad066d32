// Package jobs holds the scheduled background work: monthly payment
// generation and session emails.
package jobs

import (
	"context"
	"time"

	"github.com/anjiri1684/torah_tutor/logger"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/anjiri1684/torah_tutor/utils"
	"github.com/robfig/cron/v3"
)

const (
	reminderLead   = 60 * time.Minute
	reminderWindow = 5 * time.Minute
	nudgeDelay     = 5 * time.Minute
	maxSessionLen  = 3 * time.Hour
)

type Jobs struct {
	svc *services.Services
	loc *time.Location
	now func() time.Time
}

func New(svc *services.Services, loc *time.Location) *Jobs {
	if loc == nil {
		loc = time.UTC
	}
	return &Jobs{svc: svc, loc: loc, now: time.Now}
}

// Register schedules every job on c. Payments for the previous month are
// generated shortly after midnight on the 1st.
func (j *Jobs) Register(c *cron.Cron) error {
	schedule := []struct {
		expr string
		job  func()
	}{
		{"10 0 1 * *", j.GenerateLastMonthPayments},
		{"*/5 * * * *", j.SendSessionReminders},
		{"*/5 * * * *", j.NudgeUncompletedSessions},
	}
	for _, s := range schedule {
		if _, err := c.AddFunc(s.expr, s.job); err != nil {
			return err
		}
	}
	return nil
}

func (j *Jobs) GenerateLastMonthPayments() {
	month := utils.PreviousMonth(j.now().In(j.loc))
	log := logger.With("jobs")
	log.Info().Str("month", month).Msg("running job: generate monthly payments")

	summary, err := j.svc.GenerateMonthlyPayments(context.Background(), month)
	if err != nil {
		logger.Report(err, "monthly payment generation failed", map[string]interface{}{"month": month})
		return
	}
	for _, f := range summary.Failed {
		log.Warn().Str("teacher_id", f.TeacherID.String()).Str("error", f.Error).Msg("teacher payment not generated")
	}
}

// SendSessionReminders emails both participants of sessions starting in
// about an hour. The window matches the cron interval so each session is
// reminded once.
func (j *Jobs) SendSessionReminders() {
	ctx := context.Background()
	from := j.now().Add(reminderLead)
	sessions, err := j.svc.UpcomingSessions(ctx, from, from.Add(reminderWindow))
	if err != nil {
		logger.Report(err, "loading upcoming sessions failed", nil)
		return
	}
	for _, s := range sessions {
		if err := j.svc.RemindSession(ctx, s); err != nil {
			logger.With("jobs").Error().Err(err).Str("session_id", s.ID.String()).Msg("session reminder failed")
		}
	}
}

// NudgeUncompletedSessions reminds teachers about sessions that ended in the
// last interval but are still scheduled.
func (j *Jobs) NudgeUncompletedSessions() {
	ctx := context.Background()
	now := j.now()
	upper := now.Add(-nudgeDelay)
	lower := upper.Add(-reminderWindow)

	sessions, err := j.svc.UpcomingSessions(ctx, lower.Add(-maxSessionLen), upper)
	if err != nil {
		logger.Report(err, "loading finished sessions failed", nil)
		return
	}
	for _, s := range sessions {
		end := s.SessionDate.Add(time.Duration(s.DurationMinutes) * time.Minute)
		if end.Before(lower) || !end.Before(upper) {
			continue
		}
		if err := j.svc.NudgeCompletion(ctx, s); err != nil {
			logger.With("jobs").Error().Err(err).Str("session_id", s.ID.String()).Msg("completion nudge failed")
		}
	}
}
