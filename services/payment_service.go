package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/anjiri1684/torah_tutor/logger"
	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/anjiri1684/torah_tutor/utils"
	"github.com/google/uuid"
)

// CurrentSplit returns the newest salary settings, or the configured default
// when none were ever saved.
func (s *Services) CurrentSplit(ctx context.Context) (rules.Split, error) {
	settings, err := s.store.LatestSalarySettings(ctx)
	if errors.Is(err, ErrNotFound) {
		return s.defaultSplit, nil
	}
	if err != nil {
		return rules.Split{}, err
	}
	return rules.Split{TeacherBps: settings.TeacherShareBps, AdminBps: settings.AdminShareBps}, nil
}

// UpdateSalarySettings appends a new settings row. Payments already generated
// keep the split they were generated with.
func (s *Services) UpdateSalarySettings(ctx context.Context, adminID uuid.UUID, split rules.Split) (models.SalarySettings, error) {
	if err := split.Validate(); err != nil {
		return models.SalarySettings{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	settings := models.SalarySettings{
		TeacherShareBps: split.TeacherBps,
		AdminShareBps:   split.AdminBps,
		CreatedBy:       &adminID,
		CreatedAt:       s.now(),
	}
	if err := s.store.CreateSalarySettings(ctx, &settings); err != nil {
		return models.SalarySettings{}, err
	}
	return settings, nil
}

func (s *Services) SalaryHistory(ctx context.Context) ([]models.SalarySettings, error) {
	return s.store.ListSalarySettings(ctx)
}

type GenerationFailure struct {
	TeacherID uuid.UUID `json:"teacher_id"`
	Error     string    `json:"error"`
}

type GenerationSummary struct {
	Month   string              `json:"month"`
	Created int                 `json:"created"`
	Skipped int                 `json:"skipped"`
	Failed  []GenerationFailure `json:"failed"`
}

// GenerateMonthlyPayments creates a pending payment for every approved teacher
// who completed sessions in month ("YYYY-MM"). Teachers who already have a
// payment for the month are skipped, so re-running is safe. One teacher's
// failure does not stop the batch.
func (s *Services) GenerateMonthlyPayments(ctx context.Context, month string) (GenerationSummary, error) {
	from, to, err := utils.MonthWindow(month, s.loc)
	if err != nil {
		return GenerationSummary{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	split, err := s.CurrentSplit(ctx)
	if err != nil {
		return GenerationSummary{}, err
	}
	teachers, err := s.store.ListProfiles(ctx, ProfileFilter{
		Role:           models.RoleTeacher,
		ApprovalStatus: []string{models.ApprovalApproved},
	})
	if err != nil {
		return GenerationSummary{}, err
	}

	summary := GenerationSummary{Month: month, Failed: []GenerationFailure{}}
	for _, t := range teachers {
		created, err := s.generateFor(ctx, t, month, from, to, split)
		switch {
		case err != nil:
			logger.Error().Err(err).Str("teacher_id", t.ID.String()).Str("month", month).Msg("payment generation failed")
			summary.Failed = append(summary.Failed, GenerationFailure{TeacherID: t.ID, Error: err.Error()})
		case created:
			summary.Created++
		default:
			summary.Skipped++
		}
	}

	logger.Info().
		Str("month", month).
		Int("created", summary.Created).
		Int("skipped", summary.Skipped).
		Int("failed", len(summary.Failed)).
		Msg("monthly payments generated")
	return summary, nil
}

func (s *Services) generateFor(ctx context.Context, t models.Profile, month string, from, to time.Time, split rules.Split) (bool, error) {
	existing, err := s.store.ListPayments(ctx, PaymentFilter{TeacherID: &t.ID, Month: month})
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	minutes, err := s.store.TeachingMinutes(ctx, t.ID, from, to)
	if err != nil {
		return false, err
	}
	if minutes == 0 {
		return false, nil
	}
	if t.HourlyRate == nil {
		return false, fmt.Errorf("%w: teacher has no hourly rate", rules.ErrInvalidHours)
	}

	b, err := rules.SplitPayment(minutes, *t.HourlyRate, split)
	if err != nil {
		return false, err
	}
	p := models.MonthlyTeacherPayment{
		TeacherID:       t.ID,
		Month:           month,
		TotalMinutes:    b.TotalMinutes,
		TotalHours:      b.TotalHours,
		HourlyRate:      b.HourlyRate,
		GrossAmount:     b.GrossAmount,
		TeacherShareBps: split.TeacherBps,
		AdminShareBps:   split.AdminBps,
		TeacherAmount:   b.TeacherAmount,
		AdminAmount:     b.AdminAmount,
		Status:          models.PaymentPending,
		CreatedAt:       s.now(),
	}
	if err := s.store.CreatePayment(ctx, &p); err != nil {
		// Another run created it first.
		if errors.Is(err, ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Services) ListPayments(ctx context.Context, f PaymentFilter) ([]models.MonthlyTeacherPayment, error) {
	return s.store.ListPayments(ctx, f)
}

func (s *Services) MyPayments(ctx context.Context, teacherID uuid.UUID) ([]models.MonthlyTeacherPayment, error) {
	return s.store.ListPayments(ctx, PaymentFilter{TeacherID: &teacherID})
}

// ProcessPayment marks a pending payment paid. The stored amounts and split
// are final; nothing is recomputed. The statement is rendered afterwards and
// attached when ready.
func (s *Services) ProcessPayment(ctx context.Context, adminID, paymentID uuid.UUID) (models.MonthlyTeacherPayment, error) {
	p, err := s.store.ProcessPayment(ctx, paymentID, adminID, s.now())
	if err != nil {
		return models.MonthlyTeacherPayment{}, err
	}
	logger.Info().
		Str("payment_id", p.ID.String()).
		Str("teacher_id", p.TeacherID.String()).
		Int64("teacher_amount", p.TeacherAmount).
		Msg("payment processed")

	teacher, err := s.store.GetProfile(ctx, p.TeacherID)
	if err != nil {
		logger.Warn().Err(err).Str("payment_id", p.ID.String()).Msg("teacher lookup after processing failed")
		return p, nil
	}
	go s.afterProcessed(p, teacher)
	return p, nil
}

func (s *Services) afterProcessed(p models.MonthlyTeacherPayment, teacher models.Profile) {
	body := fmt.Sprintf("<h1>Payment Processed</h1><p>Hi %s, your payment of %s for %s has been processed.</p>",
		html.EscapeString(teacher.FullName), formatAmount(p.TeacherAmount), p.Month)

	if s.statements != nil {
		url, err := s.statements.Render(p, teacher)
		if err != nil {
			logger.Error().Err(err).Str("payment_id", p.ID.String()).Msg("statement rendering failed")
		} else if err := s.store.SetStatementURL(context.Background(), p.ID, url); err != nil {
			logger.Error().Err(err).Str("payment_id", p.ID.String()).Msg("saving statement url failed")
		} else {
			body += fmt.Sprintf("<p>Your statement: <a href=\"%s\">download</a></p>", html.EscapeString(url))
		}
	}
	s.notify.Send(teacher.FullName, teacher.Email, "Your monthly payment has been processed", body)
}

// formatAmount renders minor units as a decimal string.
func formatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign, minor = "-", -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
