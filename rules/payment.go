package rules

import (
	"errors"
	"fmt"
	"math"

	"github.com/anjiri1684/torah_tutor/models"
)

// BasisPoints is the whole of a split: 10000 bps == 100%.
const BasisPoints = 10000

var (
	ErrInvalidSplit     = errors.New("invalid payment split")
	ErrInvalidHours     = errors.New("invalid teaching time or rate")
	ErrPaymentProcessed = errors.New("payment already processed")
)

type Split struct {
	TeacherBps int
	AdminBps   int
}

func (s Split) Validate() error {
	if s.TeacherBps < 0 || s.AdminBps < 0 || s.TeacherBps+s.AdminBps != BasisPoints {
		return fmt.Errorf("%w: teacher=%d admin=%d bps", ErrInvalidSplit, s.TeacherBps, s.AdminBps)
	}
	return nil
}

type PaymentBreakdown struct {
	TotalMinutes  int
	TotalHours    float64
	HourlyRate    int64
	GrossAmount   int64
	TeacherAmount int64
	AdminAmount   int64
}

// SplitPayment computes a month's amounts in the smallest currency unit.
// The admin share is derived by subtraction so the two shares always add up
// to the gross amount exactly.
func SplitPayment(totalMinutes int, hourlyRate int64, split Split) (PaymentBreakdown, error) {
	if err := split.Validate(); err != nil {
		return PaymentBreakdown{}, err
	}
	if totalMinutes < 0 || hourlyRate < 0 {
		return PaymentBreakdown{}, fmt.Errorf("%w: minutes=%d rate=%d", ErrInvalidHours, totalMinutes, hourlyRate)
	}

	gross := (int64(totalMinutes)*hourlyRate + 30) / 60
	teacher := (gross*int64(split.TeacherBps) + BasisPoints/2) / BasisPoints

	return PaymentBreakdown{
		TotalMinutes:  totalMinutes,
		TotalHours:    math.Round(float64(totalMinutes)/60*100) / 100,
		HourlyRate:    hourlyRate,
		GrossAmount:   gross,
		TeacherAmount: teacher,
		AdminAmount:   gross - teacher,
	}, nil
}

// CanProcessPayment guards the one-way pending -> processed move.
func CanProcessPayment(p models.MonthlyTeacherPayment) error {
	if p.Status != models.PaymentPending {
		return fmt.Errorf("%w: %s is %s", ErrPaymentProcessed, p.ID, p.Status)
	}
	return nil
}
