package rules

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func eligible() TrialInput {
	return TrialInput{
		CourseActive:     true,
		TeacherListed:    true,
		TrialAvailable:   true,
		TrialLessonsUsed: 1,
		MaxTrialLessons:  2,
	}
}

func TestCanBookTrial(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TrialInput)
		want   Decision
	}{
		{"eligible", func(*TrialInput) {}, Decision{Allowed: true, Reason: ReasonOK}},
		{"sponsored wins over exhausted quota", func(in *TrialInput) {
			in.Sponsored = true
			in.TrialLessonsUsed = 2
		}, Decision{Allowed: true, Reason: ReasonSponsored}},
		{"inactive course", func(in *TrialInput) { in.CourseActive = false }, Decision{Reason: ReasonCourseUnavailable}},
		{"teacher not approved", func(in *TrialInput) { in.TeacherListed = false }, Decision{Reason: ReasonCourseUnavailable}},
		{"no trial on course", func(in *TrialInput) { in.TrialAvailable = false }, Decision{Reason: ReasonTrialNotOffered}},
		{"quota reached", func(in *TrialInput) { in.TrialLessonsUsed = 2 }, Decision{Reason: ReasonQuotaExhausted}},
		{"quota checked before scope", func(in *TrialInput) {
			in.TrialLessonsUsed = 2
			in.UsedForScope = true
		}, Decision{Reason: ReasonQuotaExhausted}},
		{"already used for subject", func(in *TrialInput) { in.UsedForScope = true }, Decision{Reason: ReasonAlreadyUsedForSubject}},
		{"zero cap", func(in *TrialInput) {
			in.TrialLessonsUsed = 0
			in.MaxTrialLessons = 0
		}, Decision{Reason: ReasonQuotaExhausted}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := eligible()
			tt.mutate(&in)
			assert.Equal(t, tt.want, CanBookTrial(in))
		})
	}
}

func TestTrialScopeNormalisesSubject(t *testing.T) {
	s, tch := uuid.New(), uuid.New()
	assert.Equal(t, NewTrialScope(s, tch, "Gemara"), NewTrialScope(s, tch, "  gemara "))
}

func TestTrialSessionDateIsNextDay(t *testing.T) {
	now := time.Date(2026, 10, 16, 22, 30, 0, 0, time.UTC) // Friday night
	assert.Equal(t, time.Date(2026, 10, 17, 22, 30, 0, 0, time.UTC), TrialSessionDate(now))
}
