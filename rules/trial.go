package rules

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TrialReason string

const (
	ReasonOK                    TrialReason = "OK"
	ReasonSponsored             TrialReason = "SPONSORED"
	ReasonCourseUnavailable     TrialReason = "COURSE_UNAVAILABLE"
	ReasonTrialNotOffered       TrialReason = "TRIAL_NOT_OFFERED"
	ReasonQuotaExhausted        TrialReason = "QUOTA_EXHAUSTED"
	ReasonAlreadyUsedForSubject TrialReason = "ALREADY_USED_FOR_SUBJECT"
)

// TrialLeadTime is how far ahead a booked trial is placed. No business-day
// calendar is applied.
const TrialLeadTime = 24 * time.Hour

type Decision struct {
	Allowed bool        `json:"allowed"`
	Reason  TrialReason `json:"reason"`
}

type TrialInput struct {
	Sponsored bool

	CourseActive   bool
	TeacherListed  bool
	TrialAvailable bool

	TrialLessonsUsed int
	MaxTrialLessons  int
	UsedForScope     bool
}

// CanBookTrial evaluates the trial rules in precedence order. The first
// matching rule decides.
func CanBookTrial(in TrialInput) Decision {
	switch {
	case in.Sponsored:
		return Decision{Allowed: true, Reason: ReasonSponsored}
	case !in.CourseActive || !in.TeacherListed:
		return Decision{Reason: ReasonCourseUnavailable}
	case !in.TrialAvailable:
		return Decision{Reason: ReasonTrialNotOffered}
	case in.TrialLessonsUsed >= in.MaxTrialLessons:
		return Decision{Reason: ReasonQuotaExhausted}
	case in.UsedForScope:
		return Decision{Reason: ReasonAlreadyUsedForSubject}
	}
	return Decision{Allowed: true, Reason: ReasonOK}
}

// TrialScope is the key a trial is counted against: one trial per student,
// per teacher, per subject.
type TrialScope struct {
	StudentID uuid.UUID
	TeacherID uuid.UUID
	Subject   string
}

func NewTrialScope(studentID, teacherID uuid.UUID, subject string) TrialScope {
	return TrialScope{
		StudentID: studentID,
		TeacherID: teacherID,
		Subject:   strings.ToLower(strings.TrimSpace(subject)),
	}
}

func TrialSessionDate(now time.Time) time.Time {
	return now.Add(TrialLeadTime)
}
