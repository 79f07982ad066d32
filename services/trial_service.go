package services

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/anjiri1684/torah_tutor/logger"
	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/google/uuid"
)

// TrialResult is the outcome of a booking attempt. A denial is a Decision
// with Allowed false and a nil error; errors are reserved for failures.
type TrialResult struct {
	Decision   rules.Decision        `json:"decision"`
	Session    *models.CourseSession `json:"session,omitempty"`
	Enrollment *models.Enrollment    `json:"enrollment,omitempty"`
}

type trialContext struct {
	student models.Profile
	course  models.Course
	scope   rules.TrialScope
	input   rules.TrialInput
}

func (s *Services) loadTrialContext(ctx context.Context, studentID, courseID uuid.UUID) (trialContext, error) {
	student, err := s.store.GetProfile(ctx, studentID)
	if err != nil {
		return trialContext{}, err
	}
	if student.Role != models.RoleStudent {
		return trialContext{}, fmt.Errorf("%w: only students book trials", ErrForbidden)
	}
	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return trialContext{}, err
	}
	scope := rules.NewTrialScope(studentID, course.TeacherID, course.Subject)
	used, err := s.store.HasTrialUsage(ctx, scope)
	if err != nil {
		return trialContext{}, err
	}
	// A course hidden from the student by the gender filter is unavailable
	// to them, however it was reached.
	visible := rules.IsVisible(rules.ViewerOf(&student), rules.CourseCandidate(course))
	return trialContext{
		student: student,
		course:  course,
		scope:   scope,
		input: rules.TrialInput{
			CourseActive:     course.IsActive && visible,
			TeacherListed:    course.Teacher != nil && rules.IsListedTeacher(*course.Teacher),
			TrialAvailable:   course.IsTrialAvailable,
			TrialLessonsUsed: student.TrialLessonsUsed,
			MaxTrialLessons:  student.MaxTrialLessons,
			UsedForScope:     used,
		},
	}, nil
}

// TrialEligibility previews what BookTrial would decide right now without
// claiming or consuming anything.
func (s *Services) TrialEligibility(ctx context.Context, studentID, courseID uuid.UUID) (rules.Decision, error) {
	tc, err := s.loadTrialContext(ctx, studentID, courseID)
	if err != nil {
		return rules.Decision{}, err
	}
	if tc.input.CourseActive && tc.input.TeacherListed {
		tc.input.Sponsored, err = s.seatAvailable(ctx, studentID, courseID)
		if err != nil {
			return rules.Decision{}, err
		}
	}
	return rules.CanBookTrial(tc.input), nil
}

func (s *Services) seatAvailable(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	if _, err := s.store.GetEnrollment(ctx, studentID, courseID); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	sponsorships, err := s.store.ListSponsorships(ctx, &courseID)
	if err != nil {
		return false, err
	}
	for _, sp := range sponsorships {
		if sp.IsActive && sp.SeatsUsed < sp.SeatsTotal {
			return true, nil
		}
	}
	return false, nil
}

// BookTrial claims a sponsored seat when one is free, otherwise spends one of
// the student's trial lessons on a session with the course's teacher.
func (s *Services) BookTrial(ctx context.Context, studentID, courseID uuid.UUID) (TrialResult, error) {
	tc, err := s.loadTrialContext(ctx, studentID, courseID)
	if err != nil {
		return TrialResult{}, err
	}
	now := s.now()

	if tc.input.CourseActive && tc.input.TeacherListed {
		enrollment, claimed, err := s.store.ClaimSponsoredSeat(ctx, studentID, courseID, now)
		if err != nil {
			return TrialResult{}, err
		}
		if claimed {
			tc.input.Sponsored = true
			logger.Info().
				Str("student_id", studentID.String()).
				Str("course_id", courseID.String()).
				Msg("sponsored seat claimed")
			return TrialResult{Decision: rules.CanBookTrial(tc.input), Enrollment: &enrollment}, nil
		}
	}

	decision := rules.CanBookTrial(tc.input)
	if !decision.Allowed {
		return TrialResult{Decision: decision}, nil
	}

	session, err := s.store.BookTrial(ctx, TrialBooking{
		Scope: tc.scope,
		Session: models.CourseSession{
			CourseID:        courseID,
			StudentID:       studentID,
			TeacherID:       tc.course.TeacherID,
			SessionDate:     rules.TrialSessionDate(now),
			DurationMinutes: tc.course.SessionDurationMinutes,
			SessionType:     models.SessionTrial,
			Status:          models.SessionScheduled,
		},
	})
	switch {
	case errors.Is(err, ErrTrialQuotaExhausted):
		return TrialResult{Decision: rules.Decision{Reason: rules.ReasonQuotaExhausted}}, nil
	case errors.Is(err, ErrTrialScopeUsed):
		return TrialResult{Decision: rules.Decision{Reason: rules.ReasonAlreadyUsedForSubject}}, nil
	case err != nil:
		return TrialResult{}, err
	}

	logger.Info().
		Str("student_id", studentID.String()).
		Str("teacher_id", tc.course.TeacherID.String()).
		Str("subject", tc.scope.Subject).
		Msg("trial booked")

	when := session.SessionDate.In(s.loc).Format("Mon 2 Jan 2006 15:04 MST")
	title := html.EscapeString(tc.course.Title)
	go s.notify.Send(tc.student.FullName, tc.student.Email,
		"Your trial lesson is booked",
		fmt.Sprintf("<p>Your trial lesson for <b>%s</b> is scheduled for %s.</p>", title, when))
	if t := tc.course.Teacher; t != nil {
		go s.notify.Send(t.FullName, t.Email,
			"New trial lesson booked",
			fmt.Sprintf("<p>%s booked a trial lesson for <b>%s</b> on %s.</p>", html.EscapeString(tc.student.FullName), title, when))
	}
	return TrialResult{Decision: decision, Session: &session}, nil
}
