package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/google/uuid"
)

type ScheduleInput struct {
	CourseID    uuid.UUID
	StudentID   uuid.UUID
	SessionDate time.Time
	MeetingLink string
}

// ScheduleSession books a regular session. The teacher must be listed and own
// the course; the student must be enrolled in it.
func (s *Services) ScheduleSession(ctx context.Context, teacherID uuid.UUID, in ScheduleInput) (models.CourseSession, error) {
	teacher, err := s.store.GetProfile(ctx, teacherID)
	if err != nil {
		return models.CourseSession{}, err
	}
	if !rules.IsListedTeacher(teacher) {
		return models.CourseSession{}, ErrTeacherNotListed
	}
	course, err := s.store.GetCourse(ctx, in.CourseID)
	if err != nil {
		return models.CourseSession{}, err
	}
	if course.TeacherID != teacherID {
		return models.CourseSession{}, ErrForbidden
	}
	if !course.IsActive {
		return models.CourseSession{}, fmt.Errorf("%w: course is inactive", ErrInvalidInput)
	}
	if !in.SessionDate.After(s.now()) {
		return models.CourseSession{}, fmt.Errorf("%w: session date must be in the future", ErrInvalidInput)
	}
	if _, err := s.store.GetEnrollment(ctx, in.StudentID, in.CourseID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.CourseSession{}, ErrNotEnrolled
		}
		return models.CourseSession{}, err
	}

	session := models.CourseSession{
		CourseID:        course.ID,
		StudentID:       in.StudentID,
		TeacherID:       teacherID,
		SessionDate:     in.SessionDate,
		DurationMinutes: course.SessionDurationMinutes,
		SessionType:     models.SessionRegular,
		Status:          models.SessionScheduled,
	}
	if in.MeetingLink != "" {
		link := in.MeetingLink
		session.MeetingLink = &link
	}
	if err := s.store.CreateSession(ctx, &session); err != nil {
		return models.CourseSession{}, err
	}
	return session, nil
}

func (s *Services) teacherSession(ctx context.Context, teacherID, sessionID uuid.UUID) (models.CourseSession, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return models.CourseSession{}, err
	}
	if session.TeacherID != teacherID {
		return models.CourseSession{}, ErrForbidden
	}
	if session.Status != models.SessionScheduled {
		return models.CourseSession{}, fmt.Errorf("%w: session is %s", ErrConflict, session.Status)
	}
	return session, nil
}

func (s *Services) SetMeetingLink(ctx context.Context, teacherID, sessionID uuid.UUID, link string) (models.CourseSession, error) {
	if _, err := s.teacherSession(ctx, teacherID, sessionID); err != nil {
		return models.CourseSession{}, err
	}
	session, err := s.store.SetMeetingLink(ctx, sessionID, link)
	if err != nil {
		return models.CourseSession{}, err
	}
	if student, err := s.store.GetProfile(ctx, session.StudentID); err == nil {
		href := html.EscapeString(link)
		go s.notify.Send(student.FullName, student.Email,
			"Your lesson link is ready",
			fmt.Sprintf("<p>Join your lesson here: <a href=\"%s\">%s</a></p>", href, href))
	}
	return session, nil
}

// CompleteSession marks a session taught. Only completed sessions count
// towards the teacher's monthly payment.
func (s *Services) CompleteSession(ctx context.Context, teacherID, sessionID uuid.UUID) (models.CourseSession, error) {
	if _, err := s.teacherSession(ctx, teacherID, sessionID); err != nil {
		return models.CourseSession{}, err
	}
	return s.store.TransitionSession(ctx, sessionID, models.SessionScheduled, models.SessionCompleted)
}

// CancelSession may be called by either participant. A cancelled trial does
// not give the trial lesson back.
func (s *Services) CancelSession(ctx context.Context, userID, sessionID uuid.UUID) (models.CourseSession, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return models.CourseSession{}, err
	}
	if session.TeacherID != userID && session.StudentID != userID {
		return models.CourseSession{}, ErrForbidden
	}
	return s.store.TransitionSession(ctx, sessionID, models.SessionScheduled, models.SessionCancelled)
}

// MySessions lists sessions where the user is the student or the teacher,
// depending on role.
func (s *Services) MySessions(ctx context.Context, user models.Profile, status string) ([]models.CourseSession, error) {
	f := SessionFilter{Status: status}
	if user.Role == models.RoleTeacher {
		f.TeacherID = &user.ID
	} else {
		f.StudentID = &user.ID
	}
	return s.store.ListSessions(ctx, f)
}

// UpcomingSessions lists scheduled sessions starting in [from, to), used by
// the reminder job.
func (s *Services) UpcomingSessions(ctx context.Context, from, to time.Time) ([]models.CourseSession, error) {
	return s.store.ListSessions(ctx, SessionFilter{Status: models.SessionScheduled, From: &from, To: &to})
}

// RemindSession emails both participants about an upcoming session.
func (s *Services) RemindSession(ctx context.Context, session models.CourseSession) error {
	when := session.SessionDate.In(s.loc).Format("Mon 2 Jan 2006 15:04 MST")
	for _, id := range []uuid.UUID{session.StudentID, session.TeacherID} {
		p, err := s.store.GetProfile(ctx, id)
		if err != nil {
			return err
		}
		body := fmt.Sprintf("<h1>Lesson Reminder</h1><p>Hi %s, you have a lesson on %s.</p>", html.EscapeString(p.FullName), when)
		if session.MeetingLink != nil {
			href := html.EscapeString(*session.MeetingLink)
			body += fmt.Sprintf("<p>Join here: <a href=\"%s\">%s</a></p>", href, href)
		}
		s.notify.Send(p.FullName, p.Email, "Upcoming lesson reminder", body)
	}
	return nil
}

// NudgeCompletion asks the teacher to mark a finished session complete so it
// counts towards their monthly payment.
func (s *Services) NudgeCompletion(ctx context.Context, session models.CourseSession) error {
	teacher, err := s.store.GetProfile(ctx, session.TeacherID)
	if err != nil {
		return err
	}
	title := "your lesson"
	if session.Course != nil {
		title = session.Course.Title
	}
	s.notify.Send(teacher.FullName, teacher.Email,
		"Please mark your lesson as completed",
		fmt.Sprintf("<p>Hi %s, %s on %s has ended. Mark it completed so it is included in this month's payment.</p>",
			html.EscapeString(teacher.FullName), html.EscapeString(title), session.SessionDate.In(s.loc).Format("Mon 2 Jan 15:04")))
	return nil
}
