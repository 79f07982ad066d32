package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/google/uuid"
)

type CourseInput struct {
	Title                  string
	Description            string
	Subject                string
	Audience               string
	AgeRange               string
	Price                  int64
	SessionDurationMinutes int
	TotalSessions          int
	MaxStudents            int
	IsTrialAvailable       *bool
}

func validAudience(a string) bool {
	switch a {
	case models.AudienceChildren, models.AudienceWomen, models.AudienceMen,
		models.AudienceGeneral, models.AudienceAdults:
		return true
	}
	return false
}

func (s *Services) CreateCourse(ctx context.Context, teacherID uuid.UUID, in CourseInput) (models.Course, error) {
	teacher, err := s.store.GetProfile(ctx, teacherID)
	if err != nil {
		return models.Course{}, err
	}
	if !rules.IsListedTeacher(teacher) {
		return models.Course{}, ErrTeacherNotListed
	}

	c := models.Course{
		TeacherID:              teacherID,
		Title:                  strings.TrimSpace(in.Title),
		Description:            in.Description,
		Subject:                strings.TrimSpace(in.Subject),
		Audience:               strings.ToLower(strings.TrimSpace(in.Audience)),
		AgeRange:               in.AgeRange,
		Price:                  in.Price,
		SessionDurationMinutes: in.SessionDurationMinutes,
		TotalSessions:          in.TotalSessions,
		MaxStudents:            in.MaxStudents,
		IsTrialAvailable:       true,
		IsActive:               true,
	}
	if c.Audience == "" {
		c.Audience = models.AudienceGeneral
	}
	if c.SessionDurationMinutes == 0 {
		c.SessionDurationMinutes = 60
	}
	if c.TotalSessions == 0 {
		c.TotalSessions = 1
	}
	if c.MaxStudents == 0 {
		c.MaxStudents = 1
	}
	if in.IsTrialAvailable != nil {
		c.IsTrialAvailable = *in.IsTrialAvailable
	}
	if err := validateCourse(c); err != nil {
		return models.Course{}, err
	}

	if err := s.store.CreateCourse(ctx, &c); err != nil {
		return models.Course{}, err
	}
	c.Teacher = &teacher
	return c, nil
}

func validateCourse(c models.Course) error {
	switch {
	case c.Title == "" || c.Subject == "":
		return fmt.Errorf("%w: title and subject are required", ErrInvalidInput)
	case !validAudience(c.Audience):
		return fmt.Errorf("%w: unknown audience %q", ErrInvalidInput, c.Audience)
	case c.Price < 0 || c.SessionDurationMinutes <= 0 || c.TotalSessions <= 0 || c.MaxStudents <= 0:
		return fmt.Errorf("%w: price, duration, sessions and seats must be positive", ErrInvalidInput)
	}
	return nil
}

// CourseUpdate leaves nil fields unchanged.
type CourseUpdate struct {
	Title                  *string
	Description            *string
	Subject                *string
	Audience               *string
	AgeRange               *string
	Price                  *int64
	SessionDurationMinutes *int
	TotalSessions          *int
	MaxStudents            *int
	IsTrialAvailable       *bool
	IsActive               *bool
}

func (s *Services) editableCourse(ctx context.Context, actor models.Profile, courseID uuid.UUID) (models.Course, error) {
	c, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return models.Course{}, err
	}
	if actor.Role != models.RoleAdmin && c.TeacherID != actor.ID {
		return models.Course{}, ErrForbidden
	}
	return c, nil
}

// UpdateCourse is allowed for the owning teacher and for admins.
func (s *Services) UpdateCourse(ctx context.Context, actor models.Profile, courseID uuid.UUID, in CourseUpdate) (models.Course, error) {
	c, err := s.editableCourse(ctx, actor, courseID)
	if err != nil {
		return models.Course{}, err
	}
	if in.Title != nil {
		c.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Subject != nil {
		c.Subject = strings.TrimSpace(*in.Subject)
	}
	if in.Audience != nil {
		c.Audience = strings.ToLower(strings.TrimSpace(*in.Audience))
	}
	if in.AgeRange != nil {
		c.AgeRange = *in.AgeRange
	}
	if in.Price != nil {
		c.Price = *in.Price
	}
	if in.SessionDurationMinutes != nil {
		c.SessionDurationMinutes = *in.SessionDurationMinutes
	}
	if in.TotalSessions != nil {
		c.TotalSessions = *in.TotalSessions
	}
	if in.MaxStudents != nil {
		c.MaxStudents = *in.MaxStudents
	}
	if in.IsTrialAvailable != nil {
		c.IsTrialAvailable = *in.IsTrialAvailable
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if err := validateCourse(c); err != nil {
		return models.Course{}, err
	}
	if err := s.store.UpdateCourse(ctx, &c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

// DeactivateCourse hides a course without deleting its sessions or enrollments.
func (s *Services) DeactivateCourse(ctx context.Context, actor models.Profile, courseID uuid.UUID) error {
	c, err := s.editableCourse(ctx, actor, courseID)
	if err != nil {
		return err
	}
	c.IsActive = false
	return s.store.UpdateCourse(ctx, &c)
}

// GetCourse returns a course as the viewer may see it. Inactive courses and
// courses of unlisted teachers are only visible to their owner and admins.
func (s *Services) GetCourse(ctx context.Context, viewer *models.Profile, courseID uuid.UUID) (models.Course, error) {
	c, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return models.Course{}, err
	}
	if viewer != nil && (viewer.Role == models.RoleAdmin || viewer.ID == c.TeacherID) {
		return c, nil
	}
	if !c.IsActive || c.Teacher == nil || !rules.IsListedTeacher(*c.Teacher) {
		return models.Course{}, ErrNotFound
	}
	if !rules.IsVisible(rules.ViewerOf(viewer), rules.CourseCandidate(c)) {
		return models.Course{}, ErrNotFound
	}
	return c, nil
}

// TeacherCourses lists every course a teacher owns, active or not.
func (s *Services) TeacherCourses(ctx context.Context, teacherID uuid.UUID) ([]models.Course, error) {
	return s.store.ListCourses(ctx, CourseFilter{TeacherID: &teacherID})
}
