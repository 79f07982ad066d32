package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/google/uuid"
)

type SponsorshipInput struct {
	CourseID  uuid.UUID
	DonorName string
	Amount    int64
	Seats     int
}

// CreateSponsorship records a donation that funds seats on one course.
// Seats are claimed by students through BookTrial.
func (s *Services) CreateSponsorship(ctx context.Context, adminID uuid.UUID, in SponsorshipInput) (models.Sponsorship, error) {
	if in.Seats <= 0 || in.Amount < 0 || strings.TrimSpace(in.DonorName) == "" {
		return models.Sponsorship{}, fmt.Errorf("%w: donor, seats and amount are required", ErrInvalidInput)
	}
	if _, err := s.store.GetCourse(ctx, in.CourseID); err != nil {
		return models.Sponsorship{}, err
	}
	sp := models.Sponsorship{
		CourseID:   in.CourseID,
		DonorName:  strings.TrimSpace(in.DonorName),
		Amount:     in.Amount,
		SeatsTotal: in.Seats,
		IsActive:   true,
		CreatedBy:  adminID,
		CreatedAt:  s.now(),
	}
	if err := s.store.CreateSponsorship(ctx, &sp); err != nil {
		return models.Sponsorship{}, err
	}
	return sp, nil
}

func (s *Services) ListSponsorships(ctx context.Context, courseID *uuid.UUID) ([]models.Sponsorship, error) {
	return s.store.ListSponsorships(ctx, courseID)
}

func (s *Services) MyEnrollments(ctx context.Context, studentID uuid.UUID) ([]models.Enrollment, error) {
	return s.store.ListEnrollments(ctx, studentID)
}

// EnrollStudent adds a direct enrollment, typically after a trial converts.
// Only the owning teacher or an admin may enroll.
func (s *Services) EnrollStudent(ctx context.Context, actor models.Profile, courseID, studentID uuid.UUID) (models.Enrollment, error) {
	course, err := s.editableCourse(ctx, actor, courseID)
	if err != nil {
		return models.Enrollment{}, err
	}
	student, err := s.store.GetProfile(ctx, studentID)
	if err != nil {
		return models.Enrollment{}, err
	}
	if student.Role != models.RoleStudent {
		return models.Enrollment{}, fmt.Errorf("%w: %s is not a student", ErrInvalidInput, studentID)
	}
	e := models.Enrollment{
		StudentID: studentID,
		CourseID:  course.ID,
		Source:    models.EnrollmentDirect,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateEnrollment(ctx, &e); err != nil {
		return models.Enrollment{}, err
	}
	return e, nil
}
