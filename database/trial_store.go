package database

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *GormStore) HasTrialUsage(ctx context.Context, scope rules.TrialScope) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.TrialUsage{}).
		Where("student_id = ? AND teacher_id = ? AND subject = ?", scope.StudentID, scope.TeacherID, scope.Subject).
		Count(&count).Error
	return count > 0, translate(err)
}

// BookTrial increments the student's counter only while it is below the
// maximum, then records the scoped usage under its unique index. Losing
// either race rolls the whole booking back.
func (s *GormStore) BookTrial(ctx context.Context, b services.TrialBooking) (models.CourseSession, error) {
	session := b.Session
	assignID(&session.ID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Profile{}).
			Where("id = ? AND trial_lessons_used < max_trial_lessons", b.Scope.StudentID).
			UpdateColumn("trial_lessons_used", gorm.Expr("trial_lessons_used + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return services.ErrTrialQuotaExhausted
		}

		if err := tx.Omit(clause.Associations).Create(&session).Error; err != nil {
			return err
		}

		usage := models.TrialUsage{
			ID:        uuid.New(),
			StudentID: b.Scope.StudentID,
			TeacherID: b.Scope.TeacherID,
			Subject:   b.Scope.Subject,
			SessionID: session.ID,
		}
		if err := tx.Create(&usage).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return services.ErrTrialScopeUsed
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.CourseSession{}, translate(err)
	}
	return session, nil
}

func (s *GormStore) CreateSponsorship(ctx context.Context, sp *models.Sponsorship) error {
	assignID(&sp.ID)
	return translate(s.db.WithContext(ctx).Create(sp).Error)
}

func (s *GormStore) ListSponsorships(ctx context.Context, courseID *uuid.UUID) ([]models.Sponsorship, error) {
	q := s.db.WithContext(ctx)
	if courseID != nil {
		q = q.Where("course_id = ?", *courseID)
	}
	var out []models.Sponsorship
	err := q.Order("created_at ASC").Find(&out).Error
	return out, translate(err)
}

var errAlreadyEnrolled = errors.New("already enrolled")

func (s *GormStore) ClaimSponsoredSeat(ctx context.Context, studentID, courseID uuid.UUID, at time.Time) (models.Enrollment, bool, error) {
	var enrollment models.Enrollment
	claimed := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Enrollment{}).
			Where("student_id = ? AND course_id = ?", studentID, courseID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		var seat models.Sponsorship
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("course_id = ? AND is_active = ? AND seats_used < seats_total", courseID, true).
			Order("created_at ASC").
			First(&seat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		res := tx.Model(&models.Sponsorship{}).
			Where("id = ? AND seats_used < seats_total", seat.ID).
			UpdateColumn("seats_used", gorm.Expr("seats_used + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		enrollment = models.Enrollment{
			ID:            uuid.New(),
			StudentID:     studentID,
			CourseID:      courseID,
			Source:        models.EnrollmentSponsored,
			SponsorshipID: &seat.ID,
			CreatedAt:     at,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyEnrolled
			}
			return err
		}
		claimed = true
		return nil
	})
	if errors.Is(err, errAlreadyEnrolled) {
		return models.Enrollment{}, false, nil
	}
	if err != nil {
		return models.Enrollment{}, false, translate(err)
	}
	return enrollment, claimed, nil
}

func (s *GormStore) GetEnrollment(ctx context.Context, studentID, courseID uuid.UUID) (models.Enrollment, error) {
	var e models.Enrollment
	err := s.db.WithContext(ctx).First(&e, "student_id = ? AND course_id = ?", studentID, courseID).Error
	return e, translate(err)
}

func (s *GormStore) CreateEnrollment(ctx context.Context, e *models.Enrollment) error {
	assignID(&e.ID)
	return translate(s.db.WithContext(ctx).Create(e).Error)
}

func (s *GormStore) ListEnrollments(ctx context.Context, studentID uuid.UUID) ([]models.Enrollment, error) {
	var out []models.Enrollment
	err := s.db.WithContext(ctx).Where("student_id = ?", studentID).Order("created_at ASC").Find(&out).Error
	return out, translate(err)
}
