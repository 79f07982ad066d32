package database

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *GormStore) CreateSession(ctx context.Context, cs *models.CourseSession) error {
	assignID(&cs.ID)
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(cs).Error)
}

func (s *GormStore) GetSession(ctx context.Context, id uuid.UUID) (models.CourseSession, error) {
	var cs models.CourseSession
	err := s.db.WithContext(ctx).Preload("Course").First(&cs, "id = ?", id).Error
	return cs, translate(err)
}

// updateFrom applies updates only while the session is still in status from.
// A miss on an existing row is ErrConflict.
func (s *GormStore) updateFrom(ctx context.Context, id uuid.UUID, from string, updates map[string]any) (models.CourseSession, error) {
	var cs models.CourseSession
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates["updated_at"] = time.Now()
		res := tx.Model(&models.CourseSession{}).
			Where("id = ? AND status = ?", id, from).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if err := tx.Preload("Course").First(&cs, "id = ?", id).Error; err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: session is %s", services.ErrConflict, cs.Status)
		}
		return nil
	})
	if err != nil {
		return models.CourseSession{}, translate(err)
	}
	return cs, nil
}

func (s *GormStore) TransitionSession(ctx context.Context, id uuid.UUID, from, to string) (models.CourseSession, error) {
	return s.updateFrom(ctx, id, from, map[string]any{"status": to})
}

func (s *GormStore) SetMeetingLink(ctx context.Context, id uuid.UUID, link string) (models.CourseSession, error) {
	return s.updateFrom(ctx, id, models.SessionScheduled, map[string]any{"meeting_link": link})
}

func (s *GormStore) ListSessions(ctx context.Context, f services.SessionFilter) ([]models.CourseSession, error) {
	q := s.db.WithContext(ctx).Preload("Course")
	if f.StudentID != nil {
		q = q.Where("student_id = ?", *f.StudentID)
	}
	if f.TeacherID != nil {
		q = q.Where("teacher_id = ?", *f.TeacherID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("session_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("session_date < ?", *f.To)
	}
	var out []models.CourseSession
	err := q.Order("session_date ASC").Find(&out).Error
	return out, translate(err)
}

func (s *GormStore) TeachingMinutes(ctx context.Context, teacherID uuid.UUID, from, to time.Time) (int, error) {
	var total int
	err := s.db.WithContext(ctx).Model(&models.CourseSession{}).
		Select("COALESCE(SUM(duration_minutes), 0)").
		Where("teacher_id = ? AND status = ? AND session_date >= ? AND session_date < ?",
			teacherID, models.SessionCompleted, from, to).
		Scan(&total).Error
	return total, translate(err)
}
