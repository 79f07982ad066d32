package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the postgres-backed services.Store. Multi-write operations run
// in one transaction and guard state changes with conditional updates.
type GormStore struct {
	db *gorm.DB
}

var _ services.Store = (*GormStore)(nil)

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", services.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", services.ErrConflict, err)
	}
	return err
}

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (s *GormStore) CreateProfile(ctx context.Context, p *models.Profile) error {
	assignID(&p.ID)
	return translate(s.db.WithContext(ctx).Create(p).Error)
}

func (s *GormStore) GetProfile(ctx context.Context, id uuid.UUID) (models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return p, translate(err)
}

func (s *GormStore) GetProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).First(&p, "lower(email) = lower(?)", email).Error
	return p, translate(err)
}

// profileEditable are the columns a user may change on their own profile.
// Role, approval and trial counters have dedicated conditional writes.
var profileEditable = []string{
	"full_name", "gender", "bio", "subjects", "languages", "audiences", "hourly_rate", "updated_at",
}

// UpdateProfile writes only the self-editable columns of p.
func (s *GormStore) UpdateProfile(ctx context.Context, p *models.Profile) error {
	res := s.db.WithContext(ctx).Model(p).Select(profileEditable).Updates(p)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return services.ErrNotFound
	}
	return nil
}

// DeleteProfile removes a user with their courses, sessions, enrollments and
// conversations. Payments and approval audits are kept.
func (s *GormStore) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Profile
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		convs := tx.Model(&models.Conversation{}).Select("id").Where("student_id = ? OR teacher_id = ?", id, id)
		if err := tx.Where("conversation_id IN (?)", convs).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ? OR teacher_id = ?", id, id).Delete(&models.Conversation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ? OR teacher_id = ?", id, id).Delete(&models.CourseSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ? OR teacher_id = ?", id, id).Delete(&models.TrialUsage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		if p.Role == models.RoleTeacher {
			if err := tx.Where("teacher_id = ?", id).Delete(&models.Course{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&p).Error
	})
}

func (s *GormStore) ListProfiles(ctx context.Context, f services.ProfileFilter) ([]models.Profile, error) {
	q := s.db.WithContext(ctx).Model(&models.Profile{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if len(f.ApprovalStatus) > 0 {
		q = q.Where("approval_status IN ?", f.ApprovalStatus)
	}
	if f.Subject != "" {
		q = q.Where("EXISTS (SELECT 1 FROM unnest(subjects) AS s WHERE lower(s) = lower(?))", f.Subject)
	}
	if f.Language != "" {
		q = q.Where("EXISTS (SELECT 1 FROM unnest(languages) AS l WHERE lower(l) = lower(?))", f.Language)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	var out []models.Profile
	err := q.Order("created_at ASC").Find(&out).Error
	return out, translate(err)
}

func (s *GormStore) TransitionApproval(ctx context.Context, t services.ApprovalTransition) (models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"approval_status": t.To,
			"updated_at":      t.At,
		}
		if t.To == models.ApprovalApproved {
			updates["approved_at"] = t.At
			updates["approved_by"] = t.ActorID
		}
		res := tx.Model(&models.Profile{}).
			Where("id = ? AND approval_status = ?", t.TeacherID, t.From).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.First(&p, "id = ?", t.TeacherID).Error; err != nil {
				return translate(err)
			}
			return fmt.Errorf("%w: approval status is now %q", services.ErrConflict, p.ApprovalValue())
		}

		audit := t.Audit
		assignID(&audit.ID)
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}
		return tx.First(&p, "id = ?", t.TeacherID).Error
	})
	return p, translate(err)
}

// ChangeRole sets the role. Promotion to teacher moves a user with no
// approval status into the queue and leaves any existing status untouched.
func (s *GormStore) ChangeRole(ctx context.Context, id uuid.UUID, role string) (models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Profile{}).Where("id = ?", id).
			Updates(map[string]any{"role": role, "updated_at": gorm.Expr("now()")})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return services.ErrNotFound
		}
		if role == models.RoleTeacher {
			err := tx.Model(&models.Profile{}).
				Where("id = ? AND approval_status IS NULL", id).
				Update("approval_status", models.ApprovalPending).Error
			if err != nil {
				return err
			}
		}
		return tx.First(&p, "id = ?", id).Error
	})
	return p, translate(err)
}

func (s *GormStore) ListApprovalAudits(ctx context.Context, teacherID uuid.UUID) ([]models.ApprovalAudit, error) {
	var out []models.ApprovalAudit
	err := s.db.WithContext(ctx).Where("teacher_id = ?", teacherID).Order("created_at ASC").Find(&out).Error
	return out, translate(err)
}

func (s *GormStore) CreateCourse(ctx context.Context, c *models.Course) error {
	assignID(&c.ID)
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error)
}

func (s *GormStore) GetCourse(ctx context.Context, id uuid.UUID) (models.Course, error) {
	var c models.Course
	err := s.db.WithContext(ctx).Preload("Teacher").First(&c, "id = ?", id).Error
	return c, translate(err)
}

func (s *GormStore) UpdateCourse(ctx context.Context, c *models.Course) error {
	res := s.db.WithContext(ctx).Model(c).Select("*").Omit("id", "created_at", clause.Associations).Updates(c)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *GormStore) ListCourses(ctx context.Context, f services.CourseFilter) ([]models.Course, error) {
	q := s.db.WithContext(ctx).Preload("Teacher")
	if f.TeacherID != nil {
		q = q.Where("teacher_id = ?", *f.TeacherID)
	}
	if f.Subject != "" {
		q = q.Where("lower(subject) = lower(?)", f.Subject)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []models.Course
	err := q.Order("created_at ASC").Find(&out).Error
	return out, translate(err)
}
