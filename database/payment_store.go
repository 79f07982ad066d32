package database

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *GormStore) CreateSalarySettings(ctx context.Context, st *models.SalarySettings) error {
	assignID(&st.ID)
	return translate(s.db.WithContext(ctx).Create(st).Error)
}

func (s *GormStore) LatestSalarySettings(ctx context.Context) (models.SalarySettings, error) {
	var st models.SalarySettings
	err := s.db.WithContext(ctx).Order("created_at DESC").First(&st).Error
	return st, translate(err)
}

func (s *GormStore) ListSalarySettings(ctx context.Context) ([]models.SalarySettings, error) {
	var out []models.SalarySettings
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, translate(err)
}

func (s *GormStore) CreatePayment(ctx context.Context, p *models.MonthlyTeacherPayment) error {
	assignID(&p.ID)
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error)
}

func (s *GormStore) GetPayment(ctx context.Context, id uuid.UUID) (models.MonthlyTeacherPayment, error) {
	var p models.MonthlyTeacherPayment
	err := s.db.WithContext(ctx).Preload("Teacher").First(&p, "id = ?", id).Error
	return p, translate(err)
}

func (s *GormStore) ListPayments(ctx context.Context, f services.PaymentFilter) ([]models.MonthlyTeacherPayment, error) {
	q := s.db.WithContext(ctx).Preload("Teacher")
	if f.TeacherID != nil {
		q = q.Where("teacher_id = ?", *f.TeacherID)
	}
	if f.Month != "" {
		q = q.Where("month = ?", f.Month)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []models.MonthlyTeacherPayment
	err := q.Order("created_at DESC").Find(&out).Error
	return out, translate(err)
}

func (s *GormStore) ProcessPayment(ctx context.Context, id, adminID uuid.UUID, at time.Time) (models.MonthlyTeacherPayment, error) {
	var p models.MonthlyTeacherPayment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.MonthlyTeacherPayment{}).
			Where("id = ? AND status = ?", id, models.PaymentPending).
			Updates(map[string]any{
				"status":       models.PaymentProcessed,
				"processed_by": adminID,
				"processed_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if err := tx.Preload("Teacher").First(&p, "id = ?", id).Error; err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			if err := rules.CanProcessPayment(p); err != nil {
				return err
			}
			return fmt.Errorf("%w: payment %s changed concurrently", services.ErrConflict, id)
		}
		return nil
	})
	return p, translate(err)
}

func (s *GormStore) SetStatementURL(ctx context.Context, id uuid.UUID, url string) error {
	res := s.db.WithContext(ctx).Model(&models.MonthlyTeacherPayment{}).Where("id = ?", id).Update("statement_url", url)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: payment %s", services.ErrNotFound, id)
	}
	return nil
}
