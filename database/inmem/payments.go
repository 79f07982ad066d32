package inmem

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/google/uuid"
)

func (db *DB) CreateSalarySettings(_ context.Context, s *models.SalarySettings) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	s.ID = newID(s.ID)
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	db.salary = append(db.salary, *s)
	return nil
}

// LatestSalarySettings returns the most recently appended row.
func (db *DB) LatestSalarySettings(_ context.Context) (models.SalarySettings, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if len(db.salary) == 0 {
		return models.SalarySettings{}, services.ErrNotFound
	}
	return db.salary[len(db.salary)-1], nil
}

func (db *DB) ListSalarySettings(_ context.Context) ([]models.SalarySettings, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.SalarySettings, 0, len(db.salary))
	for i := len(db.salary) - 1; i >= 0; i-- {
		out = append(out, db.salary[i])
	}
	return out, nil
}

func (db *DB) CreatePayment(_ context.Context, p *models.MonthlyTeacherPayment) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.payments {
		if existing.TeacherID == p.TeacherID && existing.Month == p.Month {
			return fmt.Errorf("%w: payment for %s already exists", services.ErrConflict, p.Month)
		}
	}
	p.ID = newID(p.ID)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	stored := *p
	stored.Teacher = nil
	db.payments[p.ID] = &stored
	return nil
}

func (db *DB) withPaymentTeacher(p models.MonthlyTeacherPayment) models.MonthlyTeacherPayment {
	p.Teacher = nil
	if t, ok := db.profiles[p.TeacherID]; ok {
		tp := cloneProfile(*t)
		p.Teacher = &tp
	}
	return p
}

func (db *DB) GetPayment(_ context.Context, id uuid.UUID) (models.MonthlyTeacherPayment, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if p, ok := db.payments[id]; ok {
		return db.withPaymentTeacher(*p), nil
	}
	return models.MonthlyTeacherPayment{}, services.ErrNotFound
}

func (db *DB) ListPayments(_ context.Context, f services.PaymentFilter) ([]models.MonthlyTeacherPayment, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.MonthlyTeacherPayment, 0)
	for _, p := range db.payments {
		switch {
		case f.TeacherID != nil && p.TeacherID != *f.TeacherID,
			f.Month != "" && p.Month != f.Month,
			f.Status != "" && p.Status != f.Status:
			continue
		}
		out = append(out, db.withPaymentTeacher(*p))
	}
	sortByCreated(out, func(p models.MonthlyTeacherPayment) int64 { return -p.CreatedAt.UnixNano() })
	return out, nil
}

func (db *DB) ProcessPayment(_ context.Context, id, adminID uuid.UUID, at time.Time) (models.MonthlyTeacherPayment, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.payments[id]
	if !ok {
		return models.MonthlyTeacherPayment{}, services.ErrNotFound
	}
	if err := rules.CanProcessPayment(*p); err != nil {
		return models.MonthlyTeacherPayment{}, err
	}
	p.Status = models.PaymentProcessed
	p.ProcessedBy = &adminID
	p.ProcessedAt = &at
	return db.withPaymentTeacher(*p), nil
}

func (db *DB) SetStatementURL(_ context.Context, id uuid.UUID, url string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.payments[id]
	if !ok {
		return services.ErrNotFound
	}
	p.StatementURL = &url
	return nil
}
