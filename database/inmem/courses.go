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

// withTeacher mirrors gorm's Preload("Teacher"). Caller holds the lock.
func (db *DB) withTeacher(c models.Course) models.Course {
	c.Teacher = nil
	if t, ok := db.profiles[c.TeacherID]; ok {
		tp := cloneProfile(*t)
		c.Teacher = &tp
	}
	return c
}

func (db *DB) CreateCourse(_ context.Context, c *models.Course) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.profiles[c.TeacherID]; !ok {
		return fmt.Errorf("%w: teacher %s", services.ErrNotFound, c.TeacherID)
	}
	c.ID = newID(c.ID)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
		c.UpdatedAt = c.CreatedAt
	}
	stored := *c
	stored.Teacher = nil
	db.courses[c.ID] = &stored
	return nil
}

func (db *DB) GetCourse(_ context.Context, id uuid.UUID) (models.Course, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if c, ok := db.courses[id]; ok {
		return db.withTeacher(*c), nil
	}
	return models.Course{}, services.ErrNotFound
}

func (db *DB) UpdateCourse(_ context.Context, c *models.Course) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.courses[c.ID]; !ok {
		return services.ErrNotFound
	}
	stored := *c
	stored.Teacher = nil
	stored.UpdatedAt = time.Now()
	db.courses[c.ID] = &stored
	return nil
}

func (db *DB) ListCourses(_ context.Context, f services.CourseFilter) ([]models.Course, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.Course, 0)
	for _, c := range db.courses {
		if f.TeacherID != nil && c.TeacherID != *f.TeacherID {
			continue
		}
		if f.Subject != "" && !containsFold([]string{c.Subject}, f.Subject) {
			continue
		}
		if f.ActiveOnly && !c.IsActive {
			continue
		}
		out = append(out, db.withTeacher(*c))
	}
	sortByCreated(out, func(c models.Course) int64 { return c.CreatedAt.UnixNano() })
	return out, nil
}

func (db *DB) HasTrialUsage(_ context.Context, scope rules.TrialScope) (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	_, ok := db.trialUsage[trialKey{scope.StudentID, scope.TeacherID, scope.Subject}]
	return ok, nil
}

func (db *DB) BookTrial(_ context.Context, b services.TrialBooking) (models.CourseSession, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	student, ok := db.profiles[b.Scope.StudentID]
	if !ok {
		return models.CourseSession{}, services.ErrNotFound
	}
	if student.TrialLessonsUsed >= student.MaxTrialLessons {
		return models.CourseSession{}, services.ErrTrialQuotaExhausted
	}
	key := trialKey{b.Scope.StudentID, b.Scope.TeacherID, b.Scope.Subject}
	if _, used := db.trialUsage[key]; used {
		return models.CourseSession{}, services.ErrTrialScopeUsed
	}

	now := time.Now()
	session := b.Session
	session.ID = newID(session.ID)
	session.CreatedAt, session.UpdatedAt = now, now
	db.sessions[session.ID] = &session

	student.TrialLessonsUsed++
	db.trialUsage[key] = models.TrialUsage{
		ID:        uuid.New(),
		StudentID: key.student,
		TeacherID: key.teacher,
		Subject:   key.subject,
		SessionID: session.ID,
		CreatedAt: now,
	}
	return session, nil
}

func (db *DB) CreateSponsorship(_ context.Context, s *models.Sponsorship) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	s.ID = newID(s.ID)
	stored := *s
	db.sponsorships[s.ID] = &stored
	return nil
}

func (db *DB) ListSponsorships(_ context.Context, courseID *uuid.UUID) ([]models.Sponsorship, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.Sponsorship, 0)
	for _, s := range db.sponsorships {
		if courseID == nil || s.CourseID == *courseID {
			out = append(out, *s)
		}
	}
	sortByCreated(out, func(s models.Sponsorship) int64 { return s.CreatedAt.UnixNano() })
	return out, nil
}

func (db *DB) ClaimSponsoredSeat(_ context.Context, studentID, courseID uuid.UUID, at time.Time) (models.Enrollment, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := enrollmentKey{studentID, courseID}
	if _, enrolled := db.enrollments[key]; enrolled {
		return models.Enrollment{}, false, nil
	}

	var seat *models.Sponsorship
	for _, s := range db.sponsorships {
		if s.CourseID != courseID || !s.IsActive || s.SeatsUsed >= s.SeatsTotal {
			continue
		}
		if seat == nil || s.CreatedAt.Before(seat.CreatedAt) {
			seat = s
		}
	}
	if seat == nil {
		return models.Enrollment{}, false, nil
	}

	seat.SeatsUsed++
	sid := seat.ID
	e := models.Enrollment{
		ID:            uuid.New(),
		StudentID:     studentID,
		CourseID:      courseID,
		Source:        models.EnrollmentSponsored,
		SponsorshipID: &sid,
		CreatedAt:     at,
	}
	db.enrollments[key] = e
	return e, true, nil
}

func (db *DB) GetEnrollment(_ context.Context, studentID, courseID uuid.UUID) (models.Enrollment, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if e, ok := db.enrollments[enrollmentKey{studentID, courseID}]; ok {
		return e, nil
	}
	return models.Enrollment{}, services.ErrNotFound
}

func (db *DB) CreateEnrollment(_ context.Context, e *models.Enrollment) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := enrollmentKey{e.StudentID, e.CourseID}
	if _, ok := db.enrollments[key]; ok {
		return fmt.Errorf("%w: already enrolled", services.ErrConflict)
	}
	e.ID = newID(e.ID)
	db.enrollments[key] = *e
	return nil
}

func (db *DB) ListEnrollments(_ context.Context, studentID uuid.UUID) ([]models.Enrollment, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.Enrollment, 0)
	for _, e := range db.enrollments {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	sortByCreated(out, func(e models.Enrollment) int64 { return e.CreatedAt.UnixNano() })
	return out, nil
}
