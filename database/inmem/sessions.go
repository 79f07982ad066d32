package inmem

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/google/uuid"
)

func (db *DB) withCourse(s models.CourseSession) models.CourseSession {
	s.Course = nil
	if c, ok := db.courses[s.CourseID]; ok {
		cc := *c
		s.Course = &cc
	}
	return s
}

func (db *DB) CreateSession(_ context.Context, s *models.CourseSession) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	s.ID = newID(s.ID)
	now := time.Now()
	s.CreatedAt, s.UpdatedAt = now, now
	stored := *s
	stored.Course = nil
	db.sessions[s.ID] = &stored
	return nil
}

func (db *DB) GetSession(_ context.Context, id uuid.UUID) (models.CourseSession, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if s, ok := db.sessions[id]; ok {
		return db.withCourse(*s), nil
	}
	return models.CourseSession{}, services.ErrNotFound
}

func (db *DB) updateFrom(id uuid.UUID, from string, apply func(*models.CourseSession)) (models.CourseSession, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	s, ok := db.sessions[id]
	if !ok {
		return models.CourseSession{}, services.ErrNotFound
	}
	if s.Status != from {
		return models.CourseSession{}, fmt.Errorf("%w: session is %s", services.ErrConflict, s.Status)
	}
	apply(s)
	s.UpdatedAt = time.Now()
	return db.withCourse(*s), nil
}

func (db *DB) TransitionSession(_ context.Context, id uuid.UUID, from, to string) (models.CourseSession, error) {
	return db.updateFrom(id, from, func(s *models.CourseSession) { s.Status = to })
}

func (db *DB) SetMeetingLink(_ context.Context, id uuid.UUID, link string) (models.CourseSession, error) {
	return db.updateFrom(id, models.SessionScheduled, func(s *models.CourseSession) { s.MeetingLink = &link })
}

func (db *DB) ListSessions(_ context.Context, f services.SessionFilter) ([]models.CourseSession, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.CourseSession, 0)
	for _, s := range db.sessions {
		switch {
		case f.StudentID != nil && s.StudentID != *f.StudentID,
			f.TeacherID != nil && s.TeacherID != *f.TeacherID,
			f.Status != "" && s.Status != f.Status,
			f.From != nil && s.SessionDate.Before(*f.From),
			f.To != nil && !s.SessionDate.Before(*f.To):
			continue
		}
		out = append(out, db.withCourse(*s))
	}
	sortByCreated(out, func(s models.CourseSession) int64 { return s.SessionDate.UnixNano() })
	return out, nil
}

func (db *DB) TeachingMinutes(_ context.Context, teacherID uuid.UUID, from, to time.Time) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	total := 0
	for _, s := range db.sessions {
		if s.TeacherID != teacherID || s.Status != models.SessionCompleted {
			continue
		}
		if s.SessionDate.Before(from) || !s.SessionDate.Before(to) {
			continue
		}
		total += s.DurationMinutes
	}
	return total, nil
}
