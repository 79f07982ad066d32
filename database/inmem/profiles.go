package inmem

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

func cloneProfile(p models.Profile) models.Profile {
	p.Subjects = append(pq.StringArray(nil), p.Subjects...)
	p.Languages = append(pq.StringArray(nil), p.Languages...)
	p.Audiences = append(pq.StringArray(nil), p.Audiences...)
	return p
}

func (db *DB) CreateProfile(_ context.Context, p *models.Profile) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.profiles {
		if strings.EqualFold(existing.Email, p.Email) {
			return fmt.Errorf("%w: email %s already registered", services.ErrConflict, p.Email)
		}
	}
	p.ID = newID(p.ID)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
		p.UpdatedAt = p.CreatedAt
	}
	if p.MaxTrialLessons == 0 {
		p.MaxTrialLessons = models.DefaultMaxTrialLessons
	}
	stored := cloneProfile(*p)
	db.profiles[p.ID] = &stored
	return nil
}

func (db *DB) GetProfile(_ context.Context, id uuid.UUID) (models.Profile, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if p, ok := db.profiles[id]; ok {
		return cloneProfile(*p), nil
	}
	return models.Profile{}, services.ErrNotFound
}

func (db *DB) GetProfileByEmail(_ context.Context, email string) (models.Profile, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, p := range db.profiles {
		if strings.EqualFold(p.Email, email) {
			return cloneProfile(*p), nil
		}
	}
	return models.Profile{}, services.ErrNotFound
}

func (db *DB) UpdateProfile(_ context.Context, p *models.Profile) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored, ok := db.profiles[p.ID]
	if !ok {
		return services.ErrNotFound
	}
	in := cloneProfile(*p)
	stored.FullName = in.FullName
	stored.Gender = in.Gender
	stored.Bio = in.Bio
	stored.Subjects = in.Subjects
	stored.Languages = in.Languages
	stored.Audiences = in.Audiences
	stored.HourlyRate = in.HourlyRate
	stored.UpdatedAt = time.Now()
	return nil
}

func (db *DB) ChangeRole(_ context.Context, id uuid.UUID, role string) (models.Profile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.profiles[id]
	if !ok {
		return models.Profile{}, services.ErrNotFound
	}
	p.Role = role
	if role == models.RoleTeacher && p.ApprovalStatus == nil {
		pending := models.ApprovalPending
		p.ApprovalStatus = &pending
	}
	p.UpdatedAt = time.Now()
	return cloneProfile(*p), nil
}

func (db *DB) DeleteProfile(_ context.Context, id uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.profiles[id]
	if !ok {
		return services.ErrNotFound
	}
	for cid, c := range db.conversations {
		if !c.HasParticipant(id) {
			continue
		}
		for mid, m := range db.messages {
			if m.ConversationID == cid {
				delete(db.messages, mid)
			}
		}
		delete(db.conversations, cid)
	}
	for sid, s := range db.sessions {
		if s.StudentID == id || s.TeacherID == id {
			delete(db.sessions, sid)
		}
	}
	for k := range db.trialUsage {
		if k.student == id || k.teacher == id {
			delete(db.trialUsage, k)
		}
	}
	for k := range db.enrollments {
		if k.student == id {
			delete(db.enrollments, k)
		}
	}
	if p.Role == models.RoleTeacher {
		for cid, c := range db.courses {
			if c.TeacherID == id {
				delete(db.courses, cid)
			}
		}
	}
	delete(db.profiles, id)
	return nil
}

func (db *DB) ListProfiles(_ context.Context, f services.ProfileFilter) ([]models.Profile, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.Profile, 0)
	for _, p := range db.profiles {
		if f.Role != "" && p.Role != f.Role {
			continue
		}
		if len(f.ApprovalStatus) > 0 && !containsFold(f.ApprovalStatus, p.ApprovalValue()) {
			continue
		}
		if f.Subject != "" && !containsFold(p.Subjects, f.Subject) {
			continue
		}
		if f.Language != "" && !containsFold(p.Languages, f.Language) {
			continue
		}
		out = append(out, cloneProfile(*p))
	}
	sortByCreated(out, func(p models.Profile) int64 { return p.CreatedAt.UnixNano() })
	return page(out, f.Limit, f.Offset), nil
}

func (db *DB) TransitionApproval(_ context.Context, t services.ApprovalTransition) (models.Profile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.profiles[t.TeacherID]
	if !ok {
		return models.Profile{}, services.ErrNotFound
	}
	if p.ApprovalValue() != t.From {
		return models.Profile{}, fmt.Errorf("%w: approval status changed concurrently", services.ErrConflict)
	}
	to := t.To
	p.ApprovalStatus = &to
	if to == models.ApprovalApproved {
		at, by := t.At, t.ActorID
		p.ApprovedAt, p.ApprovedBy = &at, &by
	}
	p.UpdatedAt = t.At

	audit := t.Audit
	audit.ID = newID(audit.ID)
	db.audits = append(db.audits, audit)
	return cloneProfile(*p), nil
}

func (db *DB) ListApprovalAudits(_ context.Context, teacherID uuid.UUID) ([]models.ApprovalAudit, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.ApprovalAudit, 0)
	for _, a := range db.audits {
		if a.TeacherID == teacherID {
			out = append(out, a)
		}
	}
	return out, nil
}
