package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/torah_tutor/database/inmem"
	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []services.ChangeEvent
}

func (p *recordingPublisher) Publish(ev services.ChangeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Kind
	}
	return out
}

type sentEmail struct {
	To      string
	Subject string
	HTML    string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (n *recordingNotifier) Send(_, email, subject, html string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEmail{To: email, Subject: subject, HTML: html})
}

func (n *recordingNotifier) emails() []sentEmail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentEmail(nil), n.sent...)
}

// interleavingStore runs beforeWrite once, just ahead of the next profile or
// session write, to land a competing operation between a read and a write.
type interleavingStore struct {
	*inmem.DB
	beforeWrite func()
}

func (s *interleavingStore) fire() {
	if fn := s.beforeWrite; fn != nil {
		s.beforeWrite = nil
		fn()
	}
}

func (s *interleavingStore) UpdateProfile(ctx context.Context, p *models.Profile) error {
	s.fire()
	return s.DB.UpdateProfile(ctx, p)
}

func (s *interleavingStore) ChangeRole(ctx context.Context, id uuid.UUID, role string) (models.Profile, error) {
	s.fire()
	return s.DB.ChangeRole(ctx, id, role)
}

func (s *interleavingStore) TransitionSession(ctx context.Context, id uuid.UUID, from, to string) (models.CourseSession, error) {
	s.fire()
	return s.DB.TransitionSession(ctx, id, from, to)
}

func (s *interleavingStore) SetMeetingLink(ctx context.Context, id uuid.UUID, link string) (models.CourseSession, error) {
	s.fire()
	return s.DB.SetMeetingLink(ctx, id, link)
}

type fixture struct {
	t      *testing.T
	ctx    context.Context
	store  *inmem.DB
	inter  *interleavingStore
	svc    *services.Services
	notes  *recordingNotifier
	events *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := inmem.New()
	inter := &interleavingStore{DB: store}
	events := &recordingPublisher{}
	notes := &recordingNotifier{}
	return &fixture{
		t:      t,
		ctx:    context.Background(),
		store:  store,
		inter:  inter,
		notes:  notes,
		events: events,
		svc: services.New(inter, services.Config{
			Events:   events,
			Notifier: notes,
			Now:      func() time.Time { return testNow },
		}),
	}
}

// interleave makes fn run between the read and the write of the next
// profile or session mutation.
func (f *fixture) interleave(fn func()) {
	f.inter.beforeWrite = fn
}

func strp(s string) *string { return &s }

func (f *fixture) profile(p models.Profile) models.Profile {
	f.t.Helper()
	if p.Email == "" {
		p.Email = uuid.NewString() + "@example.com"
	}
	if p.FullName == "" {
		p.FullName = "Test " + p.Role
	}
	require.NoError(f.t, f.store.CreateProfile(f.ctx, &p))
	return p
}

func (f *fixture) admin() models.Profile {
	return f.profile(models.Profile{Role: models.RoleAdmin})
}

func (f *fixture) student(gender string) models.Profile {
	p := models.Profile{Role: models.RoleStudent, MaxTrialLessons: models.DefaultMaxTrialLessons}
	if gender != "" {
		p.Gender = strp(gender)
	}
	return f.profile(p)
}

func (f *fixture) teacher(gender, status string, audiences ...string) models.Profile {
	rate := int64(2000)
	p := models.Profile{
		Role:           models.RoleTeacher,
		ApprovalStatus: strp(status),
		Audiences:      audiences,
		Subjects:       []string{"Torah"},
		HourlyRate:     &rate,
	}
	if gender != "" {
		p.Gender = strp(gender)
	}
	return f.profile(p)
}

func (f *fixture) course(teacher models.Profile, subject string, trial bool) models.Course {
	f.t.Helper()
	c := models.Course{
		TeacherID:              teacher.ID,
		Title:                  subject + " for beginners",
		Subject:                subject,
		Audience:               models.AudienceGeneral,
		SessionDurationMinutes: 60,
		TotalSessions:          10,
		MaxStudents:            1,
		IsTrialAvailable:       trial,
		IsActive:               true,
	}
	require.NoError(f.t, f.store.CreateCourse(f.ctx, &c))
	return c
}
