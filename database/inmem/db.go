// Package inmem is a process-local services.Store. It backs the tests and
// local runs without DATABASE_URL. A single mutex serializes every write, so
// multi-step operations are atomic exactly as they are in postgres.
package inmem

import (
	"sort"
	"strings"
	"sync"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/google/uuid"
)

type trialKey struct {
	student uuid.UUID
	teacher uuid.UUID
	subject string
}

type enrollmentKey struct {
	student uuid.UUID
	course  uuid.UUID
}

type DB struct {
	mu sync.RWMutex

	profiles      map[uuid.UUID]*models.Profile
	audits        []models.ApprovalAudit
	courses       map[uuid.UUID]*models.Course
	trialUsage    map[trialKey]models.TrialUsage
	sponsorships  map[uuid.UUID]*models.Sponsorship
	enrollments   map[enrollmentKey]models.Enrollment
	sessions      map[uuid.UUID]*models.CourseSession
	conversations map[uuid.UUID]*models.Conversation
	messages      map[uuid.UUID]*models.ChatMessage
	salary        []models.SalarySettings
	payments      map[uuid.UUID]*models.MonthlyTeacherPayment
}

var _ services.Store = (*DB)(nil)

func New() *DB {
	return &DB{
		profiles:      make(map[uuid.UUID]*models.Profile),
		courses:       make(map[uuid.UUID]*models.Course),
		trialUsage:    make(map[trialKey]models.TrialUsage),
		sponsorships:  make(map[uuid.UUID]*models.Sponsorship),
		enrollments:   make(map[enrollmentKey]models.Enrollment),
		sessions:      make(map[uuid.UUID]*models.CourseSession),
		conversations: make(map[uuid.UUID]*models.Conversation),
		messages:      make(map[uuid.UUID]*models.ChatMessage),
		payments:      make(map[uuid.UUID]*models.MonthlyTeacherPayment),
	}
}

func newID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

func containsFold(list []string, want string) bool {
	want = strings.TrimSpace(want)
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), want) {
			return true
		}
	}
	return false
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortByCreated[T any](items []T, created func(T) int64) {
	sort.SliceStable(items, func(i, j int) bool { return created(items[i]) < created(items[j]) })
}
