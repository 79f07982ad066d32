package services

import (
	"errors"
	"time"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTeacherNotListed   = errors.New("teacher is not approved")
	ErrNotEnrolled        = errors.New("student is not enrolled in this course")

	ErrInvalidTransition = rules.ErrInvalidTransition
	ErrAlreadyProcessed  = rules.ErrPaymentProcessed

	// Returned by Store.BookTrial when a concurrent booking won the race.
	ErrTrialQuotaExhausted = errors.New("trial quota exhausted")
	ErrTrialScopeUsed      = errors.New("trial already used for this teacher and subject")
)

// Notifier delivers transactional email. Implementations must not block for long;
// callers invoke it from a goroutine.
type Notifier interface {
	Send(toName, toEmail, subject, htmlContent string)
}

// ChangeEvent tells connected clients that something they display changed.
// Clients re-fetch; events carry no payload beyond what to re-fetch.
type ChangeEvent struct {
	Kind           string      `json:"kind"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	Recipients     []uuid.UUID `json:"-"`
}

const (
	EventConversationCreated = "conversation.created"
	EventMessageCreated      = "message.created"
	EventMessagesRead        = "messages.read"
)

type EventPublisher interface {
	Publish(ev ChangeEvent)
}

// StatementRenderer produces a hosted statement document for a processed payment
// and returns its URL.
type StatementRenderer interface {
	Render(payment models.MonthlyTeacherPayment, teacher models.Profile) (string, error)
}

type Config struct {
	Notifier     Notifier
	Events       EventPublisher
	Statements   StatementRenderer
	DefaultSplit rules.Split
	Location     *time.Location
	Now          func() time.Time
}

type Services struct {
	store        Store
	notify       Notifier
	events       EventPublisher
	statements   StatementRenderer
	defaultSplit rules.Split
	loc          *time.Location
	now          func() time.Time
}

type nopNotifier struct{}

func (nopNotifier) Send(string, string, string, string) {}

type nopPublisher struct{}

func (nopPublisher) Publish(ChangeEvent) {}

func New(store Store, cfg Config) *Services {
	s := &Services{
		store:        store,
		notify:       cfg.Notifier,
		events:       cfg.Events,
		statements:   cfg.Statements,
		defaultSplit: cfg.DefaultSplit,
		loc:          cfg.Location,
		now:          cfg.Now,
	}
	if s.notify == nil {
		s.notify = nopNotifier{}
	}
	if s.events == nil {
		s.events = nopPublisher{}
	}
	if s.defaultSplit == (rules.Split{}) {
		s.defaultSplit = rules.Split{TeacherBps: 7000, AdminBps: 3000}
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Services) Store() Store { return s.store }
