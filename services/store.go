package services

import (
	"context"
	"time"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/google/uuid"
)

type ProfileFilter struct {
	Role           string
	ApprovalStatus []string
	Subject        string
	Language       string
	Limit          int
	Offset         int
}

type CourseFilter struct {
	TeacherID  *uuid.UUID
	Subject    string
	ActiveOnly bool
}

type SessionFilter struct {
	StudentID *uuid.UUID
	TeacherID *uuid.UUID
	Status    string
	From      *time.Time
	To        *time.Time
}

type PaymentFilter struct {
	TeacherID *uuid.UUID
	Month     string
	Status    string
}

// ApprovalTransition moves a teacher from From to To and appends Audit, as one
// unit. It fails with ErrConflict when the stored status is no longer From.
type ApprovalTransition struct {
	TeacherID uuid.UUID
	From      string
	To        string
	ActorID   uuid.UUID
	At        time.Time
	Audit     models.ApprovalAudit
}

// TrialBooking consumes one unit of the student's trial allowance, records the
// scoped usage and inserts the session, as one unit.
type TrialBooking struct {
	Scope   rules.TrialScope
	Session models.CourseSession
}

// Store is the persistence boundary. Every method that names more than one
// write is atomic in every implementation.
type Store interface {
	CreateProfile(ctx context.Context, p *models.Profile) error
	GetProfile(ctx context.Context, id uuid.UUID) (models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (models.Profile, error)
	// UpdateProfile writes the self-editable fields of p: name, gender, bio,
	// subjects, languages, audiences and hourly rate. Nothing else changes.
	UpdateProfile(ctx context.Context, p *models.Profile) error
	ChangeRole(ctx context.Context, id uuid.UUID, role string) (models.Profile, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
	ListProfiles(ctx context.Context, f ProfileFilter) ([]models.Profile, error)

	TransitionApproval(ctx context.Context, t ApprovalTransition) (models.Profile, error)
	ListApprovalAudits(ctx context.Context, teacherID uuid.UUID) ([]models.ApprovalAudit, error)

	CreateCourse(ctx context.Context, c *models.Course) error
	GetCourse(ctx context.Context, id uuid.UUID) (models.Course, error)
	UpdateCourse(ctx context.Context, c *models.Course) error
	ListCourses(ctx context.Context, f CourseFilter) ([]models.Course, error)

	HasTrialUsage(ctx context.Context, scope rules.TrialScope) (bool, error)
	BookTrial(ctx context.Context, b TrialBooking) (models.CourseSession, error)

	CreateSponsorship(ctx context.Context, s *models.Sponsorship) error
	ListSponsorships(ctx context.Context, courseID *uuid.UUID) ([]models.Sponsorship, error)
	// ClaimSponsoredSeat takes one free seat from an active sponsorship on the
	// course and enrolls the student. claimed is false when no seat is free or
	// the student is already enrolled.
	ClaimSponsoredSeat(ctx context.Context, studentID, courseID uuid.UUID, at time.Time) (e models.Enrollment, claimed bool, err error)
	GetEnrollment(ctx context.Context, studentID, courseID uuid.UUID) (models.Enrollment, error)
	CreateEnrollment(ctx context.Context, e *models.Enrollment) error
	ListEnrollments(ctx context.Context, studentID uuid.UUID) ([]models.Enrollment, error)

	CreateSession(ctx context.Context, s *models.CourseSession) error
	GetSession(ctx context.Context, id uuid.UUID) (models.CourseSession, error)
	// TransitionSession moves a session from one status to another and fails
	// with ErrConflict when the stored status is no longer from.
	TransitionSession(ctx context.Context, id uuid.UUID, from, to string) (models.CourseSession, error)
	// SetMeetingLink sets the link of a scheduled session only; any other
	// status is ErrConflict.
	SetMeetingLink(ctx context.Context, id uuid.UUID, link string) (models.CourseSession, error)
	ListSessions(ctx context.Context, f SessionFilter) ([]models.CourseSession, error)
	// TeachingMinutes sums completed session minutes in [from, to).
	TeachingMinutes(ctx context.Context, teacherID uuid.UUID, from, to time.Time) (int, error)

	GetOrCreateConversation(ctx context.Context, studentID, teacherID uuid.UUID, at time.Time) (c models.Conversation, created bool, err error)
	GetConversation(ctx context.Context, id uuid.UUID) (models.Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]models.ConversationSummary, error)
	GetMessage(ctx context.Context, id uuid.UUID) (models.ChatMessage, error)
	// InsertMessage stores m and advances the conversation's updated_at to
	// m.CreatedAt in the same unit.
	InsertMessage(ctx context.Context, m *models.ChatMessage) error
	// OpenConversation marks the viewer's unread messages read at `at` and
	// returns the conversation's messages oldest first.
	OpenConversation(ctx context.Context, conversationID, viewerID uuid.UUID, at time.Time) ([]models.ChatMessage, error)

	CreateSalarySettings(ctx context.Context, s *models.SalarySettings) error
	LatestSalarySettings(ctx context.Context) (models.SalarySettings, error)
	ListSalarySettings(ctx context.Context) ([]models.SalarySettings, error)
	CreatePayment(ctx context.Context, p *models.MonthlyTeacherPayment) error
	GetPayment(ctx context.Context, id uuid.UUID) (models.MonthlyTeacherPayment, error)
	ListPayments(ctx context.Context, f PaymentFilter) ([]models.MonthlyTeacherPayment, error)
	// ProcessPayment moves a pending payment to processed. It fails with
	// rules.ErrPaymentProcessed when the payment is not pending.
	ProcessPayment(ctx context.Context, id, adminID uuid.UUID, at time.Time) (models.MonthlyTeacherPayment, error)
	SetStatementURL(ctx context.Context, id uuid.UUID, url string) error
}
