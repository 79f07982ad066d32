package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionTrial   = "trial"
	SessionRegular = "regular"
)

const (
	SessionScheduled = "scheduled"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

type CourseSession struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CourseID        uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	StudentID       uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	TeacherID       uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
	SessionDate     time.Time `gorm:"not null;index" json:"session_date"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	SessionType     string    `gorm:"size:20;not null" json:"session_type"`
	Status          string    `gorm:"size:20;not null;default:'scheduled'" json:"status"`
	MeetingLink     *string   `gorm:"size:255" json:"meeting_link,omitempty"`

	Course *Course `gorm:"foreignkey:CourseID" json:"course,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TrialUsage records that a student spent a trial with a teacher on a subject.
type TrialUsage struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_trial_scope" json:"student_id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_trial_scope" json:"teacher_id"`
	Subject   string    `gorm:"size:100;not null;uniqueIndex:idx_trial_scope" json:"subject"`
	SessionID uuid.UUID `gorm:"type:uuid;not null" json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}
