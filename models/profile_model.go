package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

const DefaultMaxTrialLessons = 2

type Profile struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'student'" json:"role"`
	Gender   *string   `gorm:"size:10" json:"gender"`

	ApprovalStatus *string    `gorm:"size:20;index" json:"approval_status,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	ApprovedBy     *uuid.UUID `gorm:"type:uuid" json:"approved_by,omitempty"`

	TrialLessonsUsed int `gorm:"not null;default:0" json:"trial_lessons_used"`
	MaxTrialLessons  int `gorm:"not null;default:2" json:"max_trial_lessons"`

	Subjects  pq.StringArray `gorm:"type:text[]" json:"subjects"`
	Languages pq.StringArray `gorm:"type:text[]" json:"languages"`
	Audiences pq.StringArray `gorm:"type:text[]" json:"audiences"`

	HourlyRate *int64  `json:"hourly_rate,omitempty"`
	Bio        *string `gorm:"type:text" json:"bio,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Profile) GenderValue() string {
	if p.Gender == nil {
		return ""
	}
	return *p.Gender
}

func (p Profile) ApprovalValue() string {
	if p.ApprovalStatus == nil {
		return ""
	}
	return *p.ApprovalStatus
}

// ApprovalAudit is append-only; rows are never updated.
type ApprovalAudit struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	AdminID   uuid.UUID `gorm:"type:uuid;not null" json:"admin_id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Action    string    `gorm:"size:20;not null" json:"action"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}
