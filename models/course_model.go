package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AudienceChildren = "children"
	AudienceWomen    = "women"
	AudienceMen      = "men"
	AudienceGeneral  = "general"
	AudienceAdults   = "adults"
)

type Course struct {
	ID                     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TeacherID              uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Title                  string    `gorm:"size:255;not null" json:"title"`
	Description            string    `gorm:"type:text" json:"description"`
	Subject                string    `gorm:"size:100;not null;index" json:"subject"`
	Audience               string    `gorm:"size:20;not null;default:'general'" json:"audience"`
	AgeRange               string    `gorm:"size:20" json:"age_range"`
	Price                  int64     `gorm:"not null;default:0" json:"price"`
	SessionDurationMinutes int       `gorm:"not null;default:60" json:"session_duration_minutes"`
	TotalSessions          int       `gorm:"not null;default:1" json:"total_sessions"`
	MaxStudents            int       `gorm:"not null;default:1" json:"max_students"`
	IsTrialAvailable       bool      `gorm:"not null;default:true" json:"is_trial_available"`
	IsActive               bool      `gorm:"not null;default:true" json:"is_active"`

	Teacher *Profile `gorm:"foreignkey:TeacherID" json:"teacher,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	EnrollmentSponsored = "sponsored"
	EnrollmentDirect    = "direct"
)

type Enrollment struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_student_course" json:"student_id"`
	CourseID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_student_course" json:"course_id"`
	Source        string     `gorm:"size:20;not null" json:"source"`
	SponsorshipID *uuid.UUID `gorm:"type:uuid" json:"sponsorship_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Sponsorship is a donor-funded pool of seats on one course.
type Sponsorship struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CourseID   uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	DonorName  string    `gorm:"size:255;not null" json:"donor_name"`
	Amount     int64     `gorm:"not null;default:0" json:"amount"`
	SeatsTotal int       `gorm:"not null" json:"seats_total"`
	SeatsUsed  int       `gorm:"not null;default:0" json:"seats_used"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedBy  uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}
