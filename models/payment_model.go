package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentPending   = "pending"
	PaymentProcessed = "processed"
)

// SalarySettings rows are append-only; the newest row is in effect.
type SalarySettings struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TeacherShareBps int        `gorm:"not null" json:"teacher_share_bps"`
	AdminShareBps   int        `gorm:"not null" json:"admin_share_bps"`
	CreatedBy       *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
}

type MonthlyTeacherPayment struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TeacherID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_payment_teacher_month" json:"teacher_id"`
	Month           string     `gorm:"size:7;not null;uniqueIndex:idx_payment_teacher_month" json:"month"`
	TotalMinutes    int        `gorm:"not null" json:"total_minutes"`
	TotalHours      float64    `gorm:"type:numeric(10,2);not null" json:"total_hours"`
	HourlyRate      int64      `gorm:"not null" json:"hourly_rate"`
	GrossAmount     int64      `gorm:"not null" json:"gross_amount"`
	TeacherShareBps int        `gorm:"not null" json:"teacher_share_bps"`
	AdminShareBps   int        `gorm:"not null" json:"admin_share_bps"`
	TeacherAmount   int64      `gorm:"not null" json:"teacher_amount"`
	AdminAmount     int64      `gorm:"not null" json:"admin_amount"`
	Status          string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ProcessedBy     *uuid.UUID `gorm:"type:uuid" json:"processed_by,omitempty"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	StatementURL    *string    `gorm:"type:text" json:"statement_url,omitempty"`

	Teacher *Profile `gorm:"foreignkey:TeacherID" json:"teacher,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
