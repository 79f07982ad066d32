package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MessageText            = "text"
	MessageMeetingRequest  = "meeting_request"
	MessageMeetingResponse = "meeting_response"
)

type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_pair" json:"student_id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_pair" json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

func (c Conversation) HasParticipant(id uuid.UUID) bool {
	return c.StudentID == id || c.TeacherID == id
}

type ChatMessage struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ConversationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"conversation_id"`
	SenderID       uuid.UUID  `gorm:"type:uuid;not null" json:"sender_id"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	MessageType    string     `gorm:"size:20;not null;default:'text'" json:"message_type"`
	MeetingAt      *time.Time `json:"meeting_at,omitempty"`
	ReplyToID      *uuid.UUID `gorm:"type:uuid" json:"reply_to_id,omitempty"`
	Accepted       *bool      `json:"accepted,omitempty"`
	ReadAt         *time.Time `json:"read_at"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
}

type ConversationSummary struct {
	Conversation
	LastMessage *ChatMessage `json:"last_message,omitempty"`
	UnreadCount int          `json:"unread_count"`
}
