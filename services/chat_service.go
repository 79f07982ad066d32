package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/google/uuid"
)

// StartConversation opens, or returns the existing, conversation between a
// student and a listed teacher. Either side may start it.
func (s *Services) StartConversation(ctx context.Context, userID, otherID uuid.UUID) (models.Conversation, error) {
	user, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return models.Conversation{}, err
	}
	other, err := s.store.GetProfile(ctx, otherID)
	if err != nil {
		return models.Conversation{}, err
	}

	var student, teacher models.Profile
	switch {
	case user.Role == models.RoleStudent && other.Role == models.RoleTeacher:
		student, teacher = user, other
	case user.Role == models.RoleTeacher && other.Role == models.RoleStudent:
		student, teacher = other, user
	default:
		return models.Conversation{}, fmt.Errorf("%w: conversations are between a student and a teacher", ErrInvalidInput)
	}
	if !rules.IsListedTeacher(teacher) {
		return models.Conversation{}, ErrTeacherNotListed
	}

	conv, created, err := s.store.GetOrCreateConversation(ctx, student.ID, teacher.ID, s.now())
	if err != nil {
		return models.Conversation{}, err
	}
	if created {
		s.events.Publish(ChangeEvent{
			Kind:           EventConversationCreated,
			ConversationID: conv.ID,
			Recipients:     []uuid.UUID{conv.StudentID, conv.TeacherID},
		})
	}
	return conv, nil
}

// ListConversations returns the user's conversations, most recent first, with
// the unread count as seen by the user.
func (s *Services) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.ConversationSummary, error) {
	convs, err := s.store.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	rules.SortConversations(convs)
	return convs, nil
}

func (s *Services) participantConversation(ctx context.Context, userID, conversationID uuid.UUID) (models.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return models.Conversation{}, err
	}
	if !conv.HasParticipant(userID) {
		return models.Conversation{}, ErrForbidden
	}
	return conv, nil
}

// OpenConversation returns the messages oldest first and marks the ones sent
// by the other participant as read.
func (s *Services) OpenConversation(ctx context.Context, userID, conversationID uuid.UUID) ([]models.ChatMessage, error) {
	conv, err := s.participantConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	before, err := s.unreadIn(ctx, userID, conv.ID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.store.OpenConversation(ctx, conv.ID, userID, s.now())
	if err != nil {
		return nil, err
	}
	rules.SortMessages(msgs)
	if before > 0 {
		s.events.Publish(ChangeEvent{
			Kind:           EventMessagesRead,
			ConversationID: conv.ID,
			Recipients:     []uuid.UUID{conv.StudentID, conv.TeacherID},
		})
	}
	return msgs, nil
}

func (s *Services) unreadIn(ctx context.Context, userID, conversationID uuid.UUID) (int, error) {
	convs, err := s.store.ListConversations(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, c := range convs {
		if c.ID == conversationID {
			return c.UnreadCount, nil
		}
	}
	return 0, nil
}

type MessageInput struct {
	MessageType string
	Content     string
	MeetingAt   *time.Time
	ReplyToID   *uuid.UUID
	Accepted    *bool
}

// SendMessage appends a message. A meeting response must answer a meeting
// request in the same conversation sent by the other participant.
func (s *Services) SendMessage(ctx context.Context, senderID, conversationID uuid.UUID, in MessageInput) (models.ChatMessage, error) {
	conv, err := s.participantConversation(ctx, senderID, conversationID)
	if err != nil {
		return models.ChatMessage{}, err
	}

	msg := models.ChatMessage{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        in.Content,
		MessageType:    in.MessageType,
		MeetingAt:      in.MeetingAt,
		ReplyToID:      in.ReplyToID,
		Accepted:       in.Accepted,
		CreatedAt:      s.now(),
	}
	if msg.MessageType == "" {
		msg.MessageType = models.MessageText
	}
	if err := rules.ValidateMessage(msg); err != nil {
		return models.ChatMessage{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if msg.MessageType == models.MessageMeetingResponse {
		req, err := s.store.GetMessage(ctx, *msg.ReplyToID)
		if err != nil {
			return models.ChatMessage{}, err
		}
		if req.ConversationID != conv.ID || req.MessageType != models.MessageMeetingRequest || req.SenderID == senderID {
			return models.ChatMessage{}, fmt.Errorf("%w: reply_to_id must be the other participant's meeting request", ErrInvalidInput)
		}
	}

	if err := s.store.InsertMessage(ctx, &msg); err != nil {
		return models.ChatMessage{}, err
	}
	s.events.Publish(ChangeEvent{
		Kind:           EventMessageCreated,
		ConversationID: conv.ID,
		Recipients:     []uuid.UUID{conv.StudentID, conv.TeacherID},
	})
	return msg, nil
}
