package handlers

import (
	"time"

	"github.com/anjiri1684/torah_tutor/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type StartConversationRequest struct {
	RecipientID uuid.UUID `json:"recipient_id" validate:"required"`
}

type SendMessageRequest struct {
	MessageType string     `json:"message_type" validate:"omitempty,oneof=text meeting_request meeting_response"`
	Content     string     `json:"content"`
	MeetingAt   *time.Time `json:"meeting_at"`
	ReplyToID   *uuid.UUID `json:"reply_to_id"`
	Accepted    *bool      `json:"accepted"`
}

func CreateOrGetConversation(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req StartConversationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	conv, err := svc.StartConversation(c.UserContext(), userID, req.RecipientID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(conv)
}

// GetUserConversations lists the caller's conversations, newest activity
// first, with unread counts.
func GetUserConversations(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	list, err := svc.ListConversations(c.UserContext(), userID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(list)
}

// GetConversationMessages also marks the caller's unread messages read.
func GetConversationMessages(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	convID, err := paramID(c, "conversationId")
	if err != nil {
		return err
	}
	msgs, err := svc.OpenConversation(c.UserContext(), userID, convID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(msgs)
}

func SendMessage(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	convID, err := paramID(c, "conversationId")
	if err != nil {
		return err
	}
	var req SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	msg, err := svc.SendMessage(c.UserContext(), userID, convID, services.MessageInput{
		MessageType: req.MessageType,
		Content:     req.Content,
		MeetingAt:   req.MeetingAt,
		ReplyToID:   req.ReplyToID,
		Accepted:    req.Accepted,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
