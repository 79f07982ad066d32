package rules

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/google/uuid"
)

var ErrInvalidMessage = errors.New("invalid message")

// SortMessages orders messages oldest first. Equal timestamps fall back to id
// so the order is stable across fetches.
func SortMessages(msgs []models.ChatMessage) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].ID.String() < msgs[j].ID.String()
	})
}

func IsUnreadFor(m models.ChatMessage, viewer uuid.UUID) bool {
	return m.SenderID != viewer && m.ReadAt == nil
}

func UnreadCount(msgs []models.ChatMessage, viewer uuid.UUID) int {
	n := 0
	for _, m := range msgs {
		if IsUnreadFor(m, viewer) {
			n++
		}
	}
	return n
}

// MarkRead stamps every message unread by viewer and returns their ids.
// A read_at that is already set is left alone.
func MarkRead(msgs []models.ChatMessage, viewer uuid.UUID, now time.Time) []uuid.UUID {
	var marked []uuid.UUID
	for i := range msgs {
		if IsUnreadFor(msgs[i], viewer) {
			t := now
			msgs[i].ReadAt = &t
			marked = append(marked, msgs[i].ID)
		}
	}
	return marked
}

// SortConversations puts the most recently active conversation first.
func SortConversations(convs []models.ConversationSummary) {
	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].UpdatedAt.After(convs[j].UpdatedAt)
	})
}

// ValidateMessage checks the fields each message type requires.
func ValidateMessage(m models.ChatMessage) error {
	switch m.MessageType {
	case models.MessageText:
		if strings.TrimSpace(m.Content) == "" {
			return fmt.Errorf("%w: empty content", ErrInvalidMessage)
		}
	case models.MessageMeetingRequest:
		if m.MeetingAt == nil {
			return fmt.Errorf("%w: meeting request needs a time", ErrInvalidMessage)
		}
	case models.MessageMeetingResponse:
		if m.ReplyToID == nil || m.Accepted == nil {
			return fmt.Errorf("%w: meeting response needs reply_to_id and accepted", ErrInvalidMessage)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, m.MessageType)
	}
	return nil
}
