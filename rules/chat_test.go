package rules

import (
	"testing"
	"time"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortMessagesOldestFirst(t *testing.T) {
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	msgs := []models.ChatMessage{
		{ID: uuid.New(), Content: "third", CreatedAt: base.Add(2 * time.Minute)},
		{ID: uuid.New(), Content: "first", CreatedAt: base},
		{ID: uuid.New(), Content: "second", CreatedAt: base.Add(time.Minute)},
	}
	SortMessages(msgs)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
	assert.Equal(t, "third", msgs[2].Content)
}

func TestUnreadAndMarkRead(t *testing.T) {
	me, other := uuid.New(), uuid.New()
	earlier := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	now := earlier.Add(time.Hour)

	msgs := []models.ChatMessage{
		{ID: uuid.New(), SenderID: other},
		{ID: uuid.New(), SenderID: me},
		{ID: uuid.New(), SenderID: other, ReadAt: &earlier},
		{ID: uuid.New(), SenderID: other},
	}
	assert.Equal(t, 2, UnreadCount(msgs, me))
	assert.Equal(t, 1, UnreadCount(msgs, other))

	marked := MarkRead(msgs, me, now)
	assert.Equal(t, []uuid.UUID{msgs[0].ID, msgs[3].ID}, marked)
	assert.Zero(t, UnreadCount(msgs, me))

	require.NotNil(t, msgs[2].ReadAt)
	assert.Equal(t, earlier, *msgs[2].ReadAt, "an existing read_at is never rewritten")
	assert.Nil(t, msgs[1].ReadAt, "own messages are not marked")

	assert.Empty(t, MarkRead(msgs, me, now.Add(time.Hour)))
}

func TestSortConversationsMostRecentFirst(t *testing.T) {
	base := time.Now()
	convs := []models.ConversationSummary{
		{Conversation: models.Conversation{UpdatedAt: base.Add(-time.Hour)}},
		{Conversation: models.Conversation{UpdatedAt: base}},
	}
	SortConversations(convs)
	assert.Equal(t, base, convs[0].UpdatedAt)
}

func TestValidateMessage(t *testing.T) {
	at := time.Now()
	id := uuid.New()
	yes := true

	assert.NoError(t, ValidateMessage(models.ChatMessage{MessageType: models.MessageText, Content: "shalom"}))
	assert.NoError(t, ValidateMessage(models.ChatMessage{MessageType: models.MessageMeetingRequest, MeetingAt: &at}))
	assert.NoError(t, ValidateMessage(models.ChatMessage{MessageType: models.MessageMeetingResponse, ReplyToID: &id, Accepted: &yes}))

	assert.ErrorIs(t, ValidateMessage(models.ChatMessage{MessageType: models.MessageText, Content: "  "}), ErrInvalidMessage)
	assert.ErrorIs(t, ValidateMessage(models.ChatMessage{MessageType: models.MessageMeetingRequest}), ErrInvalidMessage)
	assert.ErrorIs(t, ValidateMessage(models.ChatMessage{MessageType: models.MessageMeetingResponse, ReplyToID: &id}), ErrInvalidMessage)
	assert.ErrorIs(t, ValidateMessage(models.ChatMessage{MessageType: "sticker"}), ErrInvalidMessage)
}
