package inmem

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/google/uuid"
)

func (db *DB) GetOrCreateConversation(_ context.Context, studentID, teacherID uuid.UUID, at time.Time) (models.Conversation, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, c := range db.conversations {
		if c.StudentID == studentID && c.TeacherID == teacherID {
			return *c, false, nil
		}
	}
	c := models.Conversation{
		ID:        uuid.New(),
		StudentID: studentID,
		TeacherID: teacherID,
		CreatedAt: at,
		UpdatedAt: at,
	}
	db.conversations[c.ID] = &c
	return c, true, nil
}

func (db *DB) GetConversation(_ context.Context, id uuid.UUID) (models.Conversation, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if c, ok := db.conversations[id]; ok {
		return *c, nil
	}
	return models.Conversation{}, services.ErrNotFound
}

// messagesOf returns a conversation's messages oldest first. Caller holds the lock.
func (db *DB) messagesOf(conversationID uuid.UUID) []models.ChatMessage {
	out := make([]models.ChatMessage, 0)
	for _, m := range db.messages {
		if m.ConversationID == conversationID {
			out = append(out, *m)
		}
	}
	rules.SortMessages(out)
	return out
}

func (db *DB) ListConversations(_ context.Context, userID uuid.UUID) ([]models.ConversationSummary, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.ConversationSummary, 0)
	for _, c := range db.conversations {
		if !c.HasParticipant(userID) {
			continue
		}
		msgs := db.messagesOf(c.ID)
		sum := models.ConversationSummary{Conversation: *c, UnreadCount: rules.UnreadCount(msgs, userID)}
		if len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			sum.LastMessage = &last
		}
		out = append(out, sum)
	}
	rules.SortConversations(out)
	return out, nil
}

func (db *DB) GetMessage(_ context.Context, id uuid.UUID) (models.ChatMessage, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if m, ok := db.messages[id]; ok {
		return *m, nil
	}
	return models.ChatMessage{}, services.ErrNotFound
}

func (db *DB) InsertMessage(_ context.Context, m *models.ChatMessage) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	c, ok := db.conversations[m.ConversationID]
	if !ok {
		return fmt.Errorf("%w: conversation %s", services.ErrNotFound, m.ConversationID)
	}
	m.ID = newID(m.ID)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	stored := *m
	db.messages[m.ID] = &stored
	if m.CreatedAt.After(c.UpdatedAt) {
		c.UpdatedAt = m.CreatedAt
	}
	return nil
}

func (db *DB) OpenConversation(_ context.Context, conversationID, viewerID uuid.UUID, at time.Time) ([]models.ChatMessage, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.conversations[conversationID]; !ok {
		return nil, services.ErrNotFound
	}
	for _, m := range db.messages {
		if m.ConversationID == conversationID && rules.IsUnreadFor(*m, viewerID) {
			t := at
			m.ReadAt = &t
		}
	}
	return db.messagesOf(conversationID), nil
}
