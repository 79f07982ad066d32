package database

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *GormStore) GetOrCreateConversation(ctx context.Context, studentID, teacherID uuid.UUID, at time.Time) (models.Conversation, bool, error) {
	db := s.db.WithContext(ctx)

	conv := models.Conversation{
		ID:        uuid.New(),
		StudentID: studentID,
		TeacherID: teacherID,
		CreatedAt: at,
		UpdatedAt: at,
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&conv)
	if res.Error != nil {
		return models.Conversation{}, false, translate(res.Error)
	}
	if res.RowsAffected == 1 {
		return conv, true, nil
	}

	var existing models.Conversation
	err := db.First(&existing, "student_id = ? AND teacher_id = ?", studentID, teacherID).Error
	return existing, false, translate(err)
}

func (s *GormStore) GetConversation(ctx context.Context, id uuid.UUID) (models.Conversation, error) {
	var c models.Conversation
	err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return c, translate(err)
}

type unreadRow struct {
	ConversationID uuid.UUID
	Unread         int
}

func (s *GormStore) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.ConversationSummary, error) {
	db := s.db.WithContext(ctx)

	var convs []models.Conversation
	if err := db.Where("student_id = ? OR teacher_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&convs).Error; err != nil {
		return nil, translate(err)
	}
	if len(convs) == 0 {
		return []models.ConversationSummary{}, nil
	}
	ids := make([]uuid.UUID, len(convs))
	for i, c := range convs {
		ids[i] = c.ID
	}

	var last []models.ChatMessage
	if err := db.Raw(`SELECT DISTINCT ON (conversation_id) * FROM chat_messages
		WHERE conversation_id IN ?
		ORDER BY conversation_id, created_at DESC, id DESC`, ids).
		Scan(&last).Error; err != nil {
		return nil, translate(err)
	}
	var unread []unreadRow
	if err := db.Model(&models.ChatMessage{}).
		Select("conversation_id, COUNT(*) AS unread").
		Where("conversation_id IN ? AND sender_id <> ? AND read_at IS NULL", ids, userID).
		Group("conversation_id").
		Scan(&unread).Error; err != nil {
		return nil, translate(err)
	}

	lastBy := make(map[uuid.UUID]models.ChatMessage, len(last))
	for _, m := range last {
		lastBy[m.ConversationID] = m
	}
	unreadBy := make(map[uuid.UUID]int, len(unread))
	for _, u := range unread {
		unreadBy[u.ConversationID] = u.Unread
	}

	out := make([]models.ConversationSummary, len(convs))
	for i, c := range convs {
		out[i] = models.ConversationSummary{Conversation: c, UnreadCount: unreadBy[c.ID]}
		if m, ok := lastBy[c.ID]; ok {
			out[i].LastMessage = &m
		}
	}
	return out, nil
}

func (s *GormStore) GetMessage(ctx context.Context, id uuid.UUID) (models.ChatMessage, error) {
	var m models.ChatMessage
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return m, translate(err)
}

func (s *GormStore) InsertMessage(ctx context.Context, m *models.ChatMessage) error {
	assignID(&m.ID)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Conversation{}).
			Where("id = ?", m.ConversationID).
			UpdateColumn("updated_at", gorm.Expr("GREATEST(updated_at, ?)", m.CreatedAt))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(m).Error
	})
	return translate(err)
}

func (s *GormStore) OpenConversation(ctx context.Context, conversationID, viewerID uuid.UUID, at time.Time) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv models.Conversation
		if err := tx.Select("id").First(&conv, "id = ?", conversationID).Error; err != nil {
			return err
		}
		// read_at only moves from NULL to a timestamp.
		if err := tx.Model(&models.ChatMessage{}).
			Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, viewerID).
			UpdateColumn("read_at", at).Error; err != nil {
			return err
		}
		return tx.Where("conversation_id = ?", conversationID).
			Order("created_at ASC, id ASC").
			Find(&msgs).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return msgs, nil
}
