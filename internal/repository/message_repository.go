package repository

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/gurkanbulca/pronote/internal/database"
	"github.com/gurkanbulca/pronote/internal/models"
)

var messageColumns = database.ColumnNames(database.MessagesTable)

type MessageRepository struct {
	db *database.DB
}

func NewMessageRepository(db *database.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create stores a message, stamping SentAt when it is zero.
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	if m.SentAt.IsZero() {
		m.SentAt = now()
	}
	m.SentAt = m.SentAt.UTC()

	query, args := r.db.Builder().Insert(database.MessagesTable.Name).
		Columns(messageColumns...).
		Values(m.ID, m.SenderID, m.RecipientID, m.Content, m.SentAt).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListConversation returns the messages exchanged between two users in both
// directions, oldest first.
func (r *MessageRepository) ListConversation(ctx context.Context, userA, userB string) ([]*models.Message, error) {
	query, args := r.db.Builder().Select(messageColumns...).
		From(entsql.Table(database.MessagesTable.Name)).
		Where(entsql.Or(
			entsql.And(entsql.EQ("sender_id", userA), entsql.EQ("recipient_id", userB)),
			entsql.And(entsql.EQ("sender_id", userB), entsql.EQ("recipient_id", userA)),
		)).
		OrderBy("sent_at", "id").
		Query()

	messages := []*models.Message{}
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	return messages, nil
}
