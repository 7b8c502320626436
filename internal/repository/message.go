package repository

import (
	"context"

	"github.com/genghao161-arch/anyue-lemon-project/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Append inserts a message and bumps the conversation's last-activity
// timestamp to the message's own timestamp, in one transaction. Either both
// rows change or neither does; a concurrent summary read never sees a new
// message paired with a stale updated_at.
func (r *MessageRepository) Append(ctx context.Context, conversationID int64, senderType, content, image string) (*model.SupportMessage, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var imageVal interface{}
	if image != "" {
		imageVal = image
	}

	msg := &model.SupportMessage{
		ConversationID: conversationID,
		SenderType:     senderType,
		Content:        content,
		Image:          image,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO customer_messages (conversation_id, sender_type, content, image)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, conversationID, senderType, content, imageVal).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE customer_conversations SET updated_at = $2 WHERE id = $1
	`, conversationID, msg.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListByConversation returns the full transcript, oldest first. Insertion id
// breaks ties between messages sharing a timestamp.
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID int64) ([]model.SupportMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, conversation_id, sender_type, COALESCE(content, ''), COALESCE(image, ''), created_at
		FROM customer_messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []model.SupportMessage{}
	for rows.Next() {
		m := model.SupportMessage{}
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderType, &m.Content, &m.Image, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
