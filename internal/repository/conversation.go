package repository

import (
	"context"

	"github.com/genghao161-arch/anyue-lemon-project/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConversationRepository is the only writer of customer_conversations rows
// besides MessageRepository's activity bump.
type ConversationRepository struct {
	pool *pgxpool.Pool
}

func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{pool: pool}
}

const conversationColumns = `id, user_id, customer_name, created_at, updated_at`

func scanConversation(row pgx.Row) (*model.Conversation, error) {
	c := &model.Conversation{}
	err := row.Scan(&c.ID, &c.UserID, &c.CustomerName, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetOrCreate resolves the caller's conversation, creating it on first
// contact. The unique index on user_id makes concurrent first contacts safe:
// the losing insert hits ON CONFLICT DO NOTHING and falls through to the
// fetch of the winner's row. An existing row with a blank display name is
// backfilled from the hint.
func (r *ConversationRepository) GetOrCreate(ctx context.Context, userID int64, nameHint string) (*model.Conversation, error) {
	if nameHint == "" {
		nameHint = model.DefaultCustomerName
	}

	conv, err := scanConversation(r.pool.QueryRow(ctx, `
		INSERT INTO customer_conversations (user_id, customer_name)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING `+conversationColumns+`
	`, userID, nameHint))
	if err == nil {
		return conv, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	conv, err = r.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if conv.CustomerName == "" {
		if _, uerr := r.pool.Exec(ctx, `
			UPDATE customer_conversations SET customer_name = $2 WHERE id = $1
		`, conv.ID, nameHint); uerr != nil {
			return nil, uerr
		}
		conv.CustomerName = nameHint
	}
	return conv, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id int64) (*model.Conversation, error) {
	return scanConversation(r.pool.QueryRow(ctx, `
		SELECT `+conversationColumns+` FROM customer_conversations WHERE id = $1
	`, id))
}

func (r *ConversationRepository) GetByUser(ctx context.Context, userID int64) (*model.Conversation, error) {
	return scanConversation(r.pool.QueryRow(ctx, `
		SELECT `+conversationColumns+` FROM customer_conversations WHERE user_id = $1
	`, userID))
}

// ListSummaries joins each conversation with its latest message, newest
// activity first. Recomputed on every call; nothing here is stored.
func (r *ConversationRepository) ListSummaries(ctx context.Context) ([]model.ConversationSummaryRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.customer_name, c.updated_at,
		       COALESCE(m.content, ''), COALESCE(m.sender_type, ''), m.created_at
		FROM customer_conversations c
		LEFT JOIN LATERAL (
			SELECT content, sender_type, created_at
			FROM customer_messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) m ON TRUE
		ORDER BY c.updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []model.ConversationSummaryRow{}
	for rows.Next() {
		s := model.ConversationSummaryRow{}
		if err := rows.Scan(&s.ID, &s.CustomerName, &s.UpdatedAt,
			&s.LastContent, &s.LastSender, &s.LastCreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
