package service

import (
	"context"
	"errors"
	"strings"

	"github.com/genghao161-arch/anyue-lemon-project/internal/model"

	"github.com/jackc/pgx/v5"
)

var (
	ErrEmptyMessage         = errors.New("message needs content or an image")
	ErrConversationNotFound = errors.New("conversation not found")
)

// excerptLimit caps the summary preview, counted in runes so CJK text does
// not get cut mid-character.
const excerptLimit = 80

// ConversationStore and MessageStore are the slices of the repositories the
// support flows touch; tests swap in in-memory fakes.
type ConversationStore interface {
	GetOrCreate(ctx context.Context, userID int64, nameHint string) (*model.Conversation, error)
	GetByID(ctx context.Context, id int64) (*model.Conversation, error)
	GetByUser(ctx context.Context, userID int64) (*model.Conversation, error)
	ListSummaries(ctx context.Context) ([]model.ConversationSummaryRow, error)
}

type MessageStore interface {
	Append(ctx context.Context, conversationID int64, senderType, content, image string) (*model.SupportMessage, error)
	ListByConversation(ctx context.Context, conversationID int64) ([]model.SupportMessage, error)
}

type SupportService struct {
	convs ConversationStore
	msgs  MessageStore
}

func NewSupportService(convs ConversationStore, msgs MessageStore) *SupportService {
	return &SupportService{convs: convs, msgs: msgs}
}

// OpenConversation resolves (or lazily creates) the customer's conversation.
// Safe to call on every page load; repeated calls return the same row.
func (s *SupportService) OpenConversation(ctx context.Context, userID int64, nameHint string) (*model.Conversation, error) {
	return s.convs.GetOrCreate(ctx, userID, nameHint)
}

// CustomerMessages returns the caller's transcript, oldest first. A customer
// who never opened a conversation gets an empty list, not an error.
func (s *SupportService) CustomerMessages(ctx context.Context, userID int64) ([]model.SupportMessageItem, error) {
	conv, err := s.convs.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []model.SupportMessageItem{}, nil
		}
		return nil, err
	}
	return s.transcript(ctx, conv.ID)
}

func (s *SupportService) SendCustomerMessage(ctx context.Context, userID int64, nameHint string, req *model.PostSupportMessageRequest) (*model.SupportMessage, error) {
	content, image, err := normalizeMessage(req)
	if err != nil {
		return nil, err
	}
	conv, err := s.convs.GetOrCreate(ctx, userID, nameHint)
	if err != nil {
		return nil, err
	}
	return s.msgs.Append(ctx, conv.ID, model.SenderCustomer, content, image)
}

// StaffMessages returns any conversation's transcript by id.
func (s *SupportService) StaffMessages(ctx context.Context, conversationID int64) ([]model.SupportMessageItem, error) {
	if _, err := s.convs.GetByID(ctx, conversationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return s.transcript(ctx, conversationID)
}

func (s *SupportService) SendStaffMessage(ctx context.Context, conversationID int64, req *model.PostSupportMessageRequest) (*model.SupportMessage, error) {
	content, image, err := normalizeMessage(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.convs.GetByID(ctx, conversationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return s.msgs.Append(ctx, conversationID, model.SenderStaff, content, image)
}

// ListSummaries projects the staff inbox: one line per conversation, most
// recently active first, flagged when the customer spoke last.
func (s *SupportService) ListSummaries(ctx context.Context) ([]model.ConversationSummary, error) {
	rows, err := s.convs.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.ConversationSummary, 0, len(rows))
	for _, row := range rows {
		lastTime := row.UpdatedAt
		if row.LastCreatedAt != nil {
			lastTime = *row.LastCreatedAt
		}
		summaries = append(summaries, model.ConversationSummary{
			ID:              row.ID,
			CustomerName:    row.CustomerName,
			LastMessage:     excerpt(row.LastContent),
			LastMessageTime: lastTime,
			HasNewMessage:   row.LastSender == model.SenderCustomer,
		})
	}
	return summaries, nil
}

func (s *SupportService) transcript(ctx context.Context, conversationID int64) ([]model.SupportMessageItem, error) {
	msgs, err := s.msgs.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	items := make([]model.SupportMessageItem, 0, len(msgs))
	for i := range msgs {
		items = append(items, msgs[i].Item())
	}
	return items, nil
}

func normalizeMessage(req *model.PostSupportMessageRequest) (content, image string, err error) {
	content = strings.TrimSpace(req.Content)
	image = strings.TrimSpace(req.Image)
	if content == "" && image == "" {
		return "", "", ErrEmptyMessage
	}
	return content, image, nil
}

func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLimit {
		return content
	}
	return string(runes[:excerptLimit])
}
