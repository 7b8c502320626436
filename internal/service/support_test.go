package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/genghao161-arch/anyue-lemon-project/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memorySupportStore backs SupportService tests with the same semantics the
// Postgres repositories provide: one conversation per user, append bumping
// the conversation's updated_at, summaries joined with the latest message.
type memorySupportStore struct {
	nextConvID int64
	nextMsgID  int64
	now        time.Time
	convs      map[int64]*model.Conversation // by conversation id
	byUser     map[int64]int64
	messages   map[int64][]model.SupportMessage
}

func newMemorySupportStore() *memorySupportStore {
	return &memorySupportStore{
		now:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		convs:    map[int64]*model.Conversation{},
		byUser:   map[int64]int64{},
		messages: map[int64][]model.SupportMessage{},
	}
}

// tick advances the fake clock so every write gets a distinct timestamp.
func (s *memorySupportStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *memorySupportStore) GetOrCreate(ctx context.Context, userID int64, nameHint string) (*model.Conversation, error) {
	if nameHint == "" {
		nameHint = model.DefaultCustomerName
	}
	if id, ok := s.byUser[userID]; ok {
		conv := s.convs[id]
		if conv.CustomerName == "" {
			conv.CustomerName = nameHint
		}
		return conv, nil
	}
	s.nextConvID++
	ts := s.tick()
	conv := &model.Conversation{
		ID:           s.nextConvID,
		UserID:       userID,
		CustomerName: nameHint,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	s.convs[conv.ID] = conv
	s.byUser[userID] = conv.ID
	return conv, nil
}

func (s *memorySupportStore) GetByID(ctx context.Context, id int64) (*model.Conversation, error) {
	conv, ok := s.convs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return conv, nil
}

func (s *memorySupportStore) GetByUser(ctx context.Context, userID int64) (*model.Conversation, error) {
	id, ok := s.byUser[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s.convs[id], nil
}

func (s *memorySupportStore) ListSummaries(ctx context.Context) ([]model.ConversationSummaryRow, error) {
	rows := []model.ConversationSummaryRow{}
	for _, conv := range s.convs {
		row := model.ConversationSummaryRow{
			ID:           conv.ID,
			CustomerName: conv.CustomerName,
			UpdatedAt:    conv.UpdatedAt,
		}
		if msgs := s.messages[conv.ID]; len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			row.LastContent = last.Content
			row.LastSender = last.SenderType
			created := last.CreatedAt
			row.LastCreatedAt = &created
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].UpdatedAt.After(rows[j].UpdatedAt)
	})
	return rows, nil
}

func (s *memorySupportStore) Append(ctx context.Context, conversationID int64, senderType, content, image string) (*model.SupportMessage, error) {
	conv, ok := s.convs[conversationID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	s.nextMsgID++
	msg := model.SupportMessage{
		ID:             s.nextMsgID,
		ConversationID: conversationID,
		SenderType:     senderType,
		Content:        content,
		Image:          image,
		CreatedAt:      s.tick(),
	}
	s.messages[conversationID] = append(s.messages[conversationID], msg)
	conv.UpdatedAt = msg.CreatedAt
	return &msg, nil
}

func (s *memorySupportStore) ListByConversation(ctx context.Context, conversationID int64) ([]model.SupportMessage, error) {
	return s.messages[conversationID], nil
}

func newTestSupport() (*SupportService, *memorySupportStore) {
	store := newMemorySupportStore()
	return NewSupportService(store, store), store
}

func TestOpenConversationIdempotent(t *testing.T) {
	svc, _ := newTestSupport()
	ctx := context.Background()

	first, err := svc.OpenConversation(ctx, 42, "13800138000")
	require.NoError(t, err)
	second, err := svc.OpenConversation(ctx, 42, "13800138000")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(42), first.UserID)
	assert.Equal(t, "13800138000", first.CustomerName)

	other, err := svc.OpenConversation(ctx, 43, "")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
	assert.Equal(t, model.DefaultCustomerName, other.CustomerName)
}

func TestCustomerMessagesWithoutConversation(t *testing.T) {
	svc, _ := newTestSupport()

	items, err := svc.CustomerMessages(context.Background(), 99)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSendCustomerMessageValidation(t *testing.T) {
	svc, store := newTestSupport()
	ctx := context.Background()

	_, err := svc.SendCustomerMessage(ctx, 1, "", &model.PostSupportMessageRequest{})
	assert.ErrorIs(t, err, ErrEmptyMessage)
	_, err = svc.SendCustomerMessage(ctx, 1, "", &model.PostSupportMessageRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
	// A failed send must not create the conversation either.
	assert.Empty(t, store.convs)

	msg, err := svc.SendCustomerMessage(ctx, 1, "", &model.PostSupportMessageRequest{Image: "/media/x.png"})
	require.NoError(t, err)
	assert.Equal(t, model.SenderCustomer, msg.SenderType)
	assert.Len(t, store.convs, 1)
}

func TestSendCustomerMessageCreatesConversation(t *testing.T) {
	svc, _ := newTestSupport()
	ctx := context.Background()

	msg, err := svc.SendCustomerMessage(ctx, 7, "13912345678", &model.PostSupportMessageRequest{Content: "你好"})
	require.NoError(t, err)
	require.NotNil(t, msg)

	items, err := svc.CustomerMessages(ctx, 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "你好", items[0].Content)
	assert.Equal(t, model.SenderCustomer, items[0].SenderType)
}

func TestStaffMessagesUnknownConversation(t *testing.T) {
	svc, _ := newTestSupport()

	_, err := svc.StaffMessages(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrConversationNotFound)

	_, err = svc.SendStaffMessage(context.Background(), 12345, &model.PostSupportMessageRequest{Content: "在吗"})
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestTranscriptOrdering(t *testing.T) {
	svc, _ := newTestSupport()
	ctx := context.Background()

	conv, err := svc.OpenConversation(ctx, 5, "c5")
	require.NoError(t, err)

	_, err = svc.SendCustomerMessage(ctx, 5, "c5", &model.PostSupportMessageRequest{Content: "第一条"})
	require.NoError(t, err)
	_, err = svc.SendStaffMessage(ctx, conv.ID, &model.PostSupportMessageRequest{Content: "第二条"})
	require.NoError(t, err)
	_, err = svc.SendCustomerMessage(ctx, 5, "c5", &model.PostSupportMessageRequest{Content: "第三条"})
	require.NoError(t, err)

	items, err := svc.StaffMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "第一条", items[0].Content)
	assert.Equal(t, "第二条", items[1].Content)
	assert.Equal(t, "第三条", items[2].Content)

	// Customer view is the same transcript.
	mine, err := svc.CustomerMessages(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, items, mine)
}

func TestListSummariesUnreadFlag(t *testing.T) {
	svc, _ := newTestSupport()
	ctx := context.Background()

	convA, err := svc.OpenConversation(ctx, 1, "甲")
	require.NoError(t, err)
	_, err = svc.OpenConversation(ctx, 2, "乙")
	require.NoError(t, err)

	// Customer speaks: needs attention.
	_, err = svc.SendCustomerMessage(ctx, 1, "甲", &model.PostSupportMessageRequest{Content: "有人吗"})
	require.NoError(t, err)

	summaries, err := svc.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, convA.ID, summaries[0].ID)
	assert.True(t, summaries[0].HasNewMessage)
	assert.False(t, summaries[1].HasNewMessage)
	assert.Empty(t, summaries[1].LastMessage)

	// Staff reply clears the flag and keeps the conversation on top.
	_, err = svc.SendStaffMessage(ctx, convA.ID, &model.PostSupportMessageRequest{Content: "在的"})
	require.NoError(t, err)

	summaries, err = svc.ListSummaries(ctx)
	require.NoError(t, err)
	assert.Equal(t, convA.ID, summaries[0].ID)
	assert.False(t, summaries[0].HasNewMessage)
	assert.Equal(t, "在的", summaries[0].LastMessage)

	// Next customer message raises it again.
	_, err = svc.SendCustomerMessage(ctx, 1, "甲", &model.PostSupportMessageRequest{Content: "谢谢"})
	require.NoError(t, err)

	summaries, err = svc.ListSummaries(ctx)
	require.NoError(t, err)
	assert.True(t, summaries[0].HasNewMessage)
}

func TestListSummariesOrderedByActivity(t *testing.T) {
	svc, _ := newTestSupport()
	ctx := context.Background()

	_, err := svc.SendCustomerMessage(ctx, 1, "甲", &model.PostSupportMessageRequest{Content: "a"})
	require.NoError(t, err)
	_, err = svc.SendCustomerMessage(ctx, 2, "乙", &model.PostSupportMessageRequest{Content: "b"})
	require.NoError(t, err)
	_, err = svc.SendCustomerMessage(ctx, 1, "甲", &model.PostSupportMessageRequest{Content: "c"})
	require.NoError(t, err)

	summaries, err := svc.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "甲", summaries[0].CustomerName)
	assert.Equal(t, "乙", summaries[1].CustomerName)
	assert.True(t, summaries[0].LastMessageTime.After(summaries[1].LastMessageTime))
}

func TestSummaryExcerptTruncation(t *testing.T) {
	svc, _ := newTestSupport()
	ctx := context.Background()

	long := strings.Repeat("长", 100)
	_, err := svc.SendCustomerMessage(ctx, 1, "甲", &model.PostSupportMessageRequest{Content: long})
	require.NoError(t, err)
	_, err = svc.SendCustomerMessage(ctx, 2, "乙", &model.PostSupportMessageRequest{Content: strings.Repeat("短", 50)})
	require.NoError(t, err)

	summaries, err := svc.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, 80, len([]rune(summaries[1].LastMessage)))
	assert.Equal(t, strings.Repeat("长", 80), summaries[1].LastMessage)
	assert.Equal(t, 50, len([]rune(summaries[0].LastMessage)))
}

func TestImageOnlyMessageInSummary(t *testing.T) {
	svc, _ := newTestSupport()
	ctx := context.Background()

	_, err := svc.SendCustomerMessage(ctx, 1, "甲", &model.PostSupportMessageRequest{Image: "/media/uploads/p.png"})
	require.NoError(t, err)

	summaries, err := svc.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Empty(t, summaries[0].LastMessage)
	assert.True(t, summaries[0].HasNewMessage)

	items, err := svc.CustomerMessages(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "/media/uploads/p.png", items[0].Image)
	assert.Empty(t, items[0].Content)
}
