package model

import "time"

// Sender roles for support messages. Anything else found in storage is
// normalized to SenderCustomer before it reaches a client.
const (
	SenderCustomer = "customer"
	SenderStaff    = "staff"
)

// DefaultCustomerName is the display-name placeholder used when a
// conversation is created for a user with no usable name.
const DefaultCustomerName = "客户"

// Conversation is the single support channel between one customer and the
// staff pool. UpdatedAt tracks the last message in either direction and
// drives the staff-side list ordering.
type Conversation struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	CustomerName string    `json:"customerName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SupportMessage is one utterance inside a conversation. Immutable once
// written; rows are removed only by the conversation's ON DELETE CASCADE.
type SupportMessage struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversationId"`
	SenderType     string    `json:"senderType"`
	Content        string    `json:"content"`
	Image          string    `json:"image"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SupportMessageItem is the wire shape of a message.
type SupportMessageItem struct {
	ID         int64     `json:"id"`
	SenderType string    `json:"senderType"`
	Content    string    `json:"content"`
	Image      string    `json:"image"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (m *SupportMessage) Item() SupportMessageItem {
	sender := m.SenderType
	if sender != SenderStaff {
		sender = SenderCustomer
	}
	return SupportMessageItem{
		ID:         m.ID,
		SenderType: sender,
		Content:    m.Content,
		Image:      m.Image,
		CreatedAt:  m.CreatedAt,
	}
}

// ConversationSummaryRow is the raw per-conversation projection row: the
// conversation joined with its most recent message, if any.
type ConversationSummaryRow struct {
	ID            int64
	CustomerName  string
	UpdatedAt     time.Time
	LastContent   string
	LastSender    string
	LastCreatedAt *time.Time
}

// ConversationSummary is the staff triage list entry.
type ConversationSummary struct {
	ID              int64     `json:"id"`
	CustomerName    string    `json:"customerName"`
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	HasNewMessage   bool      `json:"hasNewMessage"`
}

// PostSupportMessageRequest is the send-message payload. Image only applies
// to the customer side; staff replies are text-only.
type PostSupportMessageRequest struct {
	Content string `json:"content"`
	Image   string `json:"image"`
}
