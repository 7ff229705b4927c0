package types

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one line of a group chat transcript. Ordering is the order
// the messages were received in; nothing downstream re-sorts them.
type ChatMessage struct {
	Sender    string     `json:"sender" validate:"max=200"`
	Content   string     `json:"content" validate:"required,max=4000"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// StoredChatMessage is a ChatMessage persisted by a chat store backend.
type StoredChatMessage struct {
	ID        uuid.UUID `json:"id"`
	ChatID    string    `json:"chat_id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ToChatMessage drops the storage fields.
func (m StoredChatMessage) ToChatMessage() ChatMessage {
	ts := m.CreatedAt
	return ChatMessage{
		Sender:    m.Sender,
		Content:   m.Content,
		Timestamp: &ts,
	}
}

type AppendMessageRequest struct {
	Sender  string `json:"sender" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=4000"`
}
