package domain

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Conversation is the local cache of one assistant conversation. The backend
// owns the canonical record; this cache exists so the terminal UI can list
// and reopen conversations between sessions.
type Conversation struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Title    string
	Messages []Message
	gorm.Model
}

// Message is one cached conversation entry. RemoteID is the backend's
// message identifier, reconciled from the stream's user_message and done
// frames once the backend has persisted the message.
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	ConversationID uuid.UUID `gorm:"type:uuid;index"`
	RemoteID       string    `gorm:"index"`
	Role           Role      `gorm:"type:text"`
	Content        string
	gorm.Model
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
