package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatSender identifies which side of a support conversation wrote a message.
type ChatSender string

const (
	ChatSenderUser  ChatSender = "user"
	ChatSenderStaff ChatSender = "staff"
)

// ChatMessage is one message in a customer's support conversation.
// Conversations are keyed by the customer's user id.
type ChatMessage struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID  `json:"user_id" gorm:"type:char(36);not null;index"`
	Sender    ChatSender `json:"sender" gorm:"type:varchar(10);not null"`
	Body      string     `json:"body" gorm:"size:2000;not null"`
	Read      bool       `json:"read" gorm:"default:false;index"`
	CreatedAt time.Time  `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
