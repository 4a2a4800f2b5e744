package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/auth"
	apperrors "github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/errors"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/model"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/notify"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/repository"
)

const defaultHistoryLimit = 100

// ChatService is the support chat: every customer has one conversation
// with staff. Messages are persisted first, then relayed over NATS for
// live delivery; relay failure never fails the send.
type ChatService interface {
	Send(ctx context.Context, identity *auth.Identity, body string) (*model.ChatMessage, error)
	Reply(ctx context.Context, identity *auth.Identity, userID uuid.UUID, body string) (*model.ChatMessage, error)
	History(ctx context.Context, identity *auth.Identity, userID uuid.UUID, limit int) ([]model.ChatMessage, error)
	MarkRead(ctx context.Context, identity *auth.Identity, userID uuid.UUID) error
	Conversations(ctx context.Context, identity *auth.Identity) ([]uuid.UUID, error)
}

type chatService struct {
	repo   repository.ChatRepository
	events *notify.EventPublisher
}

// NewChatService creates a new chat service.
func NewChatService(repo repository.ChatRepository, events *notify.EventPublisher) ChatService {
	return &chatService{repo: repo, events: events}
}

// Send stores a customer message addressed to staff.
func (s *chatService) Send(ctx context.Context, identity *auth.Identity, body string) (*model.ChatMessage, error) {
	if identity == nil {
		return nil, apperrors.NewForbidden("authentication required")
	}
	if body == "" {
		return nil, apperrors.NewValidation("body", "required")
	}

	message := &model.ChatMessage{
		UserID: identity.ID,
		Sender: model.ChatSenderUser,
		Body:   body,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, apperrors.NewStorage("create chat message", err)
	}

	s.relay(ctx, message, notify.SubjectChatStaff)
	return message, nil
}

// Reply stores a staff message in a customer's conversation. Staff only.
func (s *chatService) Reply(ctx context.Context, identity *auth.Identity, userID uuid.UUID, body string) (*model.ChatMessage, error) {
	if !identity.IsAdmin() {
		return nil, apperrors.NewForbidden("administrator role required")
	}
	if body == "" {
		return nil, apperrors.NewValidation("body", "required")
	}

	message := &model.ChatMessage{
		UserID: userID,
		Sender: model.ChatSenderStaff,
		Body:   body,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, apperrors.NewStorage("create chat message", err)
	}

	s.relay(ctx, message, notify.SubjectChatUser(userID.String()))
	return message, nil
}

// History returns a conversation, owner-or-staff.
func (s *chatService) History(ctx context.Context, identity *auth.Identity, userID uuid.UUID, limit int) ([]model.ChatMessage, error) {
	if identity == nil {
		return nil, apperrors.NewForbidden("authentication required")
	}
	if !identity.IsAdmin() && identity.ID != userID {
		return nil, apperrors.NewForbidden("not your conversation")
	}
	if limit < 1 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}

	messages, err := s.repo.History(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.NewStorage("load chat history", err)
	}
	return messages, nil
}

// MarkRead flags a conversation's customer messages as read. Staff only.
func (s *chatService) MarkRead(ctx context.Context, identity *auth.Identity, userID uuid.UUID) error {
	if !identity.IsAdmin() {
		return apperrors.NewForbidden("administrator role required")
	}
	if err := s.repo.MarkRead(ctx, userID, model.ChatSenderUser); err != nil {
		return apperrors.NewStorage("mark chat read", err)
	}
	return nil
}

// Conversations lists active conversations for the staff inbox. Staff only.
func (s *chatService) Conversations(ctx context.Context, identity *auth.Identity) ([]uuid.UUID, error) {
	if !identity.IsAdmin() {
		return nil, apperrors.NewForbidden("administrator role required")
	}
	ids, err := s.repo.ListConversations(ctx)
	if err != nil {
		return nil, apperrors.NewStorage("list conversations", err)
	}
	return ids, nil
}

func (s *chatService) relay(ctx context.Context, message *model.ChatMessage, subject string) {
	payload, err := json.Marshal(message)
	if err != nil {
		return
	}
	if err := s.events.Publish(ctx, subject, payload); err != nil {
		log.Printf("chat %s: publish %s: %v", message.ID, subject, err)
	}
}
