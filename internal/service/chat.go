package service

import (
	"context"
	"errors"

	"github.com/pennmutual/chatquote-ui-api/internal/core"
	"github.com/pennmutual/chatquote-ui-api/internal/domain/model"
	apperrors "github.com/pennmutual/chatquote-ui-api/internal/errors"
)

// ChatServiceOptions groups dependencies for ChatService.
type ChatServiceOptions struct {
	ChatRepo core.ChatRepository
}

// ChatService orchestrates chat CRUD with per-user ownership enforcement.
// Every operation is scoped to the session username: a chat owned by another
// user is indistinguishable from a missing one except for mutations, which
// are rejected outright.
type ChatService struct {
	chats core.ChatRepository
}

// NewChatService constructs a new ChatService.
func NewChatService(opts ChatServiceOptions) *ChatService {
	return &ChatService{chats: opts.ChatRepo}
}

// Create creates a chat owned by the given user.
func (s *ChatService) Create(ctx context.Context, username string, req *model.CreateChatRequest) (*model.Chat, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}
	return s.chats.Create(ctx, username, req)
}

// GetByID retrieves a chat owned by the given user.
func (s *ChatService) GetByID(ctx context.Context, username, id string) (*model.Chat, error) {
	chat, err := s.chats.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if chat.Username != username {
		return nil, apperrors.NotFound("chat not found")
	}
	return chat, nil
}

// List returns a page of the user's chats.
func (s *ChatService) List(ctx context.Context, username string, opts model.ChatsListOptions) ([]*model.Chat, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}
	return s.chats.ListByUsername(ctx, username, opts)
}

// Update updates a chat after verifying ownership.
func (s *ChatService) Update(ctx context.Context, username, id string, req model.UpdateChatRequest) (*model.Chat, error) {
	if _, err := s.GetByID(ctx, username, id); err != nil {
		return nil, err
	}
	return s.chats.Update(ctx, id, req)
}

// Delete deletes a chat after verifying ownership.
func (s *ChatService) Delete(ctx context.Context, username, id string) (bool, error) {
	if _, err := s.GetByID(ctx, username, id); err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return s.chats.Delete(ctx, id)
}
