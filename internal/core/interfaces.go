// Package core defines repository interfaces shared across services.
package core

import (
	"context"

	"github.com/pennmutual/chatquote-ui-api/internal/domain/model"
)

// ChatRepository provides persistence for saved chats.
type ChatRepository interface {
	Create(ctx context.Context, username string, req *model.CreateChatRequest) (*model.Chat, error)
	GetByID(ctx context.Context, id string) (*model.Chat, error)
	ListByUsername(ctx context.Context, username string, opts model.ChatsListOptions) ([]*model.Chat, error)
	Update(ctx context.Context, id string, req model.UpdateChatRequest) (*model.Chat, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// PromptRepository provides persistence for shared prompt templates.
type PromptRepository interface {
	Create(ctx context.Context, req *model.CreatePromptRequest) (*model.Prompt, error)
	GetByID(ctx context.Context, id string) (*model.Prompt, error)
	List(ctx context.Context) ([]*model.Prompt, error)
	Update(ctx context.Context, id string, req model.UpdatePromptRequest) (*model.Prompt, error)
	Delete(ctx context.Context, id string) (bool, error)
}
