package service

import (
	"context"

	"github.com/pennmutual/chatquote-ui-api/internal/core"
	"github.com/pennmutual/chatquote-ui-api/internal/domain/model"
)

// PromptServiceOptions groups dependencies for PromptService.
type PromptServiceOptions struct {
	PromptRepo core.PromptRepository
}

// PromptService provides CRUD over the shared prompt templates. Prompts are
// not user-scoped; any authenticated user may read and manage them.
type PromptService struct {
	prompts core.PromptRepository
}

// NewPromptService constructs a new PromptService.
func NewPromptService(opts PromptServiceOptions) *PromptService {
	return &PromptService{prompts: opts.PromptRepo}
}

// Create creates a prompt.
func (s *PromptService) Create(ctx context.Context, req *model.CreatePromptRequest) (*model.Prompt, error) {
	return s.prompts.Create(ctx, req)
}

// GetByID retrieves a prompt by ID.
func (s *PromptService) GetByID(ctx context.Context, id string) (*model.Prompt, error) {
	return s.prompts.GetByID(ctx, id)
}

// List returns all prompts.
func (s *PromptService) List(ctx context.Context) ([]*model.Prompt, error) {
	return s.prompts.List(ctx)
}

// Update updates a prompt.
func (s *PromptService) Update(ctx context.Context, id string, req model.UpdatePromptRequest) (*model.Prompt, error) {
	return s.prompts.Update(ctx, id, req)
}

// Delete deletes a prompt by ID.
func (s *PromptService) Delete(ctx context.Context, id string) (bool, error) {
	return s.prompts.Delete(ctx, id)
}
