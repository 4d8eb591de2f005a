package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pennmutual/chatquote-ui-api/internal/domain/model"
	"github.com/pennmutual/chatquote-ui-api/internal/mocks"
)

func TestPromptServiceCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPromptRepository(ctrl)
	svc := NewPromptService(PromptServiceOptions{PromptRepo: repo})

	req := &model.CreatePromptRequest{PromptName: "term quote", Query: "quote a 20-year term policy"}
	want := &model.Prompt{ID: "prompt-1", PromptName: "term quote", Query: "quote a 20-year term policy"}
	repo.EXPECT().Create(gomock.Any(), req).Return(want, nil)

	got, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPromptServiceList(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPromptRepository(ctrl)
	svc := NewPromptService(PromptServiceOptions{PromptRepo: repo})

	prompts := []*model.Prompt{{ID: "prompt-1"}, {ID: "prompt-2"}}
	repo.EXPECT().List(gomock.Any()).Return(prompts, nil)

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestPromptServiceUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPromptRepository(ctrl)
	svc := NewPromptService(PromptServiceOptions{PromptRepo: repo})

	query := "quote a whole life policy"
	req := model.UpdatePromptRequest{Query: &query}
	repo.EXPECT().Update(gomock.Any(), "prompt-1", req).Return(&model.Prompt{ID: "prompt-1", Query: query}, nil)

	got, err := svc.Update(context.Background(), "prompt-1", req)
	require.NoError(t, err)
	assert.Equal(t, query, got.Query)
}

func TestPromptServiceDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPromptRepository(ctrl)
	svc := NewPromptService(PromptServiceOptions{PromptRepo: repo})

	repo.EXPECT().Delete(gomock.Any(), "prompt-1").Return(true, nil)

	deleted, err := svc.Delete(context.Background(), "prompt-1")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestPromptServiceGetByIDError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPromptRepository(ctrl)
	svc := NewPromptService(PromptServiceOptions{PromptRepo: repo})

	repo.EXPECT().GetByID(gomock.Any(), "prompt-1").Return(nil, errors.New("db down"))

	_, err := svc.GetByID(context.Background(), "prompt-1")
	assert.Error(t, err)
}
