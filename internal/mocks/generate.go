// Package mocks contains generated mocks for repository interfaces.
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=chat_repository_mock.go github.com/pennmutual/chatquote-ui-api/internal/core ChatRepository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=prompt_repository_mock.go github.com/pennmutual/chatquote-ui-api/internal/core PromptRepository
