//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxChatNameLen = 255
)

// ConversationEntry is a single turn of a chat conversation. Entries where
// IsQuery is true were typed by the user; the rest are generated responses.
type ConversationEntry struct {
	IsQuery   bool      `json:"isQuery"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Chat represents a saved conversation owned by a user. Conversation is stored
// as a JSONB column and round-trips through pgx as a value.
type Chat struct {
	ID           string              `json:"id"           db:"id"`
	Username     string              `json:"username"     db:"username"`
	Name         string              `json:"name"         db:"name"`
	Conversation []ConversationEntry `json:"conversation" db:"conversation"`
	CreatedAt    time.Time           `json:"created_at"   db:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"   db:"updated_at"`
}

// ChatsListOptions controls paging for listing a user's chats.
type ChatsListOptions struct {
	Limit  int
	Offset int
}

// CreateChatRequest represents parameters to create a Chat.
// Username is resolved from the caller's session, never from the payload.
type CreateChatRequest struct {
	Name         string              `json:"name"`
	Conversation []ConversationEntry `json:"conversation,omitempty"`
}

// UpdateChatRequest represents parameters to update a Chat.
type UpdateChatRequest struct {
	Name         *string             `json:"name,omitempty"`
	Conversation []ConversationEntry `json:"conversation,omitempty"`
}

// Validate validates CreateChatRequest.
func (r *CreateChatRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxChatNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateChatRequest.
func (r *UpdateChatRequest) HasUpdates() bool {
	return r.Name != nil || r.Conversation != nil
}

// Validate validates UpdateChatRequest, ensuring at least one field is set.
func (r *UpdateChatRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if n == "" {
			return errors.New("name cannot be empty")
		}
		if utf8.RuneCountInString(n) > maxChatNameLen {
			return errors.New("name cannot exceed 255 characters")
		}
	}
	return nil
}
