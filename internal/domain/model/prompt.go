//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	maxPromptNameLen = 255
)

// Prompt is a named, reusable query template shared across all users.
type Prompt struct {
	ID         string `json:"id"         db:"id"`
	PromptName string `json:"promptName" db:"prompt_name"`
	Query      string `json:"query"      db:"query"`
}

// CreatePromptRequest represents parameters to create a Prompt.
type CreatePromptRequest struct {
	PromptName string `json:"promptName"`
	Query      string `json:"query"`
}

// UpdatePromptRequest represents parameters to update a Prompt.
type UpdatePromptRequest struct {
	PromptName *string `json:"promptName,omitempty"`
	Query      *string `json:"query,omitempty"`
}

// Validate validates CreatePromptRequest.
func (r *CreatePromptRequest) Validate() error {
	name := strings.TrimSpace(r.PromptName)
	if name == "" {
		return errors.New("promptName is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxPromptNameLen {
		return errors.New("promptName cannot exceed 255 characters")
	}
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("query is required and cannot be empty")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdatePromptRequest.
func (r *UpdatePromptRequest) HasUpdates() bool {
	return r.PromptName != nil || r.Query != nil
}

// Validate validates UpdatePromptRequest, ensuring at least one field is set.
func (r *UpdatePromptRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.PromptName != nil && strings.TrimSpace(*r.PromptName) == "" {
		return errors.New("promptName cannot be empty")
	}
	if r.Query != nil && strings.TrimSpace(*r.Query) == "" {
		return errors.New("query cannot be empty")
	}
	return nil
}
