package httpx

import (
	"errors"
	"net/http"

	"github.com/pennmutual/chatquote-ui-api/internal/domain/model"
	"github.com/pennmutual/chatquote-ui-api/internal/service"
)

var errNotFound = errors.New("resource not found")

// PromptHandlers provides HTTP handlers for the shared prompt library.
// Prompts are not user-scoped: any authenticated user may manage them.
type PromptHandlers struct {
	Svc *service.PromptService
}

// List handles GET /prompts.
func (h *PromptHandlers) List(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.Svc.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, prompts)
}

// Create handles POST /prompts.
func (h *PromptHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePromptRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
		return
	}

	prompt, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, prompt)
}

// Get handles GET /prompts/{id}.
func (h *PromptHandlers) Get(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, prompt)
}

// Update handles PUT /prompts/{id}.
func (h *PromptHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdatePromptRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
		return
	}

	prompt, err := h.Svc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, prompt)
}

// Delete handles DELETE /prompts/{id}.
func (h *PromptHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Svc.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errNotFound})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
