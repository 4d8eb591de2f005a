package httpx

import (
	"net/http"
	"strconv"

	"github.com/pennmutual/chatquote-ui-api/internal/domain/model"
	"github.com/pennmutual/chatquote-ui-api/internal/service"
)

const defaultChatsPageSize = 50

// ChatHandlers provides HTTP handlers for chat persistence operations.
// Every handler runs behind an auth guard, so the session username is always
// available from the request context.
type ChatHandlers struct {
	Svc *service.ChatService
}

// List handles GET /chats?limit=<n>&offset=<n>.
func (h *ChatHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.ChatsListOptions{Limit: defaultChatsPageSize}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		opts.Offset = offset
	}

	chats, err := h.Svc.List(r.Context(), UsernameFromContext(r.Context()), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, chats)
}

// Create handles POST /chats.
func (h *ChatHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateChatRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
		return
	}

	chat, err := h.Svc.Create(r.Context(), UsernameFromContext(r.Context()), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, chat)
}

// Get handles GET /chats/{id}.
func (h *ChatHandlers) Get(w http.ResponseWriter, r *http.Request) {
	chat, err := h.Svc.GetByID(r.Context(), UsernameFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, chat)
}

// Update handles PUT /chats/{id}.
func (h *ChatHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateChatRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
		return
	}

	chat, err := h.Svc.Update(r.Context(), UsernameFromContext(r.Context()), r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, chat)
}

// Delete handles DELETE /chats/{id}.
func (h *ChatHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Svc.Delete(r.Context(), UsernameFromContext(r.Context()), r.PathValue("id"))
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
