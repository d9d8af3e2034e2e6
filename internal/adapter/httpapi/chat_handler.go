package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/bazarly/backend/internal/adapter/httpapi/middleware"
	"github.com/bazarly/backend/internal/marketplace/usecase"
	"github.com/bazarly/backend/internal/platform/logger"
	"github.com/go-chi/chi/v5"
)

type ChatHandler struct {
	chat   *usecase.ChatUsecase
	logger *logger.Logger
}

func NewChatHandler(chat *usecase.ChatUsecase, log *logger.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: log}
}

type openRoomRequest struct {
	ListingID string `json:"listing_id"`
}

func (h *ChatHandler) HandleOpenRoom(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req openRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	room, err := h.chat.OpenRoom(r.Context(), req.ListingID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *ChatHandler) HandleMyRooms(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	rooms, err := h.chat.MyRooms(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (h *ChatHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	userID := middleware.UserID(r.Context())

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.chat.SendMessage(r.Context(), roomID, userID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) HandleMessages(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	userID := middleware.UserID(r.Context())

	messages, err := h.chat.Messages(r.Context(), roomID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}
