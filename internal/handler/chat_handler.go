package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/metrics"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/repository"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/service"
)

type ChatHandler struct {
	repo       *repository.ChatRepo
	newSession func() *service.ChatSession
	tokens     Tokens
	log        *zap.Logger
}

func NewChatHandler(repo *repository.ChatRepo, newSession func() *service.ChatSession, tokens Tokens, log *zap.Logger) *ChatHandler {
	return &ChatHandler{repo: repo, newSession: newSession, tokens: tokens, log: log}
}

func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.newSession()
	token, err := h.tokens.issue(s.ID(), metrics.KindChat)
	if err != nil {
		s.Close()
		writeServiceError(w, h.log, err)
		return
	}
	view, err := s.View()
	if err != nil {
		s.Close()
		writeServiceError(w, h.log, err)
		return
	}
	h.repo.Add(s)
	writeJSON(w, http.StatusCreated, map[string]any{"session": view, "token": token})
}

func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeView(w, s, http.StatusOK)
}

// Send appends a user message. The reply arrives later; clients poll Get.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	sent, err := s.Send(req.Text)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	if sent == nil {
		h.writeView(w, s, http.StatusOK)
		return
	}
	h.writeView(w, s, http.StatusAccepted)
}

func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "chatId")
	if err := h.repo.Remove(id); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (h *ChatHandler) session(w http.ResponseWriter, r *http.Request) (*service.ChatSession, bool) {
	s, err := h.repo.Get(chi.URLParam(r, "chatId"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return nil, false
	}
	return s, true
}

func (h *ChatHandler) writeView(w http.ResponseWriter, s *service.ChatSession, status int) {
	view, err := s.View()
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, status, view)
}
