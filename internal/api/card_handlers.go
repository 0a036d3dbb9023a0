package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hugompham/marginalia/internal/models"
	"github.com/hugompham/marginalia/internal/repository"
)

type createCardRequest struct {
	HighlightID  string  `json:"highlight_id"`
	QuestionType string  `json:"question_type"`
	Question     string  `json:"question"`
	Answer       string  `json:"answer"`
	ClozeText    *string `json:"cloze_text,omitempty"`
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	userID := userFromContext(r.Context())
	card, err := s.Cards.CreateCard(r.Context(), userID, req.HighlightID, req.QuestionType, req.Question, req.Answer, req.ClozeText)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	card, err := s.Cards.GetCard(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.CardFilter{
		UserID:       userFromContext(r.Context()),
		CollectionID: q.Get("collection_id"),
		State:        models.CardState(q.Get("state")),
	}
	if q.Get("due") == "true" {
		now := time.Now().UTC()
		filter.DueBefore = &now
	}
	if limit := q.Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	cards, err := s.Cards.ListCards(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"cards": cards})
}
