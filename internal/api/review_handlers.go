package api

import (
	"net/http"

	"github.com/hugompham/marginalia/internal/models"
)

func (s *Server) handleReviewStart(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	state, err := s.Review.Start(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleReviewCurrent(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	state, err := s.Review.Current(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleReviewPreview(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	preview, err := s.Review.Preview(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, preview)
}

type reviewAnswerRequest struct {
	Rating models.Rating `json:"rating"`
}

func (s *Server) handleReviewAnswer(w http.ResponseWriter, r *http.Request) {
	var req reviewAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	userID := userFromContext(r.Context())
	state, err := s.Review.Answer(r.Context(), userID, req.Rating)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleReviewSkip(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	state, err := s.Review.Skip(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleReviewEnd(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	stats, err := s.Review.End(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleReviewClear(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	if err := s.Review.Clear(r.Context(), userID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReviewStats(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	stats, err := s.Review.Stats(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, stats)
}
