package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type createCollectionRequest struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	SourceType string `json:"source_type"`
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	userID := userFromContext(r.Context())
	collection, err := s.Library.CreateCollection(r.Context(), userID, req.Title, req.Author, req.SourceType)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, collection)
}

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	collections, err := s.Library.ListCollections(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"collections": collections})
}

func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	collection, err := s.Library.GetCollection(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, collection)
}

type addHighlightRequest struct {
	Text       string  `json:"text"`
	Note       *string `json:"note,omitempty"`
	Chapter    *string `json:"chapter,omitempty"`
	PageNumber *int    `json:"page_number,omitempty"`
}

func (s *Server) handleAddHighlight(w http.ResponseWriter, r *http.Request) {
	var req addHighlightRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	userID := userFromContext(r.Context())
	highlight, err := s.Library.AddHighlight(r.Context(), userID, chi.URLParam(r, "id"), req.Text, req.Note, req.Chapter, req.PageNumber)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, highlight)
}

func (s *Server) handleListHighlights(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	highlights, err := s.Library.ListHighlights(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"highlights": highlights})
}

func (s *Server) handleQuizHistory(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	results, err := s.Quiz.History(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"results": results})
}
