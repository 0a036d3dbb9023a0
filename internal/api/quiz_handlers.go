package api

import "net/http"

type quizStartRequest struct {
	CollectionID string `json:"collection_id"`
}

func (s *Server) handleQuizStart(w http.ResponseWriter, r *http.Request) {
	var req quizStartRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	userID := userFromContext(r.Context())
	state, err := s.Quiz.Start(r.Context(), userID, req.CollectionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleQuizCurrent(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	state, err := s.Quiz.Current(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

type quizAnswerRequest struct {
	Answer    string `json:"answer"`
	IsCorrect bool   `json:"is_correct"`
}

func (s *Server) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	var req quizAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	userID := userFromContext(r.Context())
	state, err := s.Quiz.Answer(r.Context(), userID, req.Answer, req.IsCorrect)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleQuizSkip(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	state, err := s.Quiz.Skip(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleQuizEnd(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	results, err := s.Quiz.End(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, results)
}

func (s *Server) handleQuizClear(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	if err := s.Quiz.Clear(r.Context(), userID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
