// Package api exposes the HTTP surface: a JSON API over the library,
// card, review and quiz services.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hugompham/marginalia/internal/services"
)

type Server struct {
	Library services.LibraryService
	Cards   services.CardService
	Review  services.ReviewService
	Quiz    services.QuizService
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(userMiddleware)

		r.Get("/collections", s.handleListCollections)
		r.Post("/collections", s.handleCreateCollection)
		r.Get("/collections/{id}", s.handleGetCollection)
		r.Get("/collections/{id}/highlights", s.handleListHighlights)
		r.Post("/collections/{id}/highlights", s.handleAddHighlight)
		r.Get("/collections/{id}/quiz-history", s.handleQuizHistory)

		r.Get("/cards", s.handleListCards)
		r.Post("/cards", s.handleCreateCard)
		r.Get("/cards/{id}", s.handleGetCard)

		r.Route("/review", func(r chi.Router) {
			r.Post("/start", s.handleReviewStart)
			r.Get("/current", s.handleReviewCurrent)
			r.Get("/preview", s.handleReviewPreview)
			r.Post("/answer", s.handleReviewAnswer)
			r.Post("/skip", s.handleReviewSkip)
			r.Post("/end", s.handleReviewEnd)
			r.Post("/clear", s.handleReviewClear)
			r.Get("/stats", s.handleReviewStats)
		})

		r.Route("/quiz", func(r chi.Router) {
			r.Post("/start", s.handleQuizStart)
			r.Get("/current", s.handleQuizCurrent)
			r.Post("/answer", s.handleQuizAnswer)
			r.Post("/skip", s.handleQuizSkip)
			r.Post("/end", s.handleQuizEnd)
			r.Post("/clear", s.handleQuizClear)
		})
	})

	return r
}
