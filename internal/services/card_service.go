package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hugompham/marginalia/internal/errors"
	"github.com/hugompham/marginalia/internal/fsrs"
	"github.com/hugompham/marginalia/internal/logger"
	"github.com/hugompham/marginalia/internal/models"
	"github.com/hugompham/marginalia/internal/repository"
)

// CardService manages flashcards derived from highlights.
type CardService interface {
	CreateCard(ctx context.Context, userID, highlightID, questionType, question, answer string, clozeText *string) (*models.Card, error)
	GetCard(ctx context.Context, id, userID string) (*models.Card, error)
	ListCards(ctx context.Context, filter repository.CardFilter) ([]models.Card, error)
}

type cardService struct {
	cards      repository.CardRepository
	highlights repository.HighlightRepository
}

// NewCardService creates a new CardService
func NewCardService(cards repository.CardRepository, highlights repository.HighlightRepository) CardService {
	return &cardService{cards: cards, highlights: highlights}
}

func (s *cardService) CreateCard(ctx context.Context, userID, highlightID, questionType, question, answer string, clozeText *string) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating card: highlight_id=%s, type=%s", highlightID, questionType)

	if strings.TrimSpace(question) == "" {
		return nil, errors.NewValidationError("question", "must not be empty")
	}
	if strings.TrimSpace(answer) == "" {
		return nil, errors.NewValidationError("answer", "must not be empty")
	}
	switch questionType {
	case "cloze", "definition", "conceptual":
	default:
		return nil, errors.NewValidationError("question_type", "must be cloze, definition or conceptual")
	}

	h, err := s.highlights.Get(ctx, highlightID, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if h == nil {
		return nil, errors.NewNotFoundError("highlight", highlightID)
	}

	now := time.Now().UTC()
	c := models.Card{
		ID:           uuid.NewString(),
		HighlightID:  highlightID,
		CollectionID: h.CollectionID,
		UserID:       userID,
		QuestionType: questionType,
		Question:     question,
		Answer:       answer,
		ClozeText:    clozeText,
		Memory:       fsrs.NewMemory(now),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.cards.Insert(ctx, c); err != nil {
		log.Error("failed to create card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &c, nil
}

func (s *cardService) GetCard(ctx context.Context, id, userID string) (*models.Card, error) {
	c, err := s.cards.Get(ctx, id, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("card", id)
	}
	return c, nil
}

func (s *cardService) ListCards(ctx context.Context, filter repository.CardFilter) ([]models.Card, error) {
	cards, err := s.cards.List(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}
