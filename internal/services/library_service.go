package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hugompham/marginalia/internal/errors"
	"github.com/hugompham/marginalia/internal/logger"
	"github.com/hugompham/marginalia/internal/models"
	"github.com/hugompham/marginalia/internal/repository"
)

// LibraryService manages collections and their highlights.
type LibraryService interface {
	CreateCollection(ctx context.Context, userID, title, author, sourceType string) (*models.Collection, error)
	GetCollection(ctx context.Context, id, userID string) (*models.Collection, error)
	ListCollections(ctx context.Context, userID string) ([]models.Collection, error)
	AddHighlight(ctx context.Context, userID, collectionID, text string, note, chapter *string, pageNumber *int) (*models.Highlight, error)
	ListHighlights(ctx context.Context, collectionID, userID string) ([]models.Highlight, error)
}

type libraryService struct {
	collections repository.CollectionRepository
	highlights  repository.HighlightRepository
}

// NewLibraryService creates a new LibraryService
func NewLibraryService(collections repository.CollectionRepository, highlights repository.HighlightRepository) LibraryService {
	return &libraryService{collections: collections, highlights: highlights}
}

func (s *libraryService) CreateCollection(ctx context.Context, userID, title, author, sourceType string) (*models.Collection, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating collection: title=%s", title)

	if strings.TrimSpace(title) == "" {
		return nil, errors.NewValidationError("title", "must not be empty")
	}
	if sourceType == "" {
		sourceType = "manual"
	}

	now := time.Now().UTC()
	c := models.Collection{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      title,
		Author:     author,
		SourceType: sourceType,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.collections.Insert(ctx, c); err != nil {
		log.Error("failed to create collection: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &c, nil
}

func (s *libraryService) GetCollection(ctx context.Context, id, userID string) (*models.Collection, error) {
	c, err := s.collections.Get(ctx, id, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("collection", id)
	}
	return c, nil
}

func (s *libraryService) ListCollections(ctx context.Context, userID string) ([]models.Collection, error) {
	collections, err := s.collections.List(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return collections, nil
}

func (s *libraryService) AddHighlight(ctx context.Context, userID, collectionID, text string, note, chapter *string, pageNumber *int) (*models.Highlight, error) {
	log := logger.FromContext(ctx)
	log.Debug("adding highlight: collection_id=%s", collectionID)

	if strings.TrimSpace(text) == "" {
		return nil, errors.NewValidationError("text", "must not be empty")
	}

	c, err := s.collections.Get(ctx, collectionID, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("collection", collectionID)
	}

	now := time.Now().UTC()
	h := models.Highlight{
		ID:           uuid.NewString(),
		CollectionID: collectionID,
		UserID:       userID,
		Text:         text,
		Note:         note,
		Chapter:      chapter,
		PageNumber:   pageNumber,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.highlights.Insert(ctx, h); err != nil {
		log.Error("failed to add highlight: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &h, nil
}

func (s *libraryService) ListHighlights(ctx context.Context, collectionID, userID string) ([]models.Highlight, error) {
	c, err := s.collections.Get(ctx, collectionID, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("collection", collectionID)
	}

	highlights, err := s.highlights.ListByCollection(ctx, collectionID, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return highlights, nil
}
