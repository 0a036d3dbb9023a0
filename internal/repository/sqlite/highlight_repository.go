package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hugompham/marginalia/internal/logger"
	"github.com/hugompham/marginalia/internal/models"
	"github.com/hugompham/marginalia/internal/repository"
)

type highlightRepository struct {
	db *sql.DB
}

// NewHighlightRepository creates a new HighlightRepository implementation.
func NewHighlightRepository(db *sql.DB) repository.HighlightRepository {
	return &highlightRepository{db: db}
}

func (r *highlightRepository) Insert(ctx context.Context, h models.Highlight) error {
	log := logger.FromContext(ctx).WithPrefix("highlight_repo")
	log.Debug("inserting highlight: id=%s, collection_id=%s", h.ID, h.CollectionID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO highlights (id, collection_id, user_id, text, note, chapter, page_number, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, h.ID, h.CollectionID, h.UserID, h.Text, h.Note, h.Chapter, h.PageNumber, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		log.Error("failed to insert highlight: %v", err)
	}
	return err
}

func (r *highlightRepository) Get(ctx context.Context, id, userID string) (*models.Highlight, error) {
	log := logger.FromContext(ctx).WithPrefix("highlight_repo")
	log.Debug("getting highlight: id=%s", id)

	row := r.db.QueryRowContext(ctx, `
SELECT id, collection_id, user_id, text, note, chapter, page_number, created_at, updated_at
FROM highlights
WHERE id = ? AND user_id = ?
`, id, userID)

	h, err := scanHighlight(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("highlight not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get highlight: %v", err)
		return nil, err
	}
	return h, nil
}

func (r *highlightRepository) ListByCollection(ctx context.Context, collectionID, userID string) ([]models.Highlight, error) {
	log := logger.FromContext(ctx).WithPrefix("highlight_repo")
	log.Debug("listing highlights: collection_id=%s", collectionID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, collection_id, user_id, text, note, chapter, page_number, created_at, updated_at
FROM highlights
WHERE collection_id = ? AND user_id = ?
ORDER BY created_at ASC
`, collectionID, userID)
	if err != nil {
		log.Error("failed to list highlights: %v", err)
		return nil, err
	}
	defer rows.Close()

	var highlights []models.Highlight
	for rows.Next() {
		h, err := scanHighlight(rows)
		if err != nil {
			log.Error("failed to scan highlight: %v", err)
			return nil, err
		}
		highlights = append(highlights, *h)
	}
	log.Debug("found %d highlights", len(highlights))
	return highlights, rows.Err()
}

func scanHighlight(row rowScanner) (*models.Highlight, error) {
	var h models.Highlight
	var note, chapter sql.NullString
	var pageNumber sql.NullInt64

	err := row.Scan(&h.ID, &h.CollectionID, &h.UserID, &h.Text, &note, &chapter, &pageNumber, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if note.Valid {
		h.Note = &note.String
	}
	if chapter.Valid {
		h.Chapter = &chapter.String
	}
	if pageNumber.Valid {
		n := int(pageNumber.Int64)
		h.PageNumber = &n
	}
	return &h, nil
}
