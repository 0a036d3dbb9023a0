package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hugompham/marginalia/internal/logger"
	"github.com/hugompham/marginalia/internal/models"
	"github.com/hugompham/marginalia/internal/repository"
)

type collectionRepository struct {
	db *sql.DB
}

// NewCollectionRepository creates a new CollectionRepository implementation.
func NewCollectionRepository(db *sql.DB) repository.CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Insert(ctx context.Context, c models.Collection) error {
	log := logger.FromContext(ctx).WithPrefix("collection_repo")
	log.Debug("inserting collection: id=%s, title=%s", c.ID, c.Title)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO collections (id, user_id, title, author, source_type, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, c.ID, c.UserID, c.Title, c.Author, c.SourceType, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		log.Error("failed to insert collection: %v", err)
	}
	return err
}

func (r *collectionRepository) Get(ctx context.Context, id, userID string) (*models.Collection, error) {
	log := logger.FromContext(ctx).WithPrefix("collection_repo")
	log.Debug("getting collection: id=%s", id)

	row := r.db.QueryRowContext(ctx, `
SELECT c.id, c.user_id, c.title, c.author, c.source_type,
       (SELECT COUNT(*) FROM highlights h WHERE h.collection_id = c.id) AS highlight_count,
       (SELECT COUNT(*) FROM cards k WHERE k.collection_id = c.id) AS card_count,
       c.created_at, c.updated_at
FROM collections c
WHERE c.id = ? AND c.user_id = ?
`, id, userID)

	var c models.Collection
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Author, &c.SourceType,
		&c.HighlightCount, &c.CardCount, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("collection not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get collection: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *collectionRepository) List(ctx context.Context, userID string) ([]models.Collection, error) {
	log := logger.FromContext(ctx).WithPrefix("collection_repo")
	log.Debug("listing collections: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, c.user_id, c.title, c.author, c.source_type,
       (SELECT COUNT(*) FROM highlights h WHERE h.collection_id = c.id) AS highlight_count,
       (SELECT COUNT(*) FROM cards k WHERE k.collection_id = c.id) AS card_count,
       c.created_at, c.updated_at
FROM collections c
WHERE c.user_id = ?
ORDER BY c.updated_at DESC
`, userID)
	if err != nil {
		log.Error("failed to list collections: %v", err)
		return nil, err
	}
	defer rows.Close()

	var collections []models.Collection
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Author, &c.SourceType,
			&c.HighlightCount, &c.CardCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			log.Error("failed to scan collection: %v", err)
			return nil, err
		}
		collections = append(collections, c)
	}
	log.Debug("found %d collections", len(collections))
	return collections, rows.Err()
}
