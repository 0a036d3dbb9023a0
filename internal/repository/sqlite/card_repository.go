package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/hugompham/marginalia/internal/logger"
	"github.com/hugompham/marginalia/internal/models"
	"github.com/hugompham/marginalia/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const cardColumns = `id, highlight_id, collection_id, user_id, question_type, question, answer, cloze_text, is_suspended,
stability, difficulty, elapsed_days, scheduled_days, reps, lapses, state, last_review, due, created_at, updated_at`

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation.
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: id=%s, highlight_id=%s", c.ID, c.HighlightID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO cards (`+cardColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.ID, c.HighlightID, c.CollectionID, c.UserID, c.QuestionType, c.Question, c.Answer, c.ClozeText, c.IsSuspended,
		c.Stability, c.Difficulty, c.ElapsedDays, c.ScheduledDays, c.Reps, c.Lapses, string(c.State), c.LastReview, c.Due, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		log.Error("failed to insert card: %v", err)
	}
	return err
}

func (r *cardRepository) Get(ctx context.Context, id, userID string) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%s", id)

	row := r.db.QueryRowContext(ctx, `
SELECT `+cardColumns+`
FROM cards
WHERE id = ? AND user_id = ?
`, id, userID)

	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return c, nil
}

func (r *cardRepository) List(ctx context.Context, filter repository.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: user_id=%s, collection_id=%s", filter.UserID, filter.CollectionID)

	query := sqlBuilder.Select(cardColumns).From("cards").OrderBy("due ASC")
	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.CollectionID != "" {
		query = query.Where(squirrel.Eq{"collection_id": filter.CollectionID})
	}
	if filter.State != "" {
		query = query.Where(squirrel.Eq{"state": string(filter.State)})
	}
	if filter.DueBefore != nil {
		query = query.Where(squirrel.LtOrEq{"due": *filter.DueBefore})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards, err := scanCards(rows)
	if err != nil {
		log.Error("failed to scan cards: %v", err)
		return nil, err
	}
	log.Debug("found %d cards", len(cards))
	return cards, nil
}

func (r *cardRepository) Due(ctx context.Context, userID string, now time.Time, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching due cards: user_id=%s, limit=%d", userID, limit)

	rows, err := r.db.QueryContext(ctx, `
SELECT `+cardColumns+`
FROM cards
WHERE user_id = ? AND is_suspended = 0 AND due <= ?
ORDER BY due ASC
LIMIT ?
`, userID, now, limit)
	if err != nil {
		log.Error("failed to query due cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards, err := scanCards(rows)
	if err != nil {
		log.Error("failed to scan due cards: %v", err)
		return nil, err
	}
	log.Debug("found %d due cards", len(cards))
	return cards, nil
}

func (r *cardRepository) UpdateMemory(ctx context.Context, id string, m models.Memory, updatedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card memory: id=%s, state=%s, stability=%.3f", id, m.State, m.Stability)

	_, err := r.db.ExecContext(ctx, `
UPDATE cards
SET stability = ?, difficulty = ?, elapsed_days = ?, scheduled_days = ?, reps = ?, lapses = ?,
    state = ?, last_review = ?, due = ?, updated_at = ?
WHERE id = ?
`, m.Stability, m.Difficulty, m.ElapsedDays, m.ScheduledDays, m.Reps, m.Lapses,
		string(m.State), m.LastReview, m.Due, updatedAt, id)
	if err != nil {
		log.Error("failed to update card memory: %v", err)
	}
	return err
}

func (r *cardRepository) InsertReview(ctx context.Context, rev models.Review) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting review: card_id=%s, rating=%s", rev.CardID, rev.Rating)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO reviews (id, card_id, user_id, rating, stability_before, difficulty_before, state_before, duration_ms, reviewed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, rev.ID, rev.CardID, rev.UserID, string(rev.Rating), rev.StabilityBefore, rev.DifficultyBefore, string(rev.StateBefore), rev.DurationMs, rev.ReviewedAt)
	if err != nil {
		log.Error("failed to insert review: %v", err)
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.Card, error) {
	var c models.Card
	var clozeText sql.NullString
	var lastReview sql.NullTime
	var state string

	err := row.Scan(&c.ID, &c.HighlightID, &c.CollectionID, &c.UserID, &c.QuestionType, &c.Question, &c.Answer, &clozeText, &c.IsSuspended,
		&c.Stability, &c.Difficulty, &c.ElapsedDays, &c.ScheduledDays, &c.Reps, &c.Lapses, &state, &lastReview, &c.Due, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.State = models.CardState(state)
	if clozeText.Valid {
		c.ClozeText = &clozeText.String
	}
	if lastReview.Valid {
		t := lastReview.Time
		c.LastReview = &t
	}
	return &c, nil
}

func scanCards(rows *sql.Rows) ([]models.Card, error) {
	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}
