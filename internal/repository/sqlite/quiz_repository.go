package sqlite

import (
	"context"
	"database/sql"

	"github.com/hugompham/marginalia/internal/logger"
	"github.com/hugompham/marginalia/internal/models"
	"github.com/hugompham/marginalia/internal/repository"
)

type quizRepository struct {
	db *sql.DB
}

// NewQuizRepository creates a new QuizRepository implementation.
func NewQuizRepository(db *sql.DB) repository.QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) InsertResult(ctx context.Context, res models.QuizResult) error {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")
	log.Debug("inserting quiz result: id=%s, score=%d", res.ID, res.ScorePercent)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO quiz_results (id, user_id, collection_id, total_questions, correct_count, score_percent, total_time_ms, completed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, res.ID, res.UserID, res.CollectionID, res.TotalQuestions, res.CorrectCount, res.ScorePercent, res.TotalTimeMs, res.CompletedAt)
	if err != nil {
		log.Error("failed to insert quiz result: %v", err)
		return err
	}

	for _, a := range res.Answers {
		_, err = tx.ExecContext(ctx, `
INSERT INTO quiz_answers (result_id, question_index, user_answer, is_correct, time_ms)
VALUES (?, ?, ?, ?, ?)
`, res.ID, a.QuestionIndex, a.UserAnswer, a.IsCorrect, a.TimeMs)
		if err != nil {
			log.Error("failed to insert quiz answer: %v", err)
			return err
		}
	}

	return tx.Commit()
}

func (r *quizRepository) ListResults(ctx context.Context, userID, collectionID string) ([]models.QuizResult, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")
	log.Debug("listing quiz results: user_id=%s, collection_id=%s", userID, collectionID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, collection_id, total_questions, correct_count, score_percent, total_time_ms, completed_at
FROM quiz_results
WHERE user_id = ? AND collection_id = ?
ORDER BY completed_at DESC
`, userID, collectionID)
	if err != nil {
		log.Error("failed to list quiz results: %v", err)
		return nil, err
	}
	defer rows.Close()

	var results []models.QuizResult
	for rows.Next() {
		var res models.QuizResult
		if err := rows.Scan(&res.ID, &res.UserID, &res.CollectionID, &res.TotalQuestions,
			&res.CorrectCount, &res.ScorePercent, &res.TotalTimeMs, &res.CompletedAt); err != nil {
			log.Error("failed to scan quiz result: %v", err)
			return nil, err
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range results {
		answers, err := r.listAnswers(ctx, results[i].ID)
		if err != nil {
			log.Error("failed to load quiz answers: %v", err)
			return nil, err
		}
		results[i].Answers = answers
	}
	log.Debug("found %d quiz results", len(results))
	return results, nil
}

func (r *quizRepository) listAnswers(ctx context.Context, resultID string) ([]models.QuizAnswer, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT question_index, user_answer, is_correct, time_ms
FROM quiz_answers
WHERE result_id = ?
ORDER BY question_index ASC
`, resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []models.QuizAnswer
	for rows.Next() {
		var a models.QuizAnswer
		if err := rows.Scan(&a.QuestionIndex, &a.UserAnswer, &a.IsCorrect, &a.TimeMs); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
