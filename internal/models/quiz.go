package models

import "time"

// QuizQuestion is a one-shot question presented during a quiz. Unlike
// cards, quiz questions carry no scheduling state.
type QuizQuestion struct {
	HighlightID   string   `json:"highlight_id"`
	Type          string   `json:"type"` // multiple_choice, true_false, short_answer
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Options       []string `json:"options,omitempty"`
}

// QuizAnswer records the user's answer to one quiz question.
type QuizAnswer struct {
	QuestionIndex int    `json:"question_index"`
	UserAnswer    string `json:"user_answer"`
	IsCorrect     bool   `json:"is_correct"`
	TimeMs        int64  `json:"time_ms"`
}

// QuizResult is the persisted summary of a completed quiz.
type QuizResult struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	CollectionID   string       `json:"collection_id"`
	TotalQuestions int          `json:"total_questions"`
	CorrectCount   int          `json:"correct_count"`
	ScorePercent   int          `json:"score_percent"`
	TotalTimeMs    int64        `json:"total_time_ms"`
	Answers        []QuizAnswer `json:"answers"`
	CompletedAt    time.Time    `json:"completed_at"`
}
