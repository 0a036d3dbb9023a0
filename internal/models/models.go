package models

import "time"

// Collection groups the highlights imported from a single source.
type Collection struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Author         string    `json:"author"`
	SourceType     string    `json:"source_type"` // web_article, manual, kindle, epub, pdf
	HighlightCount int       `json:"highlight_count"`
	CardCount      int       `json:"card_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Highlight is a single highlighted passage within a collection.
type Highlight struct {
	ID           string    `json:"id"`
	CollectionID string    `json:"collection_id"`
	UserID       string    `json:"user_id"`
	Text         string    `json:"text"`
	Note         *string   `json:"note"`
	Chapter      *string   `json:"chapter"`
	PageNumber   *int      `json:"page_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
