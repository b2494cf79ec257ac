package models

// Page — страница Spring Data.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

type Collection struct {
	ID                   int64   `json:"id"`
	UserID               int64   `json:"userId"`
	Username             string  `json:"username,omitempty"`
	Name                 string  `json:"name"`
	Description          string  `json:"description,omitempty"`
	SourceLanguageID     int64   `json:"sourceLanguageId"`
	SourceLanguageName   string  `json:"sourceLanguageName,omitempty"`
	SourceLanguageCode   string  `json:"sourceLanguageCode,omitempty"`
	TargetLanguageID     int64   `json:"targetLanguageId"`
	TargetLanguageName   string  `json:"targetLanguageName,omitempty"`
	TargetLanguageCode   string  `json:"targetLanguageCode,omitempty"`
	IsPublic             bool    `json:"isPublic"`
	CreatedAt            string  `json:"createdAt,omitempty"`
	UpdatedAt            string  `json:"updatedAt,omitempty"`
	CardCount            int     `json:"cardCount"`
	LearnedCardCount     int     `json:"learnedCardCount"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

type CollectionRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	SourceLanguageID int64  `json:"sourceLanguageId"`
	TargetLanguageID int64  `json:"targetLanguageId"`
	IsPublic         bool   `json:"isPublic"`
}
