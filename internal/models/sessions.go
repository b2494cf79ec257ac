package models

type CreateSessionRequest struct {
	CollectionID int64  `json:"collectionId"`
	DeviceType   string `json:"deviceType,omitempty"`
	Platform     string `json:"platform,omitempty"`
}

type StudySession struct {
	ID             int64   `json:"id"`
	CollectionID   int64   `json:"collectionId,omitempty"`
	CardsReviewed  int     `json:"cardsReviewed"`
	CorrectAnswers int     `json:"correctAnswers"`
	AccuracyRate   float64 `json:"accuracyRate"`
	IsCompleted    bool    `json:"isCompleted"`
	CollectionIDs  []int64 `json:"collectionIds,omitempty"`
	StartTime      string  `json:"startTime,omitempty"`
	EndTime        string  `json:"endTime,omitempty"`
}

type CompleteSessionRequest struct {
	SessionID      int64 `json:"sessionId"`
	CardsReviewed  int   `json:"cardsReviewed"`
	CorrectAnswers int   `json:"correctAnswers"`
}

type SessionSummary struct {
	SessionID        int64   `json:"sessionId,omitempty"`
	CardsStudied     int     `json:"cardsStudied"`
	CorrectAnswers   int     `json:"correctAnswers"`
	IncorrectAnswers int     `json:"incorrectAnswers"`
	SuccessRate      float64 `json:"successRate"`
	CollectionName   string  `json:"collectionName,omitempty"`
	CollectionID     int64   `json:"collectionId,omitempty"`
	TimeSpentSeconds int64   `json:"timeSpentSeconds"`
}

type StudySessionStats struct {
	TotalSessions       int64   `json:"totalSessions"`
	TotalCardsReviewed  int64   `json:"totalCardsReviewed"`
	TotalCorrectAnswers int64   `json:"totalCorrectAnswers"`
	AverageAccuracy     float64 `json:"averageAccuracy"`
}
