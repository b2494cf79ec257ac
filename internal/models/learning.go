package models

// CardAnswerRequest — ответ пользователя на карточку.
// SessionID не передаётся, пока сессия на бэкенде не создана.
type CardAnswerRequest struct {
	CardID         int64  `json:"cardId"`
	IsCorrect      bool   `json:"isCorrect"`
	ResponseTimeMs int64  `json:"responseTimeMs"`
	SessionID      *int64 `json:"sessionId,omitempty"`
}

type LearningProgress struct {
	ID               int64   `json:"id"`
	UserID           int64   `json:"userId"`
	CardID           int64   `json:"cardId"`
	FrontText        string  `json:"frontText,omitempty"`
	BackText         string  `json:"backText,omitempty"`
	CollectionID     int64   `json:"collectionId"`
	CollectionName   string  `json:"collectionName,omitempty"`
	RepetitionCount  int     `json:"repetitionCount"`
	CorrectAnswers   int     `json:"correctAnswers"`
	IncorrectAnswers int     `json:"incorrectAnswers"`
	EaseFactor       float64 `json:"easeFactor"`
	NextReviewDate   string  `json:"nextReviewDate,omitempty"`
	LearningStatus   string  `json:"learningStatus"`
	LastReviewedAt   string  `json:"lastReviewedAt,omitempty"`
	SuccessRate      float64 `json:"successRate"`
}

type StatusStatistics struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// StudyLimit — дневной лимит изучения.
type StudyLimit struct {
	HasLimit       bool `json:"hasLimit"`
	DailyLimit     int  `json:"dailyLimit"`
	RemainingCards int  `json:"remainingCards"`
}
