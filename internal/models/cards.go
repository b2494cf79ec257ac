package models

// Статусы изучения карточки.
const (
	StatusNew      = "NEW"
	StatusLearning = "LEARNING"
	StatusReview   = "REVIEW"
	StatusKnown    = "KNOWN"
)

type Card struct {
	ID               int64  `json:"id"`
	CollectionID     int64  `json:"collectionId"`
	FrontText        string `json:"frontText"`
	BackText         string `json:"backText"`
	PhoneticText     string `json:"phoneticText,omitempty"`
	ExampleUsage     string `json:"exampleUsage,omitempty"`
	LearningStatus   string `json:"learningStatus,omitempty"`
	RepetitionCount  int    `json:"repetitionCount"`
	CorrectAnswers   int    `json:"correctAnswers"`
	IncorrectAnswers int    `json:"incorrectAnswers"`
	NextReviewDate   string `json:"nextReviewDate,omitempty"`
	Tags             []Tag  `json:"tags,omitempty"`
}

type CardRequest struct {
	CollectionID int64    `json:"collectionId"`
	FrontText    string   `json:"frontText"`
	BackText     string   `json:"backText"`
	PhoneticText string   `json:"phoneticText,omitempty"`
	ExampleUsage string   `json:"exampleUsage,omitempty"`
	TagNames     []string `json:"tagNames,omitempty"`
}

type Tag struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
	CardCount int    `json:"cardCount"`
}
