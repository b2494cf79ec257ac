package api

import (
	"context"

	"github.com/pribylovaa/twaincards-client/internal/models"
)

// StudyGateway — вызовы API для учебной сессии (study.Backend).
type StudyGateway struct {
	learning *Learning
	sessions *StudySessions
}

func (g *StudyGateway) CardsToLearn(ctx context.Context, collectionID int64, limit int) ([]models.Card, error) {
	return g.learning.CardsToLearn(ctx, collectionID, limit)
}

func (g *StudyGateway) CreateSession(ctx context.Context, req models.CreateSessionRequest) (*models.StudySession, error) {
	return g.sessions.Create(ctx, req)
}

// RecordAnswer отбрасывает обновлённый прогресс: сессии он не нужен.
func (g *StudyGateway) RecordAnswer(ctx context.Context, req models.CardAnswerRequest) error {
	_, err := g.learning.Answer(ctx, req)
	return err
}

func (g *StudyGateway) CompleteSession(ctx context.Context, req models.CompleteSessionRequest) (*models.SessionSummary, error) {
	return g.sessions.Complete(ctx, req)
}
