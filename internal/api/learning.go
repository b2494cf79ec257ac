package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pribylovaa/twaincards-client/internal/models"
)

type Learning struct {
	d Doer
}

// CardsToLearn — очередная порция карточек коллекции для изучения.
func (l *Learning) CardsToLearn(ctx context.Context, collectionID int64, limit int) ([]models.Card, error) {
	const op = "api.learning.CardsToLearn"

	q := url.Values{
		"collectionId": {strconv.FormatInt(collectionID, 10)},
		"limit":        {strconv.Itoa(limit)},
	}

	var resp []models.Card
	if err := get(ctx, l.d, "/api/learning/cards-to-learn", q, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

// CardsForReview — карточки, которые пора повторить. collectionID == 0 —
// по всем коллекциям.
func (l *Learning) CardsForReview(ctx context.Context, collectionID int64, limit int) ([]models.Card, error) {
	const op = "api.learning.CardsForReview"

	path := "/api/learning/cards-for-review"
	if collectionID != 0 {
		path = idPath("/api/learning/cards-for-review/collection/%d", collectionID)
	}

	var resp []models.Card
	if err := get(ctx, l.d, path, url.Values{"limit": {strconv.Itoa(limit)}}, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

func (l *Learning) Answer(ctx context.Context, req models.CardAnswerRequest) (*models.LearningProgress, error) {
	const op = "api.learning.Answer"

	var resp models.LearningProgress
	if err := post(ctx, l.d, "/api/learning/answer", req, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (l *Learning) ResetCard(ctx context.Context, cardID int64) error {
	const op = "api.learning.ResetCard"

	if err := post(ctx, l.d, idPath("/api/learning/reset-progress/card/%d", cardID), nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (l *Learning) ResetCollection(ctx context.Context, collectionID int64) error {
	const op = "api.learning.ResetCollection"

	if err := post(ctx, l.d, idPath("/api/learning/reset-progress/collection/%d", collectionID), nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (l *Learning) StatusStatistics(ctx context.Context) ([]models.StatusStatistics, error) {
	const op = "api.learning.StatusStatistics"

	var resp []models.StatusStatistics
	if err := get(ctx, l.d, "/api/learning/status-statistics", nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}
