package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pribylovaa/twaincards-client/internal/models"
)

// StudySessions — учебные сессии.
type StudySessions struct {
	d Doer
}

// Create открывает сессию; 403 — исчерпан дневной лимит.
func (s *StudySessions) Create(ctx context.Context, req models.CreateSessionRequest) (*models.StudySession, error) {
	const op = "api.sessions.Create"

	var resp models.StudySession
	if err := post(ctx, s.d, "/api/study-sessions", req, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (s *StudySessions) ByID(ctx context.Context, id int64) (*models.StudySession, error) {
	const op = "api.sessions.ByID"

	var resp models.StudySession
	if err := get(ctx, s.d, idPath("/api/study-sessions/%d", id), nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (s *StudySessions) Complete(ctx context.Context, req models.CompleteSessionRequest) (*models.SessionSummary, error) {
	const op = "api.sessions.Complete"

	var resp models.SessionSummary
	if err := post(ctx, s.d, "/api/study-sessions/complete", req, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (s *StudySessions) Summaries(ctx context.Context, page, size int) (*models.Page[models.SessionSummary], error) {
	const op = "api.sessions.Summaries"

	var resp models.Page[models.SessionSummary]
	if err := get(ctx, s.d, "/api/study-sessions/user/summaries", pageQuery(page, size), &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (s *StudySessions) ForCollection(ctx context.Context, collectionID int64, limit int) ([]models.StudySession, error) {
	const op = "api.sessions.ForCollection"

	var resp []models.StudySession
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := get(ctx, s.d, idPath("/api/study-sessions/collection/%d", collectionID), q, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

// Stats — агрегат сессий за последние days дней.
func (s *StudySessions) Stats(ctx context.Context, days int) (*models.StudySessionStats, error) {
	const op = "api.sessions.Stats"

	var resp models.StudySessionStats
	q := url.Values{"days": {strconv.Itoa(days)}}
	if err := get(ctx, s.d, "/api/study-sessions/stats", q, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}
