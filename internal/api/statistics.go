package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pribylovaa/twaincards-client/internal/models"
)

type Statistics struct {
	d Doer
}

func (s *Statistics) User(ctx context.Context) (*models.UserStatistics, error) {
	const op = "api.statistics.User"

	var resp models.UserStatistics
	if err := get(ctx, s.d, "/api/statistics/user", nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (s *Statistics) Summary(ctx context.Context, days int) (*models.StatisticsSummary, error) {
	const op = "api.statistics.Summary"

	var resp models.StatisticsSummary
	if err := get(ctx, s.d, "/api/statistics/summary", daysQuery(days), &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (s *Statistics) Activity(ctx context.Context, days int) (*models.ActivityStatistics, error) {
	const op = "api.statistics.Activity"

	var resp models.ActivityStatistics
	if err := get(ctx, s.d, "/api/statistics/activity", daysQuery(days), &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func daysQuery(days int) url.Values {
	return url.Values{"days": {strconv.Itoa(days)}}
}
