package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pribylovaa/twaincards-client/internal/models"
)

type Languages struct {
	d Doer
}

func (l *Languages) All(ctx context.Context) ([]models.Language, error) {
	const op = "api.languages.All"

	var resp []models.Language
	if err := get(ctx, l.d, "/api/languages", nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

// ByCode ищет язык по ISO-коду ("en", "ru").
func (l *Languages) ByCode(ctx context.Context, code string) (*models.Language, error) {
	const op = "api.languages.ByCode"

	var resp models.Language
	if err := get(ctx, l.d, "/api/languages/code/"+url.PathEscape(code), nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}
