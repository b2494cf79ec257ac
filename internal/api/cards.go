package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pribylovaa/twaincards-client/internal/models"
)

type Cards struct {
	d Doer
}

func (c *Cards) ByCollection(ctx context.Context, collectionID int64, page, size int) (*models.Page[models.Card], error) {
	const op = "api.cards.ByCollection"

	var resp models.Page[models.Card]
	path := idPath("/api/cards/collection/%d/page", collectionID)
	if err := get(ctx, c.d, path, pageQuery(page, size), &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (c *Cards) ByID(ctx context.Context, id int64) (*models.Card, error) {
	const op = "api.cards.ByID"

	var resp models.Card
	if err := get(ctx, c.d, idPath("/api/cards/%d", id), nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (c *Cards) Create(ctx context.Context, req models.CardRequest) (*models.Card, error) {
	const op = "api.cards.Create"

	var resp models.Card
	if err := post(ctx, c.d, "/api/cards", req, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (c *Cards) Update(ctx context.Context, id int64, req models.CardRequest) (*models.Card, error) {
	const op = "api.cards.Update"

	var resp models.Card
	if err := put(ctx, c.d, idPath("/api/cards/%d", id), req, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (c *Cards) Delete(ctx context.Context, id int64) error {
	const op = "api.cards.Delete"

	if err := del(ctx, c.d, idPath("/api/cards/%d", id)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Search ищет карточки коллекции по тексту.
func (c *Cards) Search(ctx context.Context, collectionID int64, query string) ([]models.Card, error) {
	const op = "api.cards.Search"

	var resp []models.Card
	q := url.Values{
		"collectionId": {strconv.FormatInt(collectionID, 10)},
		"query":        {query},
	}
	if err := get(ctx, c.d, "/api/cards/search", q, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

func (c *Cards) ByTag(ctx context.Context, collectionID int64, tag string) ([]models.Card, error) {
	const op = "api.cards.ByTag"

	var resp []models.Card
	q := url.Values{
		"collectionId": {strconv.FormatInt(collectionID, 10)},
		"tagName":      {tag},
	}
	if err := get(ctx, c.d, "/api/cards/by-tag", q, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

// AddTags добавляет теги к карточке; тело — массив имён.
func (c *Cards) AddTags(ctx context.Context, cardID int64, names []string) (*models.Card, error) {
	const op = "api.cards.AddTags"

	var resp models.Card
	if err := post(ctx, c.d, idPath("/api/cards/%d/tags", cardID), names, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (c *Cards) RemoveTag(ctx context.Context, cardID int64, name string) error {
	const op = "api.cards.RemoveTag"

	path := idPath("/api/cards/%d/tags/", cardID) + url.PathEscape(name)
	if err := del(ctx, c.d, path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
