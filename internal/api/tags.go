package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pribylovaa/twaincards-client/internal/models"
)

type Tags struct {
	d Doer
}

func (t *Tags) All(ctx context.Context) ([]models.Tag, error) {
	return t.list(ctx, "api.tags.All", "/api/tags", nil)
}

func (t *Tags) ByID(ctx context.Context, id int64) (*models.Tag, error) {
	return t.one(ctx, "api.tags.ByID", idPath("/api/tags/%d", id))
}

func (t *Tags) ByName(ctx context.Context, name string) (*models.Tag, error) {
	return t.one(ctx, "api.tags.ByName", "/api/tags/name/"+url.PathEscape(name))
}

func (t *Tags) Search(ctx context.Context, query string) ([]models.Tag, error) {
	return t.list(ctx, "api.tags.Search", "/api/tags/search", url.Values{"query": {query}})
}

func (t *Tags) ByCollection(ctx context.Context, collectionID int64) ([]models.Tag, error) {
	return t.list(ctx, "api.tags.ByCollection", idPath("/api/tags/collection/%d", collectionID), nil)
}

// Popular — самые используемые теги.
func (t *Tags) Popular(ctx context.Context, limit int) ([]models.Tag, error) {
	return t.list(ctx, "api.tags.Popular", "/api/tags/popular", url.Values{"limit": {strconv.Itoa(limit)}})
}

func (t *Tags) Create(ctx context.Context, name string) (*models.Tag, error) {
	const op = "api.tags.Create"

	var resp models.Tag
	if err := post(ctx, t.d, "/api/tags", map[string]string{"name": name}, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (t *Tags) Update(ctx context.Context, id int64, name string) (*models.Tag, error) {
	const op = "api.tags.Update"

	var resp models.Tag
	if err := put(ctx, t.d, idPath("/api/tags/%d", id), map[string]string{"name": name}, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (t *Tags) Delete(ctx context.Context, id int64) error {
	const op = "api.tags.Delete"

	if err := del(ctx, t.d, idPath("/api/tags/%d", id)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (t *Tags) one(ctx context.Context, op, path string) (*models.Tag, error) {
	var resp models.Tag
	if err := get(ctx, t.d, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (t *Tags) list(ctx context.Context, op, path string, q url.Values) ([]models.Tag, error) {
	var resp []models.Tag
	if err := get(ctx, t.d, path, q, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}
