package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pribylovaa/twaincards-client/internal/models"
)

type Collections struct {
	d Doer
}

// ListMine — страница коллекций текущего пользователя.
func (c *Collections) ListMine(ctx context.Context, page, size int) (*models.Page[models.Collection], error) {
	const op = "api.collections.ListMine"

	var resp models.Page[models.Collection]
	if err := get(ctx, c.d, "/api/collections/user/page", pageQuery(page, size), &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (c *Collections) ByID(ctx context.Context, id int64) (*models.Collection, error) {
	const op = "api.collections.ByID"

	var resp models.Collection
	if err := get(ctx, c.d, idPath("/api/collections/%d", id), nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (c *Collections) Create(ctx context.Context, req models.CollectionRequest) (*models.Collection, error) {
	const op = "api.collections.Create"

	var resp models.Collection
	if err := post(ctx, c.d, "/api/collections", req, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (c *Collections) Update(ctx context.Context, id int64, req models.CollectionRequest) (*models.Collection, error) {
	const op = "api.collections.Update"

	var resp models.Collection
	if err := put(ctx, c.d, idPath("/api/collections/%d", id), req, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (c *Collections) Delete(ctx context.Context, id int64) error {
	const op = "api.collections.Delete"

	if err := del(ctx, c.d, idPath("/api/collections/%d", id)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Collections) Public(ctx context.Context, page, size int) (*models.Page[models.Collection], error) {
	const op = "api.collections.Public"

	var resp models.Page[models.Collection]
	if err := get(ctx, c.d, "/api/collections/public", pageQuery(page, size), &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (c *Collections) SearchPublic(ctx context.Context, query string, page, size int) (*models.Page[models.Collection], error) {
	const op = "api.collections.SearchPublic"

	return c.search(ctx, op, "/api/collections/public/search", query, page, size)
}

func (c *Collections) SearchMine(ctx context.Context, query string, page, size int) (*models.Page[models.Collection], error) {
	const op = "api.collections.SearchMine"

	return c.search(ctx, op, "/api/collections/user/search", query, page, size)
}

func (c *Collections) search(ctx context.Context, op, path, query string, page, size int) (*models.Page[models.Collection], error) {
	q := pageQuery(page, size)
	q.Set("query", query)

	var resp models.Page[models.Collection]
	if err := get(ctx, c.d, path, q, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

// Recent — последние изученные коллекции пользователя.
func (c *Collections) Recent(ctx context.Context, limit int) ([]models.Collection, error) {
	const op = "api.collections.Recent"

	var resp []models.Collection
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := get(ctx, c.d, "/api/collections/user/recent", q, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

func (c *Collections) SetPublic(ctx context.Context, id int64, public bool) (*models.Collection, error) {
	const op = "api.collections.SetPublic"

	var resp models.Collection
	body := map[string]bool{"isPublic": public}
	if err := put(ctx, c.d, idPath("/api/collections/%d/public", id), body, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

// UsersCount — сколько пользователей изучают коллекцию.
func (c *Collections) UsersCount(ctx context.Context, id int64) (int64, error) {
	const op = "api.collections.UsersCount"

	var n int64
	if err := get(ctx, c.d, idPath("/api/collections/%d/users-count", id), nil, &n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}
