package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pribylovaa/twaincards-client/internal/clients"
	"github.com/pribylovaa/twaincards-client/internal/models"
)

// GuardProfile — ключ защиты от повторной загрузки профиля.
const GuardProfile = "users.me"

type Users struct {
	d Doer
}

// Me загружает профиль текущего пользователя. Пока идёт такой же запрос,
// повторный отклоняется с clients.ErrCanceled.
func (u *Users) Me(ctx context.Context) (*models.User, error) {
	const op = "api.users.Me"

	var resp models.User
	err := u.d.Do(ctx, &clients.Request{
		Method: http.MethodGet,
		Path:   "/api/users/me",
		Guard:  GuardProfile,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (u *Users) ByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "api.users.ByID"

	var resp models.User
	if err := get(ctx, u.d, idPath("/api/users/%d", id), nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (u *Users) UpdateMe(ctx context.Context, req models.UpdateUserRequest) (*models.User, error) {
	const op = "api.users.UpdateMe"

	var resp models.User
	if err := put(ctx, u.d, "/api/users/me", req, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (u *Users) ChangePassword(ctx context.Context, req models.PasswordChangeRequest) error {
	const op = "api.users.ChangePassword"

	if err := post(ctx, u.d, "/api/users/change-password", req, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// List — все пользователи; доступно только администратору (иначе 403).
func (u *Users) List(ctx context.Context) ([]models.User, error) {
	const op = "api.users.List"

	var resp []models.User
	if err := get(ctx, u.d, "/api/users", nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}
