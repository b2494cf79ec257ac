package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/pribylovaa/twaincards-client/internal/clients"
	"github.com/pribylovaa/twaincards-client/internal/models"
	"github.com/pribylovaa/twaincards-client/internal/pkg/log"
	"github.com/pribylovaa/twaincards-client/internal/pkg/redact"
)

// ErrInvalidResponse — сервер ответил без токена.
var ErrInvalidResponse = errors.New("invalid response from server")

// Auth — вход, регистрация и сброс пароля.
type Auth struct {
	d      Doer
	tokens Tokens
}

// Login входит по имени или e-mail и сохраняет токен с DefaultExpiresIn.
func (a *Auth) Login(ctx context.Context, usernameOrEmail, password string) (*models.AuthResponse, error) {
	const op = "api.auth.Login"

	var resp models.AuthResponse
	err := post(ctx, a.d, clients.LoginPath, models.LoginRequest{
		UsernameOrEmail: usernameOrEmail,
		Password:        password,
	}, &resp)
	if err != nil {
		log.From(ctx).Debug("login_failed",
			slog.String("op", op),
			slog.String("user", usernameOrEmail),
			slog.String("password", redact.Password()),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if resp.Token == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidResponse)
	}

	// Срок жизни сервер не сообщает: берётся значение по умолчанию.
	a.tokens.Save(ctx, resp.Token, 0)

	log.From(ctx).Info("login_succeeded",
		slog.String("op", op),
		slog.String("username", resp.Username),
		slog.String("email", redact.Email(resp.Email)),
	)

	return &resp, nil
}

func (a *Auth) Register(ctx context.Context, req models.RegisterRequest) (*models.MessageResponse, error) {
	const op = "api.auth.Register"

	var resp models.MessageResponse
	if err := post(ctx, a.d, clients.RegisterPath, req, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

// Refresh явно обновляет токен по cookie сессии.
func (a *Auth) Refresh(ctx context.Context) (*models.RefreshResponse, error) {
	const op = "api.auth.Refresh"

	var resp models.RefreshResponse
	if err := post(ctx, a.d, clients.RefreshPath, nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidResponse)
	}

	a.tokens.Save(ctx, resp.Token, time.Duration(resp.ExpiresIn)*time.Second)

	return &resp, nil
}

func (a *Auth) ConfirmEmail(ctx context.Context, token string) (*models.MessageResponse, error) {
	const op = "api.auth.ConfirmEmail"

	var resp models.MessageResponse
	if err := get(ctx, a.d, clients.ConfirmEmailPath, url.Values{"token": {token}}, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (a *Auth) Status(ctx context.Context) (*models.AuthStatus, error) {
	const op = "api.auth.Status"

	var resp models.AuthStatus
	if err := get(ctx, a.d, clients.StatusPath, nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (a *Auth) RequestPasswordReset(ctx context.Context, email string) (*models.MessageResponse, error) {
	const op = "api.auth.RequestPasswordReset"

	var resp models.MessageResponse
	if err := post(ctx, a.d, clients.RequestPasswordResetPath, models.PasswordResetRequest{Email: email}, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (a *Auth) ResetPassword(ctx context.Context, token, newPassword string) (*models.MessageResponse, error) {
	const op = "api.auth.ResetPassword"

	var resp models.MessageResponse
	err := post(ctx, a.d, clients.ResetPasswordPath, models.PasswordResetConfirm{
		Token:       token,
		NewPassword: newPassword,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

// Logout — только на клиенте: токен удаляется, сервер не вызывается.
func (a *Auth) Logout(ctx context.Context) {
	a.tokens.Clear(ctx)
	log.From(ctx).Info("logout")
}
