package clients

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/twaincards-client/internal/apitest"
	"github.com/pribylovaa/twaincards-client/internal/models"
	"github.com/pribylovaa/twaincards-client/internal/token"
	"github.com/pribylovaa/twaincards-client/internal/token/store"
)

// newSessionClient — клиент с сохранением cookie в tm; как отдельный запуск CLI.
func newSessionClient(t *testing.T, b *apitest.Backend, tm *token.Manager, l *slog.Logger) *Client {
	t.Helper()

	c, err := New(tm, Options{
		BaseURL:   b.URL(),
		Timeout:   5 * time.Second,
		Logger:    l,
		Navigator: &fakeNav{location: "/whoami"},
		Sessions:  tm,
	})
	require.NoError(t, err)

	return c
}

func TestSessions_CookieSurvivesNewClient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := apitest.New(t)
	tm := token.New(store.NewMemory())
	silent := slog.New(slog.NewTextHandler(io.Discard, nil))

	first := newSessionClient(t, b, tm, silent)

	var resp models.AuthResponse
	require.NoError(t, first.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   LoginPath,
		Body:   models.LoginRequest{UsernameOrEmail: "mark", Password: "secret"},
	}, &resp))
	tm.Save(ctx, resp.Token, time.Hour)

	raw, ok := tm.Session(ctx)
	require.True(t, ok)
	require.Contains(t, raw, apitest.SessionCookie)

	b.ExpireAll()

	second := newSessionClient(t, b, tm, silent)

	var me models.User
	require.NoError(t, second.Do(ctx, &Request{Method: http.MethodGet, Path: "/api/users/me"}, &me))
	require.Equal(t, "mark", me.Username)
	require.Equal(t, 1, b.RefreshCalls())

	refreshes := b.RequestsTo(RefreshPath)
	require.Len(t, refreshes, 1)
	require.Empty(t, refreshes[0].Authorization)
}

func TestSessions_WithoutStoreCookieIsLost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv(t)

	e.login(t, time.Hour)
	e.backend.ExpireAll()

	other, err := New(e.tokens, Options{BaseURL: e.backend.URL(), Navigator: e.nav,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)

	err = other.Do(ctx, &Request{Method: http.MethodGet, Path: "/api/users/me"}, nil)
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestSessions_CorruptValueIsIgnored(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := apitest.New(t)
	tm := token.New(store.NewMemory())
	tm.SaveSession(ctx, "{not json")

	var buf bytes.Buffer
	c := newSessionClient(t, b, tm, slog.New(slog.NewTextHandler(&buf, nil)))
	require.NotNil(t, c)
	require.True(t, strings.Contains(buf.String(), "session_cookie_corrupt"))

	// Вход перезаписывает испорченное значение.
	require.NoError(t, c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   LoginPath,
		Body:   models.LoginRequest{UsernameOrEmail: "mark", Password: "secret"},
	}, nil))

	raw, ok := tm.Session(ctx)
	require.True(t, ok)
	require.Contains(t, raw, apitest.SessionCookie)
}

func TestSessions_ClearDropsCookie(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := apitest.New(t)
	tm := token.New(store.NewMemory())
	silent := slog.New(slog.NewTextHandler(io.Discard, nil))

	first := newSessionClient(t, b, tm, silent)
	require.NoError(t, first.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   LoginPath,
		Body:   models.LoginRequest{UsernameOrEmail: "mark", Password: "secret"},
	}, nil))

	tm.Clear(ctx)
	_, ok := tm.Session(ctx)
	require.False(t, ok)

	b.ExpireAll()
	second := newSessionClient(t, b, tm, silent)
	err := second.Do(ctx, &Request{Method: http.MethodGet, Path: "/api/users/me"}, nil)
	require.ErrorIs(t, err, ErrSessionExpired)
}
