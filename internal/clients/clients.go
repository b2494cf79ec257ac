// clients — HTTP-клиент REST API TwainCards с прозрачным обновлением токена.
//
// Каждый запрос получает Bearer-токен из TokenSource (кроме публичных
// эндпоинтов /api/auth/*). Ответ 401 запускает одно общее обновление токена:
// остальные запросы с 401 ждут его результата и повторяются с новым токеном.
// Повторный запрос больше не обновляет токен. Если обновление не удалось,
// токен удаляется, а Navigator переводит пользователя на вход.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/publicsuffix"

	apierrors "github.com/pribylovaa/twaincards-client/internal/errors"
	"github.com/pribylovaa/twaincards-client/internal/clients/interceptors"
	"github.com/pribylovaa/twaincards-client/internal/metrics"
	"github.com/pribylovaa/twaincards-client/internal/models"
	"github.com/pribylovaa/twaincards-client/internal/pkg/log"
)

// DefaultTimeout — общий таймаут запроса, если он не задан.
const DefaultTimeout = 30 * time.Second

var (
	// ErrSessionExpired — токен обновить не удалось, нужен повторный вход.
	ErrSessionExpired = errors.New("session expired")
	// ErrCanceled — такой же запрос уже выполняется.
	ErrCanceled = errors.New("request canceled: duplicate in flight")
	// ErrEmptyToken — сервер ответил без токена.
	ErrEmptyToken = errors.New("empty token in response")
)

// TokenSource — хранилище токена доступа (token.Manager).
type TokenSource interface {
	Get(ctx context.Context) (string, bool)
	Save(ctx context.Context, token string, expiresIn time.Duration)
	Clear(ctx context.Context)
}

// Options — параметры клиента.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Tracer    trace.Tracer
	Navigator Navigator
	// Transport — базовый транспорт; по умолчанию http.DefaultTransport.
	Transport http.RoundTripper
	// Sessions сохраняет cookie сессии между запусками; nil — только в памяти.
	Sessions SessionStore
}

// Request — один вызов API.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body сериализуется в JSON; nil — без тела.
	Body any
	// Guard — ключ защиты от дублей: пока запрос с этим ключом выполняется,
	// такой же запрос отклоняется с ErrCanceled.
	Guard string
}

// Client — клиент API.
type Client struct {
	base      *url.URL
	http      *http.Client
	tokens    TokenSource
	nav       Navigator
	log       *slog.Logger
	metrics   *metrics.Metrics
	refresher refresher
	guards    guardSet
}

// New собирает клиент: цепочка раунд-трипперов, cookie jar, навигатор.
func New(tokens TokenSource, opts Options) (*Client, error) {
	const op = "clients.New"

	if tokens == nil {
		return nil, fmt.Errorf("%s: nil token source", op)
	}

	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: parse base url: %w", op, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%s: base url %q must be absolute", op, opts.BaseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("%s: cookie jar: %w", op, err)
	}

	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Navigator == nil {
		opts.Navigator = nopNavigator{}
	}

	var cj http.CookieJar = jar
	if opts.Sessions != nil {
		cj = newPersistentJar(jar, base, opts.Sessions, opts.Logger)
	}

	rt := interceptors.Chain(opts.Transport,
		interceptors.WithTracing(opts.Tracer),
		interceptors.WithMetadata(opts.UserAgent),
		interceptors.WithTimeout(opts.Timeout),
		interceptors.WithLogging(opts.Logger),
		interceptors.WithMetrics(opts.Metrics),
	)

	return &Client{
		base:    base,
		http:    &http.Client{Transport: rt, Jar: cj},
		tokens:  tokens,
		nav:     opts.Navigator,
		log:     opts.Logger,
		metrics: opts.Metrics,
	}, nil
}

// Do выполняет запрос и декодирует JSON-ответ в out (nil — тело отбрасывается).
//
// Ошибки:
//   - *apierrors.Error — ответ API с кодом >= 400 (в т.ч. 403, без повтора);
//   - ErrSessionExpired — обновить токен не удалось;
//   - ErrCanceled — запрос с тем же Guard уже выполняется;
//   - ошибки контекста и транспорта — как есть, с префиксом op.
func (c *Client) Do(ctx context.Context, r *Request, out any) error {
	const op = "clients.Client.Do"

	if r.Guard != "" {
		if !c.guards.acquire(r.Guard) {
			return fmt.Errorf("%s: %s %s: %w", op, r.Method, r.Path, ErrCanceled)
		}
		defer c.guards.release(r.Guard)
	}

	body, err := encodeBody(r.Body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var tok string
	if !isPublicPath(r.Path) {
		tok, _ = c.tokens.Get(ctx)
	}

	resp, err := c.send(ctx, r, body, tok)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return c.decode(ctx, resp, out)
	}
	drain(resp)

	l := log.From(ctx).With(slog.String("op", op), slog.String("path", r.Path))

	// 401 от самого эндпоинта обновления — сессии больше нет.
	if r.Path == RefreshPath {
		l.Warn("refresh_unauthorized")
		c.tokens.Clear(ctx)
		c.nav.RedirectToLogin("refresh token rejected")
		return fmt.Errorf("%s: %w", op, ErrSessionExpired)
	}

	fresh, err := c.refreshToken(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Повтор: второй 401 возвращается вызывающему без нового обновления.
	resp, err = c.send(ctx, r, body, fresh)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return c.decode(ctx, resp, out)
}

// refreshToken возвращает свежий токен: либо сам ведёт обновление, либо ждёт
// уже идущее.
func (c *Client) refreshToken(ctx context.Context) (string, error) {
	const op = "clients.Client.refreshToken"

	l := log.From(ctx).With(slog.String("op", op))

	// Обновление не зависит от отмены запроса, который его начал:
	// его результат нужен и остальным ожидающим.
	rctx := context.WithoutCancel(ctx)

	var queued bool
	tok, leader, err := c.refresher.do(ctx, func() (string, error) {
		l.Info("refresh_started")
		return c.callRefresh(rctx)
	})
	if !leader {
		queued = true
		c.metrics.Refresh(metrics.RefreshQueued)
	}

	switch {
	case err == nil:
		if leader {
			l.Info("refresh_succeeded")
			c.metrics.Refresh(metrics.RefreshSuccess)
		}
		return tok, nil

	case queued && ctx.Err() != nil:
		return "", ctx.Err()

	case leader:
		l.Warn("refresh_failed", slog.String("err", err.Error()))
		c.metrics.Refresh(metrics.RefreshFailure)
		c.tokens.Clear(rctx)
		if loc := c.nav.Location(); !isPublicLocation(loc) {
			c.nav.RedirectToLogin("token refresh failed")
		}
	}

	return "", fmt.Errorf("%w: %w", ErrSessionExpired, err)
}

// callRefresh — POST /api/auth/refresh-token без Bearer; сессию несёт cookie.
func (c *Client) callRefresh(ctx context.Context) (string, error) {
	const op = "clients.Client.callRefresh"

	resp, err := c.send(ctx, &Request{Method: http.MethodPost, Path: RefreshPath}, nil, "")
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var out models.RefreshResponse
	if err := c.decode(ctx, resp, &out); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyToken)
	}

	c.tokens.Save(ctx, out.Token, time.Duration(out.ExpiresIn)*time.Second)

	return out.Token, nil
}

// send строит и отправляет один HTTP-запрос. Тело каждой попытки — свежий reader.
func (c *Client) send(ctx context.Context, r *Request, body []byte, tok string) (*http.Response, error) {
	u := c.base.JoinPath(r.Path)
	if len(r.Query) > 0 {
		u.RawQuery = r.Query.Encode()
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	if tok != "" {
		ctx = interceptors.WithAuthToken(ctx, tok)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u.String(), rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// decode закрывает тело; >= 400 превращается в *apierrors.Error.
func (c *Client) decode(ctx context.Context, resp *http.Response, out any) error {
	defer drain(resp)

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := apierrors.FromResponse(resp)
		if apiErr.Kind() == apierrors.KindForbidden {
			log.From(ctx).Warn("access_denied",
				slog.String("path", apiErr.Path),
				slog.String("message", apiErr.Message),
			)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s response: %w", resp.Request.URL.Path, err)
	}

	return nil
}

func encodeBody(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	return b, nil
}

// drain дочитывает и закрывает тело, чтобы соединение вернулось в пул.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
