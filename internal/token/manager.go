// token — жизненный цикл токена доступа на стороне клиента.
//
// Токен и момент его истечения (мс от эпохи, вычисленный клиентом) лежат в
// Store под ключами auth_token и token_expiry. Истёкший токен удаляется при
// первом чтении; фонового таймера нет. Рядом, под session_cookie, хранится
// cookie сессии бэкенда: по нему выдаётся новый токен, поэтому истечение
// токена его не трогает, а Clear удаляет.
//
// Manager никогда не возвращает ошибки: сбои хранилища логируются и
// означают «сессии нет».
package token

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/pribylovaa/twaincards-client/internal/pkg/log"
	"github.com/pribylovaa/twaincards-client/internal/pkg/redact"
)

// Ключи в хранилище.
const (
	KeyToken   = "auth_token"
	KeyExpiry  = "token_expiry"
	KeySession = "session_cookie"
)

// DefaultExpiresIn — срок жизни, если сервер его не сообщил.
const DefaultExpiresIn = 3600 * time.Second

// Store — персистентное key/value хранилище токена.
type Store interface {
	// Get возвращает значение и признак наличия ключа.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete удаляет ключи; отсутствующие ключи не считаются ошибкой.
	Delete(ctx context.Context, keys ...string) error
}

// Manager — менеджер токена поверх Store.
type Manager struct {
	mu    sync.Mutex
	store Store
	now   func() time.Time
}

// Option настраивает Manager.
type Option func(*Manager)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// New создаёт Manager поверх store.
func New(store Store, opts ...Option) *Manager {
	m := &Manager{store: store, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Save сохраняет токен и момент истечения now+expiresIn.
// Пустой токен игнорируется; expiresIn <= 0 заменяется на DefaultExpiresIn.
func (m *Manager) Save(ctx context.Context, token string, expiresIn time.Duration) {
	const op = "token.manager.Save"

	if token == "" {
		return
	}
	if expiresIn <= 0 {
		expiresIn = DefaultExpiresIn
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	expiry := m.now().Add(expiresIn).UnixMilli()

	l := log.From(ctx)
	if err := m.store.Set(ctx, KeyToken, token); err != nil {
		l.Error("token_save_failed", slog.String("op", op), slog.String("err", err.Error()))
		return
	}
	if err := m.store.Set(ctx, KeyExpiry, strconv.FormatInt(expiry, 10)); err != nil {
		l.Error("token_save_failed", slog.String("op", op), slog.String("err", err.Error()))
		// Токен без срока считается истёкшим; убираем его сразу.
		m.clearLocked(ctx)
		return
	}

	l.Debug("token_saved",
		slog.String("token", redact.Token(token)),
		slog.Time("expires_at", time.UnixMilli(expiry)),
	)
}

// Get возвращает токен, если он есть и не истёк.
// Истёкший токен (или токен без корректного срока) удаляется.
func (m *Manager) Get(ctx context.Context) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tok, _, ok := m.getLocked(ctx)
	return tok, ok
}

// IsValid — есть ли непросроченный токен.
func (m *Manager) IsValid(ctx context.Context) bool {
	_, ok := m.Get(ctx)
	return ok
}

// ExpiresAt возвращает момент истечения действующего токена.
func (m *Manager) ExpiresAt(ctx context.Context) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, exp, ok := m.getLocked(ctx)
	return exp, ok
}

// DecodeClaims декодирует полезную нагрузку действующего токена без проверки
// подписи. Результат годится только для подсказок в интерфейсе.
// Токен, который не удалось декодировать, удаляется.
func (m *Manager) DecodeClaims(ctx context.Context) (*Claims, bool) {
	const op = "token.manager.DecodeClaims"

	m.mu.Lock()
	defer m.mu.Unlock()

	tok, _, ok := m.getLocked(ctx)
	if !ok {
		return nil, false
	}

	claims, ok := ParseClaims(tok)
	if !ok {
		log.From(ctx).Warn("token_malformed", slog.String("op", op))
		m.clearLocked(ctx)
		return nil, false
	}

	return claims, true
}

// Clear удаляет токен, срок и cookie сессии. Повторный вызов ничего не меняет.
func (m *Manager) Clear(ctx context.Context) {
	const op = "token.manager.Clear"

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(ctx, KeyToken, KeyExpiry, KeySession); err != nil {
		log.From(ctx).Error("token_clear_failed", slog.String("op", op), slog.String("err", err.Error()))
	}
}

// Session возвращает сохранённую cookie сессии бэкенда.
func (m *Manager) Session(ctx context.Context) (string, bool) {
	const op = "token.manager.Session"

	m.mu.Lock()
	defer m.mu.Unlock()

	v, found, err := m.store.Get(ctx, KeySession)
	if err != nil {
		log.From(ctx).Error("session_read_failed", slog.String("op", op), slog.String("err", err.Error()))
		return "", false
	}
	if !found || v == "" {
		return "", false
	}

	return v, true
}

// SaveSession сохраняет cookie сессии; пустое значение её удаляет.
func (m *Manager) SaveSession(ctx context.Context, value string) {
	const op = "token.manager.SaveSession"

	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if value == "" {
		err = m.store.Delete(ctx, KeySession)
	} else {
		err = m.store.Set(ctx, KeySession, value)
	}
	if err != nil {
		log.From(ctx).Error("session_save_failed", slog.String("op", op), slog.String("err", err.Error()))
	}
}

func (m *Manager) getLocked(ctx context.Context) (string, time.Time, bool) {
	const op = "token.manager.Get"

	l := log.From(ctx)

	tok, found, err := m.store.Get(ctx, KeyToken)
	if err != nil {
		l.Error("token_read_failed", slog.String("op", op), slog.String("err", err.Error()))
		return "", time.Time{}, false
	}
	if !found || tok == "" {
		return "", time.Time{}, false
	}

	raw, found, err := m.store.Get(ctx, KeyExpiry)
	if err != nil {
		l.Error("token_read_failed", slog.String("op", op), slog.String("err", err.Error()))
		return "", time.Time{}, false
	}

	ms, perr := strconv.ParseInt(raw, 10, 64)
	if !found || perr != nil {
		l.Warn("token_expiry_missing", slog.String("op", op))
		m.clearLocked(ctx)
		return "", time.Time{}, false
	}

	exp := time.UnixMilli(ms)
	if m.now().After(exp) {
		l.Info("token_expired", slog.String("op", op), slog.Time("expired_at", exp))
		m.clearLocked(ctx)
		return "", time.Time{}, false
	}

	return tok, exp, true
}

func (m *Manager) clearLocked(ctx context.Context) {
	const op = "token.manager.Clear"

	if err := m.store.Delete(ctx, KeyToken, KeyExpiry); err != nil {
		log.From(ctx).Error("token_clear_failed", slog.String("op", op), slog.String("err", err.Error()))
	}
}
