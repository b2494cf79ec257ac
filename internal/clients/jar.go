package clients

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// SessionStore хранит cookie сессии бэкенда между запусками (token.Manager).
type SessionStore interface {
	Session(ctx context.Context) (string, bool)
	SaveSession(ctx context.Context, value string)
}

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// persistentJar — cookie jar, который сохраняет cookie, уходящие на эндпоинт
// обновления токена, и восстанавливает их при создании клиента.
type persistentJar struct {
	*cookiejar.Jar

	refresh  *url.URL
	sessions SessionStore
	log      *slog.Logger
}

func newPersistentJar(inner *cookiejar.Jar, base *url.URL, sessions SessionStore, l *slog.Logger) *persistentJar {
	const op = "clients.jar.load"

	j := &persistentJar{
		Jar:      inner,
		refresh:  base.JoinPath(RefreshPath),
		sessions: sessions,
		log:      l,
	}

	raw, ok := sessions.Session(context.Background())
	if !ok {
		return j
	}

	var stored []storedCookie
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		l.Warn("session_cookie_corrupt", slog.String("op", op), slog.String("err", err.Error()))
		return j
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	inner.SetCookies(j.refresh, cookies)

	l.Debug("session_cookie_restored", slog.Int("cookies", len(cookies)))

	return j
}

// SetCookies обновляет jar и сохраняет итоговый набор cookie эндпоинта
// обновления. Пустой набор удаляет сохранённое значение.
func (j *persistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	const op = "clients.jar.SetCookies"

	j.Jar.SetCookies(u, cookies)

	current := j.Jar.Cookies(j.refresh)
	raw := ""
	if len(current) > 0 {
		stored := make([]storedCookie, 0, len(current))
		for _, c := range current {
			stored = append(stored, storedCookie{Name: c.Name, Value: c.Value})
		}
		data, err := json.Marshal(stored)
		if err != nil {
			j.log.Warn("session_cookie_encode_failed", slog.String("op", op), slog.String("err", err.Error()))
			return
		}
		raw = string(data)
	}

	j.sessions.SaveSession(context.Background(), raw)
}
