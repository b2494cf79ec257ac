package interceptors

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/twaincards-client/internal/pkg/log"
	"github.com/pribylovaa/twaincards-client/internal/pkg/redact"
)

// WithLogging — логирование исходящих запросов.
// Поведение:
//   - берёт X-Request-Id из заголовков (его ставит WithMetadata);
//   - добавляет поля method/path и схему авторизации, кладёт обогащённый логгер
//     в контекст (pkg/log);
//   - пишет одну финальную запись: Debug "http" при ответе, Warn "http_failed"
//     при ошибке транспорта.
//
// Безопасность: не логирует тела; от Authorization остаётся только схема.
func WithLogging(base *slog.Logger) Middleware {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()

			rid := req.Header.Get(HeaderRequestID)
			if rid == "" {
				rid = "-"
			}

			l := base.With(
				slog.String("request_id", rid),
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.String("auth", redact.Authorization(req.Header.Get("Authorization"))),
			)
			req = req.WithContext(log.Into(req.Context(), l))

			resp, err := next.RoundTrip(req)
			if err != nil {
				l.Warn("http_failed",
					slog.String("err", err.Error()),
					slog.Duration("dur", time.Since(start)),
				)
				return nil, err
			}

			l.Debug("http",
				slog.Int("code", resp.StatusCode),
				slog.Duration("dur", time.Since(start)),
			)

			return resp, nil
		})
	}
}
