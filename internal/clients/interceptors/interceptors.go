// interceptors — мидлвары для исходящих HTTP-запросов к API (http.RoundTripper).
//
// Порядок в цепочке (снаружи внутрь): трассировка -> метаданные -> таймаут ->
// логирование -> метрики -> базовый транспорт.
package interceptors

import (
	"context"
	"net/http"
)

// Middleware оборачивает RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc — адаптер функции к http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Chain применяет мидлвары к транспорту в порядке их перечисления:
// первый мидлвар — самый внешний.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}

	return base
}

type ctxKey string

const (
	ctxRequestID ctxKey = "request_id"
	ctxAuthToken ctxKey = "auth_token"
)

// HeaderRequestID — заголовок корреляции запросов.
const HeaderRequestID = "X-Request-Id"

// WithRequestID задаёт request id для запроса; без него metadata сгенерирует новый.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxRequestID, rid)
}

// WithAuthToken задаёт Bearer-токен для запроса.
func WithAuthToken(ctx context.Context, tok string) context.Context {
	return context.WithValue(ctx, ctxAuthToken, tok)
}

func stringFrom(ctx context.Context, k ctxKey) string {
	if v, ok := ctx.Value(k).(string); ok {
		return v
	}

	return ""
}
