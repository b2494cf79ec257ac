package interceptors

import (
	"net/http"

	"github.com/google/uuid"
)

// WithMetadata добавляет в исходящий запрос заголовки:
//   - X-Request-Id (из контекста или новый uuid);
//   - Authorization: Bearer <token> (если токен есть в контексте);
//   - User-Agent (если передан параметром);
//   - Accept: application/json.
//
// Исходный *http.Request не меняется: заголовки пишутся в клон.
func WithMetadata(userAgent string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			ctx := req.Context()
			out := req.Clone(ctx)

			rid := stringFrom(ctx, ctxRequestID)
			if rid == "" {
				rid = out.Header.Get(HeaderRequestID)
			}
			if rid == "" {
				rid = uuid.NewString()
			}
			out.Header.Set(HeaderRequestID, rid)

			if tok := stringFrom(ctx, ctxAuthToken); tok != "" {
				out.Header.Set("Authorization", "Bearer "+tok)
			}
			if userAgent != "" {
				out.Header.Set("User-Agent", userAgent)
			}
			if out.Header.Get("Accept") == "" {
				out.Header.Set("Accept", "application/json")
			}

			return next.RoundTrip(out)
		})
	}
}
