package interceptors

import (
	"net/http"
	"time"

	"github.com/pribylovaa/twaincards-client/internal/metrics"
)

// WithMetrics учитывает каждый запрос в Prometheus; m == nil — без учёта.
func WithMetrics(m *metrics.Metrics) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if m == nil {
			return next
		}

		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()

			resp, err := next.RoundTrip(req)

			code := 0
			if err == nil {
				code = resp.StatusCode
			}
			m.ObserveRequest(req.Method, code, time.Since(start))

			return resp, err
		})
	}
}
