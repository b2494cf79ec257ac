package interceptors

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	otelcodes "go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/pribylovaa/twaincards-client/internal/metrics"
	"github.com/pribylovaa/twaincards-client/internal/pkg/log"
)

type capHandler struct {
	mu      sync.Mutex
	base    []slog.Attr
	lastMsg string
	lastLvl slog.Level
	attrs   map[string]any
	count   map[string]int
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[string]any, len(h.base)+8)
	for _, a := range h.base {
		out[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.Any()
		return true
	})
	if h.count == nil {
		h.count = make(map[string]int)
	}
	h.count[r.Message]++
	h.lastMsg = r.Message
	h.lastLvl = r.Level
	h.attrs = out
	return nil
}

func (h *capHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.base = append(h.base, attrs...)
	return h
}

func (h *capHandler) WithGroup(string) slog.Handler { return h }

// okTransport отвечает 200 и запоминает последний запрос.
type okTransport struct {
	last *http.Request
	code int
}

func (t *okTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.last = r
	code := t.code
	if code == 0 {
		code = http.StatusOK
	}
	return &http.Response{
		StatusCode: code,
		Body:       io.NopCloser(strings.NewReader("{}")),
		Header:     http.Header{},
		Request:    r,
	}, nil
}

func newReq(t *testing.T, ctx context.Context) *http.Request {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://api.test/api/users/me", nil)
	require.NoError(t, err)
	return req
}

func TestChain_OrderOuterFirst(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(r)
			})
		}
	}

	rt := Chain(&okTransport{}, mark("a"), mark("b"), mark("c"))
	_, err := rt.RoundTrip(newReq(t, context.Background()))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestMetadata_SetsHeaders(t *testing.T) {
	t.Parallel()

	const rid = "rid-123"
	const tok = "token-xyz"
	const ua = "twaincards-cli"

	ctx := WithRequestID(context.Background(), rid)
	ctx = WithAuthToken(ctx, tok)

	base := &okTransport{}
	orig := newReq(t, ctx)

	_, err := WithMetadata(ua)(base).RoundTrip(orig)
	require.NoError(t, err)

	require.Equal(t, rid, base.last.Header.Get(HeaderRequestID))
	require.Equal(t, "Bearer "+tok, base.last.Header.Get("Authorization"))
	require.Equal(t, ua, base.last.Header.Get("User-Agent"))
	require.Equal(t, "application/json", base.last.Header.Get("Accept"))

	require.Empty(t, orig.Header.Get("Authorization"), "исходный запрос не меняется")
}

func TestMetadata_GeneratesRequestIDAndSkipsEmpty(t *testing.T) {
	t.Parallel()

	base := &okTransport{}
	_, err := WithMetadata("")(base).RoundTrip(newReq(t, context.Background()))
	require.NoError(t, err)

	_, err = uuid.Parse(base.last.Header.Get(HeaderRequestID))
	require.NoError(t, err, "сгенерирован uuid")
	require.Empty(t, base.last.Header.Get("Authorization"))
	require.Empty(t, base.last.Header.Get("User-Agent"))
}

func TestTimeout_SetsDeadline(t *testing.T) {
	t.Parallel()

	const d = 40 * time.Millisecond
	slow := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		<-r.Context().Done()
		return nil, r.Context().Err()
	})

	start := time.Now()
	_, err := WithTimeout(d)(slow).RoundTrip(newReq(t, context.Background()))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.GreaterOrEqual(t, time.Since(start), d)
}

func TestTimeout_DoesNotOverrideExistingDeadline(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()
	parentDL, _ := parent.Deadline()

	var childDL time.Time
	inner := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		childDL, _ = r.Context().Deadline()
		return (&okTransport{}).RoundTrip(r)
	})

	_, err := WithTimeout(time.Second)(inner).RoundTrip(newReq(t, parent))
	require.NoError(t, err)
	require.WithinDuration(t, parentDL, childDL, time.Millisecond)
}

func TestTimeout_ZeroPassThrough(t *testing.T) {
	t.Parallel()

	var hasDL bool
	inner := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		_, hasDL = r.Context().Deadline()
		return (&okTransport{}).RoundTrip(r)
	})

	_, err := WithTimeout(0)(inner).RoundTrip(newReq(t, context.Background()))
	require.NoError(t, err)
	require.False(t, hasDL)
}

// Тело ответа читается после возврата RoundTrip, контекст ещё жив.
func TestTimeout_BodyReadableUntilClose(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := &http.Client{Transport: Chain(http.DefaultTransport, WithTimeout(time.Second))}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.JSONEq(t, `{"ok":true}`, string(body))
}

func TestLogging_LogsAndPutsLoggerIntoContext(t *testing.T) {
	t.Parallel()

	h := &capHandler{}
	inner := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		log.From(r.Context()).Info("inner_called")
		return (&okTransport{}).RoundTrip(r)
	})

	req := newReq(t, context.Background())
	req.Header.Set(HeaderRequestID, "rid-9")
	req.Header.Set("Authorization", "Bearer secret-jwt")

	_, err := WithLogging(slog.New(h))(inner).RoundTrip(req)
	require.NoError(t, err)

	require.Equal(t, 1, h.count["inner_called"])
	require.Equal(t, "http", h.lastMsg)
	require.Equal(t, slog.LevelDebug, h.lastLvl)
	require.Equal(t, "rid-9", h.attrs["request_id"])
	require.Equal(t, "/api/users/me", h.attrs["path"])
	require.EqualValues(t, http.StatusOK, h.attrs["code"])
	require.Equal(t, "Bearer [REDACTED_TOKEN]", h.attrs["auth"])
}

func TestLogging_TransportError(t *testing.T) {
	t.Parallel()

	h := &capHandler{}
	failing := RoundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := WithLogging(slog.New(h))(failing).RoundTrip(newReq(t, context.Background()))
	require.Error(t, err)
	require.Equal(t, "http_failed", h.lastMsg)
	require.Equal(t, slog.LevelWarn, h.lastLvl)
	require.Equal(t, "connection refused", h.attrs["err"])
}

func TestMetrics_CountsRequests(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	rt := WithMetrics(m)(&okTransport{code: http.StatusUnauthorized})
	_, err := rt.RoundTrip(newReq(t, context.Background()))
	require.NoError(t, err)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	found := false
	for _, mf := range mfs {
		if mf.GetName() != "twaincards_client_http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["method"] == "GET" && labels["code"] == "401" {
				found = true
				require.Equal(t, 1.0, metric.GetCounter().GetValue())
			}
		}
	}
	require.True(t, found)
}

func TestMetrics_NilPassThrough(t *testing.T) {
	t.Parallel()

	base := &okTransport{}
	require.Equal(t, http.RoundTripper(base), WithMetrics(nil)(base))
}

func TestTracing_RecordsClientSpan(t *testing.T) {
	t.Parallel()

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	base := &okTransport{code: http.StatusServiceUnavailable}
	_, err := WithTracing(tp.Tracer("test"))(base).RoundTrip(newReq(t, context.Background()))
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "HTTP GET", spans[0].Name())
	require.Equal(t, otelcodes.Error, spans[0].Status().Code)
}
