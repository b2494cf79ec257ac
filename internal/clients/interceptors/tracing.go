package interceptors

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// WithTracing открывает клиентский спан на запрос и прокидывает traceparent.
// tracer == nil — запрос уходит без спана.
func WithTracing(tracer trace.Tracer) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if tracer == nil {
			return next
		}

		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			ctx, span := tracer.Start(req.Context(), "HTTP "+req.Method,
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					attribute.String("http.request.method", req.Method),
					attribute.String("url.path", req.URL.Path),
					attribute.String("server.address", req.URL.Host),
				),
			)
			defer span.End()

			out := req.Clone(ctx)
			otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(out.Header))

			resp, err := next.RoundTrip(out)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(otelcodes.Error, "transport error")
				return nil, err
			}

			span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
			if resp.StatusCode >= http.StatusInternalServerError {
				span.SetStatus(otelcodes.Error, http.StatusText(resp.StatusCode))
			}

			return resp, nil
		})
	}
}
