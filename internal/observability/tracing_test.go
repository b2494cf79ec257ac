package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/twaincards-client/internal/config"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	t.Parallel()

	tr, shutdown, err := Setup(context.Background(), config.TracingConfig{ServiceName: "test"})
	require.NoError(t, err)
	require.NotNil(t, tr)

	_, span := tr.Start(context.Background(), "noop")
	require.False(t, span.SpanContext().IsValid(), "no-op спан")
	span.End()

	require.NoError(t, shutdown(context.Background()))
}

func TestSetup_WithEndpoint(t *testing.T) {
	tr, shutdown, err := Setup(context.Background(), config.TracingConfig{
		Endpoint:    "127.0.0.1:4318",
		ServiceName: "test",
		Insecure:    true,
	})
	require.NoError(t, err)

	_, span := tr.Start(context.Background(), "real")
	require.True(t, span.SpanContext().IsValid())
	span.End()

	// Коллектора нет: экспорт может завершиться ошибкой, но не должен зависнуть.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
