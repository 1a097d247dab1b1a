package telemetry

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(context.Background()))
	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NotNil(t, tp.Tracer("test"))
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NoError(t, mp.Shutdown(context.Background()))
	assert.NotNil(t, mp.Meter("test"))
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.Shutdown(context.Background()))
	assert.NoError(t, lp.ForceFlush(context.Background()))

	base := zap.NewNop()
	assert.Same(t, base, lp.BridgeLogger(base, zapcore.InfoLevel))
}

func TestLevelFilterCore(t *testing.T) {
	observed, logs := observer.New(zapcore.DebugLevel)
	filtered := &levelFilterCore{Core: observed, minLevel: zapcore.WarnLevel}

	log := zap.New(filtered)
	log.Info("dropped")
	log.Warn("kept")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
}

func TestStartSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "expense.derive",
		WithAttribute("trip_id", "abc"),
		WithAttribute("days", 5),
	)
	require.NotNil(t, span)
	require.NotNil(t, ctx)
	span.End()

	_, svcSpan := StartServiceSpan(context.Background(), "posting", "generate")
	require.NotNil(t, svcSpan)
	svcSpan.End()
}

func TestBusinessMetrics(t *testing.T) {
	t.Run("nil meter rejected", func(t *testing.T) {
		_, err := NewBusinessMetrics(BusinessMetricsConfig{})
		assert.ErrorIs(t, err, ErrMeterNil)
	})

	t.Run("records without panic", func(t *testing.T) {
		bm, err := NewBusinessMetrics(BusinessMetricsConfig{
			Meter: noop.NewMeterProvider().Meter("test"),
		})
		require.NoError(t, err)

		ctx := context.Background()
		bm.RecordExpensesDerived(ctx, 4, decimal.NewFromInt(70000), "flight")
		bm.RecordDerivationDuration(ctx, 0.02, "flight")
		bm.RecordPosting(ctx, "staff", 2, decimal.Zero)
		bm.RecordPostingRejected(ctx, "third-party", "unbalanced")
	})
}
