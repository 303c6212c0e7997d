package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestLoggerContextRoundTrip(t *testing.T) {
	t.Run("FromContext returns the attached logger", func(t *testing.T) {
		log, logs := observedLogger()
		ctx := WithContext(context.Background(), log)

		FromContext(ctx).Info("opportunity ingested")

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "opportunity ingested", logs.All()[0].Message)
	})

	t.Run("bare context yields a usable no-op logger", func(t *testing.T) {
		log := FromContext(context.Background())

		require.NotNil(t, log)
		assert.NotPanics(t, func() {
			log.Info("bot run completed")
			log.With(zap.String("country", "UG")).Warn("scraper stalled")
		})
	})

	t.Run("a non-logger value under the key is ignored", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), loggerCtxKey, "not a logger")

		log := FromContext(ctx)

		require.NotNil(t, log)
		assert.NotPanics(t, func() { log.Error("proposal rejected") })
	})
}

func TestWithRequestID(t *testing.T) {
	t.Run("stores the ID and tags the logger", func(t *testing.T) {
		log, logs := observedLogger()

		ctx, tagged := WithRequestID(context.Background(), log, "req-granada-7")
		tagged.Info("searching opportunities")

		assert.Equal(t, "req-granada-7", GetRequestID(ctx))
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "req-granada-7", logs.All()[0].ContextMap()["request_id"])
	})

	t.Run("the tagged logger is the one left in the context", func(t *testing.T) {
		log, logs := observedLogger()

		ctx, _ := WithRequestID(context.Background(), log, "req-granada-7")
		FromContext(ctx).Info("credit debited")

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "req-granada-7", logs.All()[0].ContextMap()["request_id"])
	})

	t.Run("a later call overrides the stored ID", func(t *testing.T) {
		log, _ := observedLogger()

		ctx, _ := WithRequestID(context.Background(), log, "req-granada-7")
		ctx, _ = WithRequestID(ctx, log, "req-granada-8")

		assert.Equal(t, "req-granada-8", GetRequestID(ctx))
	})
}

func TestWithUserID(t *testing.T) {
	log, logs := observedLogger()

	ctx, tagged := WithUserID(context.Background(), log, "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	tagged.Info("proposal submitted")

	assert.Equal(t, "1b4e28ba-2fa1-11d2-883f-0016d3cca427", GetUserID(ctx))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "1b4e28ba-2fa1-11d2-883f-0016d3cca427", logs.All()[0].ContextMap()["user_id"])
}

func TestContextEnrichmentChains(t *testing.T) {
	log, logs := observedLogger()
	ctx := context.Background()

	ctx, log = WithRequestID(ctx, log, "req-granada-7")
	ctx, log = WithUserID(ctx, log, "ngo-kampala-42")
	log.Info("matching rubric scored")

	assert.Equal(t, "req-granada-7", GetRequestID(ctx))
	assert.Equal(t, "ngo-kampala-42", GetUserID(ctx))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-granada-7", fields["request_id"])
	assert.Equal(t, "ngo-kampala-42", fields["user_id"])
}

func TestGetAccessorsOnBareContext(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetUserID(ctx))
}
