package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("disabled tracing passes through", func(t *testing.T) {
		router := gin.New()
		router.Use(Tracing(TracingConfig{Enabled: false}))
		router.GET("/api/v1/opportunities", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/opportunities", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("records a span per request with the request id", func(t *testing.T) {
		recorder := tracetest.NewSpanRecorder()
		provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
		prev := otel.GetTracerProvider()
		otel.SetTracerProvider(provider)
		defer otel.SetTracerProvider(prev)

		router := gin.New()
		router.Use(RequestID())
		router.Use(Tracing(TracingConfig{ServiceName: "granada-backend", Enabled: true}))
		router.GET("/api/v1/opportunities", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/opportunities", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		spans := recorder.Ended()
		require.Len(t, spans, 1)

		var sawRequestID bool
		for _, attr := range spans[0].Attributes() {
			if attr.Key == attribute.Key("request_id") && attr.Value.AsString() != "" {
				sawRequestID = true
			}
		}
		assert.True(t, sawRequestID, "span should carry the request id")
	})
}
