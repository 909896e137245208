package observability

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func healthzBody(t *testing.T, h *HealthChecker) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.handleHealthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealthz_ReadyWithoutKafka(t *testing.T) {
	h := NewHealthChecker(zap.NewNop())

	code, body := healthzBody(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["ready"])
	assert.NotContains(t, body, "kafka_ready")
}

func TestHealthz_ReportsKafkaReadiness(t *testing.T) {
	h := NewHealthChecker(zap.NewNop())
	h.SetKafkaReady(false)

	code, body := healthzBody(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not_ready", body["status"])
	assert.Equal(t, false, body["kafka_ready"])

	h.SetKafkaReady(true)
	code, body = healthzBody(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["kafka_ready"])
}
