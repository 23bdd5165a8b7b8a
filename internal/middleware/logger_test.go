package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantLevel zapcore.Level
	}{
		{name: "Успешный запрос", status: http.StatusOK, body: "ok", wantLevel: zapcore.InfoLevel},
		{name: "Ошибка клиента", status: http.StatusBadRequest, body: "bad", wantLevel: zapcore.WarnLevel},
		{name: "Ошибка сервера", status: http.StatusInternalServerError, body: "boom", wantLevel: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			logger := zap.New(core)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			h := middleware.RequestID(LoggerMiddleware(logger)(next))

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", nil))
			assert.Equal(t, tt.status, w.Code)

			entries := logs.All()
			require.Len(t, entries, 1)
			entry := entries[0]
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, "Request processed", entry.Message)

			fields := entry.ContextMap()
			assert.Equal(t, "/upload", fields["path"])
			assert.Equal(t, http.MethodPost, fields["method"])
			assert.EqualValues(t, tt.status, fields["status"])
			assert.EqualValues(t, len(tt.body), fields["size"])
			assert.NotEmpty(t, fields["request_id"])
		})
	}
}
