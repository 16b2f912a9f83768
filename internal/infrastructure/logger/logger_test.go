package logger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		l, err := New(&Config{Level: "debug", Format: "json", Output: path})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("unwritable file is an error", func(t *testing.T) {
		_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "app.log")})
		assert.Error(t, err)
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		l, err := New(nil)
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARNING"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestEnrich(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, base, "req-1")
	ctx, _ = WithTenantID(ctx, base, "tenant-1")
	ctx, _ = WithUserID(ctx, base, "user-1")

	Enrich(ctx, base).Info("hello")

	entries := recorded.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "tenant-1", fields["tenant_id"])
	assert.Equal(t, "user-1", fields["user_id"])

	assert.Same(t, base, Enrich(context.Background(), base))
	assert.NotNil(t, FromContext(context.Background()))
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.InfoLevel)

	var seenRequestID string
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set("request_id", "req-123") })
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) {
		seenRequestID = GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/ok", "/missing"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, "req-123", seenRequestID)
	entries := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "kaboom", body.Error.Message)
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestGormLogger_Trace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(10*time.Millisecond))
	ctx := context.Background()
	query := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(ctx, time.Now(), query, gormlogger.ErrRecordNotFound)
	assert.Equal(t, 0, recorded.Len())

	gl.Trace(ctx, time.Now(), query, errors.New("relation does not exist"))
	assert.Equal(t, 1, recorded.FilterMessage("SQL Error").Len())

	gl.Trace(ctx, time.Now().Add(-time.Second), query, nil)
	assert.Equal(t, 1, recorded.FilterMessage("Slow SQL").Len())

	gl.Trace(ctx, time.Now(), query, nil)
	assert.Equal(t, 0, recorded.FilterMessage("SQL Query").Len())

	gl.LogMode(gormlogger.Info).Trace(ctx, time.Now(), query, nil)
	assert.Equal(t, 1, recorded.FilterMessage("SQL Query").Len())
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("DEBUG"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}
