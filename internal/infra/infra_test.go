package infra

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/marketbrief/internal/config"
)

func TestGetSendsBrowserHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "yes", r.Header.Get("X-Custom"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := Get(context.Background(), srv.Client(), srv.URL, map[string]string{"X-Custom": "yes"})
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestGetReturnsErrHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := Get(context.Background(), nil, srv.URL, nil)
	require.Error(t, err)

	var httpErr *ErrHTTP
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	assert.Contains(t, httpErr.Error(), "429")
}

func TestNewLimiter(t *testing.T) {
	lim := NewLimiter(2)
	assert.Equal(t, 2, lim.Burst())
	assert.True(t, lim.Allow())

	unlimited := NewLimiter(0)
	for i := 0; i < 100; i++ {
		assert.True(t, unlimited.Allow())
	}
}

func TestInitLoggerFileOutput(t *testing.T) {
	dir := t.TempDir()
	logger := InitLogger(config.LoggingConfig{Level: "debug", Output: []string{"file"}}, dir)
	require.NotNil(t, logger)
	logger.Info().Str("component", "test").Msg("hello")

	assert.DirExists(t, dir)
	assert.NotEmpty(t, filepath.Join(dir, "marketbrief.log"))
}
