package httpserver_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/httpserver"
)

func start(t *testing.T, srv *httpserver.Server, h http.Handler) (string, context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, h) }()

	select {
	case <-srv.Ready():
	case err := <-done:
		cancel()
		require.FailNow(t, "server did not start", "%v", err)
	case <-time.After(time.Second):
		cancel()
		require.FailNow(t, "server did not start in time")
	}
	return "http://" + srv.Addr().String(), cancel, done
}

func wait(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.Fail(t, "run did not finish")
	}
}

func TestRunAndShutdown(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"), httpserver.WithShutdownTimeout(100*time.Millisecond))
	assert.Nil(t, srv.Addr())

	base, cancel, done := start(t, srv, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	resp, err := http.Get(base)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	cancel()
	wait(t, done)
	require.NoError(t, srv.Shutdown(context.Background()))
}

func TestManualShutdown(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"), httpserver.WithShutdownTimeout(100*time.Millisecond))
	_, cancel, done := start(t, srv, nil)
	defer cancel()

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Shutdown(context.Background()))
	wait(t, done)
}

func TestShutdownBeforeRun(t *testing.T) {
	t.Parallel()
	assert.NoError(t, httpserver.New().Shutdown(context.Background()))
}

func TestStartError(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.WithAddr(":invalid"))
	err := srv.Run(context.Background(), nil)
	assert.ErrorIs(t, err, httpserver.ErrStart)
}

func TestAlreadyRunning(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"), httpserver.WithShutdownTimeout(50*time.Millisecond))
	_, cancel, done := start(t, srv, nil)

	err := srv.Run(context.Background(), nil)
	assert.ErrorIs(t, err, httpserver.ErrStart)
	assert.ErrorIs(t, err, httpserver.ErrAlreadyRunning)

	cancel()
	wait(t, done)
}

func TestHooks(t *testing.T) {
	t.Parallel()

	var (
		startedAt atomic.Value
		stopped   atomic.Bool
	)
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithStartHook(func(addr string, _ *slog.Logger) { startedAt.Store(addr) }),
		httpserver.WithStopHook(func(_ *slog.Logger) { stopped.Store(true) }),
	)
	_, cancel, done := start(t, srv, nil)
	cancel()
	wait(t, done)

	assert.Equal(t, srv.Addr().String(), startedAt.Load())
	assert.True(t, stopped.Load())
}

func TestMaxBodySize(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"), httpserver.WithMaxBodySize(8))
	base, cancel, done := start(t, srv, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				return
			}
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer func() {
		cancel()
		wait(t, done)
	}()

	resp, err := http.Post(base, "text/plain", strings.NewReader("short"))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(base, "text/plain", strings.NewReader("far too long for the limit"))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	srv := httpserver.NewFromConfig(httpserver.Config{Addr: "127.0.0.1:0", ShutdownTimeout: 50 * time.Millisecond})
	_, cancel, done := start(t, srv, nil)
	_, port, err := net.SplitHostPort(srv.Addr().String())
	require.NoError(t, err)
	assert.NotEqual(t, "0", port)
	cancel()
	wait(t, done)
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func()
	}{
		{"addr", func() { httpserver.WithAddr("") }},
		{"timeouts", func() { httpserver.WithTimeouts(-time.Second, 0, 0) }},
		{"shutdown", func() { httpserver.WithShutdownTimeout(0) }},
		{"body size", func() { httpserver.WithMaxBodySize(0) }},
		{"start hook", func() { httpserver.WithStartHook(nil) }},
		{"stop hook", func() { httpserver.WithStopHook(nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Panics(t, tt.fn)
		})
	}
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	failing := func(context.Context) error { return errors.New("bucket unreachable") }
	passing := func(context.Context) error { return nil }

	tests := []struct {
		name   string
		checks []func(context.Context) error
		code   int
		body   string
	}{
		{"liveness", nil, http.StatusOK, "ALIVE"},
		{"ready", []func(context.Context) error{passing}, http.StatusOK, "READY"},
		{"not ready", []func(context.Context) error{passing, failing}, http.StatusServiceUnavailable, "NOT_READY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			httpserver.HealthCheckHandler(nil, tt.checks...).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}
