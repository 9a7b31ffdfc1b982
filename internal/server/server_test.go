package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(handler http.Handler) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(handler, Options{
		Port:            0,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}, logger)
}

func TestServer_ServesAndShutsDownLIFO(t *testing.T) {
	srv := testServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	var mu sync.Mutex
	var order []string
	record := func(name string) ShutdownFunc {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}
	srv.OnShutdown("postgres", record("postgres"))
	srv.OnShutdown("redis", record("redis"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.RunContext(ctx) }()

	select {
	case <-srv.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.Equal(t, []string{"redis", "postgres"}, order)
}

func TestServer_ShutdownErrorsJoined(t *testing.T) {
	srv := testServer(http.NotFoundHandler())

	errA := errors.New("a failed")
	errB := errors.New("b failed")
	srv.OnShutdown("a", func(context.Context) error { return errA })
	srv.OnShutdown("b", func(context.Context) error { return errB })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := srv.RunContext(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}
