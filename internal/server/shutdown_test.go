package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/config"
)

func newTestGracefulServer(t *testing.T) (*GracefulServer, net.Listener) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGracefulServer(srv, logger, config.ServerConfig{ShutdownTimeout: 5 * time.Second}), ln
}

func TestGracefulServer_ServeUntilCancelled(t *testing.T) {
	gs, ln := newTestGracefulServer(t)

	var hookCalls atomic.Int32
	gs.RegisterShutdownHook(func(ctx context.Context) error {
		hookCalls.Add(1)
		return nil
	})
	gs.RegisterShutdownHook(func(ctx context.Context) error {
		hookCalls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNoContent
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
	assert.Equal(t, int32(2), hookCalls.Load())
}

func TestGracefulServer_HookError(t *testing.T) {
	gs, ln := newTestGracefulServer(t)
	hookErr := errors.New("flush failed")
	gs.RegisterShutdownHook(func(ctx context.Context) error { return hookErr })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := gs.Serve(ctx, ln)
	assert.ErrorIs(t, err, hookErr)
}
