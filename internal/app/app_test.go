package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/avialine/backoffice/internal/config"
	"github.com/avialine/backoffice/internal/health"
)

func newAppForTest(server *http.Server, stop func()) *App {
	cfg := &config.Config{
		ShutdownTimeout:              10 * time.Second,
		ShutdownHTTPDrainTimeout:     2 * time.Second,
		ShutdownObservabilityTimeout: 3 * time.Second,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, logger, server, nil, health.NewProbeRunner(100*time.Millisecond), stop)
}

func TestNewAssignsDependenciesAndTimeouts(t *testing.T) {
	server := &http.Server{Addr: ":0", ReadHeaderTimeout: time.Second}
	stopped := false
	a := newAppForTest(server, func() { stopped = true })

	if a.Server != server || a.Readiness == nil {
		t.Fatal("expected app dependencies to be assigned")
	}
	if a.ShutdownTimeout != 10*time.Second || a.ShutdownHTTPDrainTimeout != 2*time.Second || a.ShutdownObservabilityTimeout != 3*time.Second {
		t.Fatal("expected shutdown timeouts copied from config")
	}

	a.StopBackgroundTasks()
	if !stopped {
		t.Fatal("expected stop callback to run")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	server := &http.Server{Addr: "127.0.0.1:0", ReadHeaderTimeout: time.Second}
	stopped := false
	a := newAppForTest(server, func() { stopped = true })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
	if !stopped {
		t.Fatal("expected background tasks stopped")
	}
}
