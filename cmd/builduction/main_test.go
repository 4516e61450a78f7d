package main

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iwvelando/builduction/internal/calculator"
	"github.com/iwvelando/builduction/internal/config"
	"github.com/iwvelando/builduction/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LoggingConfig
		override  string
		wantLevel zapcore.Level
		wantError bool
	}{
		{name: "Defaults", wantLevel: zapcore.InfoLevel},
		{name: "Configured level", cfg: config.LoggingConfig{Level: "warn"}, wantLevel: zapcore.WarnLevel},
		{name: "Override wins", cfg: config.LoggingConfig{Level: "warn"}, override: "debug", wantLevel: zapcore.DebugLevel},
		{name: "Console format", cfg: config.LoggingConfig{Format: "console", Level: "error"}, wantLevel: zapcore.ErrorLevel},
		{name: "Invalid level", cfg: config.LoggingConfig{Level: "loud"}, wantError: true},
		{name: "Invalid format", cfg: config.LoggingConfig{Format: "xml"}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.cfg, tt.override)
			if tt.wantError {
				if err == nil {
					t.Errorf("initializeLogger() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("initializeLogger() error = %v", err)
			}
			if !logger.Core().Enabled(tt.wantLevel) {
				t.Errorf("expected level %s to be enabled", tt.wantLevel)
			}
			if tt.wantLevel > zapcore.DebugLevel && logger.Core().Enabled(tt.wantLevel-1) {
				t.Errorf("expected level %s to be disabled", tt.wantLevel-1)
			}
		})
	}
}

func TestInitializeLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "builduction.log")
	logger, err := initializeLogger(config.LoggingConfig{OutputFile: path}, "")
	if err != nil {
		t.Fatalf("initializeLogger() error = %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()
}

func TestSaveProjects(t *testing.T) {
	conf, err := config.LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	projects, err := conf.BuildProjects()
	if err != nil {
		t.Fatalf("BuildProjects() error = %v", err)
	}
	for _, p := range projects {
		calculator.Calculate(p)
	}

	storage := config.StorageConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "projects.db")}
	if err := saveProjects(storage, zap.NewNop(), projects); err != nil {
		t.Fatalf("saveProjects() error = %v", err)
	}
	// Saving again updates in place.
	if err := saveProjects(storage, zap.NewNop(), projects); err != nil {
		t.Fatalf("saveProjects() second run error = %v", err)
	}

	s, err := store.Open(storage, nil)
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer s.Close()

	stored, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(stored) != len(projects) {
		t.Fatalf("expected %d stored projects, got %d", len(projects), len(stored))
	}
	for i := range projects {
		if stored[i].ID != projects[i].ID {
			t.Errorf("stored project %d id = %s, expected %s", i, stored[i].ID, projects[i].ID)
		}
		if stored[i].TotalAreaToBuild != projects[i].TotalAreaToBuild {
			t.Errorf("stored project %d totalAreaToBuild mismatch", i)
		}
	}
}

func TestServeWaitsForInFlightRequests(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		finished.Store(true)
		w.WriteHeader(http.StatusNoContent)
	})}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	served := make(chan error, 1)
	go func() {
		served <- serve(ctx, srv, listener, 5*time.Second, zap.NewNop())
	}()

	responded := make(chan error, 1)
	go func() {
		resp, err := http.Get("http://" + listener.Addr().String() + "/")
		if err == nil {
			resp.Body.Close()
		}
		responded <- err
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the handler")
	}
	cancel()

	select {
	case err := <-served:
		t.Fatalf("serve() returned with a request in flight, error = %v", err)
	case <-time.After(200 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-served:
		if err != nil {
			t.Fatalf("serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve() did not return after the request finished")
	}
	if !finished.Load() {
		t.Error("serve() returned before the in-flight request finished")
	}
	if err := <-responded; err != nil {
		t.Errorf("in-flight request failed: %v", err)
	}
}

func TestServeReturnsListenerErrors(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	listener.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{Handler: http.NotFoundHandler()}
	if err := serve(ctx, srv, listener, time.Second, zap.NewNop()); err == nil {
		t.Error("serve() on a closed listener expected error but got none")
	}
}
