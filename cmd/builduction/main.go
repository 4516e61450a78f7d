package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/iwvelando/builduction/internal/calculator"
	"github.com/iwvelando/builduction/internal/config"
	"github.com/iwvelando/builduction/internal/project"
	"github.com/iwvelando/builduction/internal/server"
	"github.com/iwvelando/builduction/internal/store"
	"github.com/iwvelando/builduction/pkg/constants"
	"github.com/iwvelando/builduction/pkg/output"
	"github.com/iwvelando/builduction/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	// Results go to stdout, so logs stay on stderr unless a file is set.
	cfg.OutputPaths = []string{"stderr"}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		}
		_ = file.Close()

		cfg.OutputPaths = []string{loggingConfig.OutputFile}
		cfg.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return cfg.Build()
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	serve := flag.Bool("serve", false, "run the HTTP API instead of printing results")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	save := flag.Bool("save", false, "store the calculated projects in the configured storage")
	flag.Parse()

	if *serve {
		runServer(*serverConfigLocation, *logLevel)
		return
	}

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s (see %s)\", \"error\": \"%v\"}\n",
			*configLocation, constants.ExampleConfigFile, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	projects, err := conf.BuildProjects()
	if err != nil {
		logger.Fatal("failed to build projects",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	for _, p := range projects {
		calculator.Calculate(p)
		logger.Debug("project calculated",
			zap.String("op", "main"),
			zap.String("id", p.ID.String()),
			zap.String("mode", calculator.Mode(p).String()),
		)
	}

	if *save {
		if err := saveProjects(conf.Storage, logger, projects); err != nil {
			logger.Fatal("failed to save projects",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(projects, conf.Output.Locale)
	case constants.OutputFormatCSV:
		output.CsvFormat(projects)
	case constants.OutputFormatJSON:
		output.JSONFormat(projects)
	}
}

func saveProjects(cfg config.StorageConfig, logger *zap.Logger, projects []*project.Project) error {
	s, err := store.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			logger.Warn("failed to close store",
				zap.String("op", "main.saveProjects"),
				zap.Error(closeErr),
			)
		}
	}()

	ctx := context.Background()
	for _, p := range projects {
		if err := s.AddOrUpdate(ctx, p); err != nil {
			return fmt.Errorf("saving %s: %w", p.DisplayTitle(), err)
		}
	}

	logger.Info("projects saved",
		zap.String("op", "main.saveProjects"),
		zap.String("driver", cfg.Driver),
		zap.Int("count", len(projects)),
	)
	return nil
}

func runServer(configPath, logLevel string) {
	serverConf, err := server.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main.runServer\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", configPath, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(serverConf.Logging, logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main.runServer\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	projects, err := store.Open(serverConf.Storage, logger)
	if err != nil {
		logger.Fatal("failed to open project store",
			zap.String("op", "main.runServer"),
			zap.Error(err),
		)
	}
	defer func() {
		_ = projects.Close()
	}()

	srv := &http.Server{
		Addr:    serverConf.Address,
		Handler: server.NewHandler(logger, projects, serverConf.UploadSizeBytes(), version),
	}

	listener, err := net.Listen("tcp", serverConf.Address)
	if err != nil {
		logger.Fatal("failed to listen",
			zap.String("op", "main.runServer"),
			zap.String("address", serverConf.Address),
			zap.Error(err),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serving API",
		zap.String("op", "main.runServer"),
		zap.String("address", listener.Addr().String()),
		zap.String("storage", serverConf.Storage.Driver),
		zap.String("version", version),
	)

	if err := serve(ctx, srv, listener, serverConf.ShutdownTimeout, logger); err != nil {
		logger.Fatal("server failed",
			zap.String("op", "main.runServer"),
			zap.Error(err),
		)
	}
}

// serve runs srv on listener until ctx is done, then shuts it down. It returns
// only once Shutdown has finished, so in-flight requests are done with the
// store before the caller closes it.
func serve(ctx context.Context, srv *http.Server, listener net.Listener, shutdownTimeout time.Duration, logger *zap.Logger) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed",
				zap.String("op", "main.serve"),
				zap.Error(err),
			)
		}
	}()

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
