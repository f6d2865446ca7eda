package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/genricoloni/lineup/internal/config"
	"github.com/genricoloni/lineup/internal/display"
	"github.com/genricoloni/lineup/internal/domain"
	"github.com/genricoloni/lineup/internal/engine"
	"github.com/genricoloni/lineup/internal/notifier"
	"github.com/genricoloni/lineup/internal/planner"
	"github.com/genricoloni/lineup/internal/preview"
	"github.com/genricoloni/lineup/internal/stabilizer"
	"github.com/genricoloni/lineup/internal/transaction"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Input is the source of interactive sequences
type Input struct {
	io.Reader
}

// AppOptions is the application graph. Flags and Input are supplied by the caller.
var AppOptions = fx.Options(
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log}
	}),

	fx.Provide(
		newLogger,
		fx.Annotate(config.NewAppConfig, fx.As(new(domain.Config))),
		fx.Annotate(display.NewSystem, fx.As(new(domain.DisplaySystem))),
		fx.Annotate(notifier.New, fx.As(new(domain.Notifier))),
		stabilizer.NewStabilizer,
		planner.NewPlanner,
		transaction.NewTransaction,
		preview.NewRenderer,
		engine.NewEngine,
	),

	fx.Invoke(registerHooks),
)

func main() {
	flags, err := config.ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if flags.Help {
		return
	}

	app := fx.New(
		AppOptions,
		fx.Supply(flags),
		fx.Supply(Input{Reader: os.Stdin}),
	)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := app.Start(ctx); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Wait for the session to finish or an interrupt signal
	code := 0
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		code = sig.ExitCode
	}
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		code = 1
	}
	stopCancel()

	os.Exit(code)
}

// newLogger creates a human-readable zap logger at the configured level
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = true

	level, err := zapcore.ParseLevel(config.LogLevel())
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	return cfg.Build()
}

// registerHooks runs the session once the graph is started and turns its
// result into the process exit code
func registerHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	logger *zap.Logger,
	eng *engine.Engine,
	n domain.Notifier,
	in Input,
) {
	sessionCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Lineup started")
			go func() {
				defer close(done)
				code := exitCode(logger, eng.Run(sessionCtx, in))
				if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
					logger.Error("Failed to request shutdown", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			cancel()

			select {
			case <-done:
			case <-ctx.Done():
				logger.Warn("Session did not stop in time")
			}

			if c, ok := n.(io.Closer); ok {
				if err := c.Close(); err != nil {
					logger.Warn("Failed to close notifier", zap.Error(err))
				}
			}
			return eng.Stop(ctx)
		},
	})
}

// exitCode maps the session result to a process exit code
func exitCode(logger *zap.Logger, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		logger.Info("Session interrupted")
		return 0
	case errors.Is(err, domain.ErrInsufficientMonitors):
		logger.Error("Not enough monitors to arrange", zap.Error(err))
		return 1
	default:
		logger.Error("Session failed", zap.Error(err))
		return 1
	}
}
