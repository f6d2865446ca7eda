package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/genricoloni/lineup/internal/catalog"
	"github.com/genricoloni/lineup/internal/domain"
	"github.com/genricoloni/lineup/internal/planner"
	"github.com/genricoloni/lineup/internal/preview"
	"github.com/genricoloni/lineup/internal/stabilizer"
	"github.com/genricoloni/lineup/internal/transaction"
	"go.uber.org/zap"
)

const (
	noticeTitle        = "Monitor arrangement"
	insufficientNotice = "Could not detect multiple monitors. Is the dock connected?"
)

// Engine orchestrates an arrangement session.
// It waits for the topology to settle, then turns each sequence it is given
// into a plan and applies it.
type Engine struct {
	logger      *zap.Logger
	cfg         domain.Config
	system      domain.DisplaySystem
	notifier    domain.Notifier
	stabilizer  *stabilizer.Stabilizer
	planner     *planner.Planner
	transaction *transaction.Transaction
	preview     *preview.Renderer
}

// NewEngine creates a new orchestration engine
func NewEngine(
	logger *zap.Logger,
	cfg domain.Config,
	sys domain.DisplaySystem,
	notifier domain.Notifier,
	stab *stabilizer.Stabilizer,
	plan *planner.Planner,
	txn *transaction.Transaction,
	prev *preview.Renderer,
) *Engine {
	return &Engine{
		logger:      logger,
		cfg:         cfg,
		system:      sys,
		notifier:    notifier,
		stabilizer:  stab,
		planner:     plan,
		transaction: txn,
		preview:     prev,
	}
}

// Prepare forces extended mode when configured, waits for the topology to
// settle and builds the catalog from the final sample.
// The operator is notified when fewer than two monitors are found.
func (e *Engine) Prepare(ctx context.Context) (*catalog.Catalog, error) {
	if e.cfg.GetForceExtend() {
		if err := e.system.ForceExtend(); err != nil {
			// Not fatal: the topology may already be extended
			e.logger.Warn("Could not force extended mode", zap.Error(err))
		} else {
			e.logger.Info("Extended mode requested")
		}
	}

	e.logger.Info("Waiting for monitors to settle...")
	res, err := e.stabilizer.Wait(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientMonitors) {
			if nerr := e.notifier.Notify(ctx, noticeTitle, insufficientNotice); nerr != nil {
				e.logger.Warn("Failed to deliver notice", zap.Error(nerr))
			}
		}
		return nil, err
	}

	cat, err := catalog.Build(res.Displays)
	if err != nil {
		return nil, err
	}

	bounds := cat.Bounds()
	for _, id := range cat.IDs() {
		m, _ := cat.Get(id)
		b := bounds[id]
		e.logger.Info("Monitor",
			zap.Int("id", id),
			zap.String("device", m.DeviceName),
			zap.Bool("primary", m.Primary),
			zap.Int("x", b.X),
			zap.Int("y", b.Y),
			zap.Int("width", b.Width),
			zap.Int("height", b.Height))
	}

	return cat, nil
}

// Arrange applies one sequence against cat.
// The outcome is nil when nothing was staged (dry run).
// An invalid sequence returns ErrInvalidSequence before any OS call.
func (e *Engine) Arrange(ctx context.Context, cat *catalog.Catalog, input string) (*domain.TransactionOutcome, error) {
	e.logger.Info("Starting rearrangement...", zap.String("sequence", input))

	order, err := cat.ParseAndValidate(input)
	if err != nil {
		return nil, err
	}

	plan, err := e.planner.Plan(order, cat)
	if err != nil {
		return nil, err
	}

	if path := e.cfg.GetPreviewPath(); path != "" {
		if _, err := e.preview.Save(plan, path); err != nil {
			e.logger.Warn("Could not write layout preview", zap.Error(err))
		}
	}

	if e.cfg.GetDryRun() {
		for _, pl := range plan.Placements {
			e.logger.Info("Planned position",
				zap.Int("id", pl.ID),
				zap.String("device", pl.DeviceName),
				zap.Int("x", pl.X),
				zap.Int("y", 0))
		}
		e.logger.Info("Dry run, nothing staged")
		return nil, nil
	}

	outcome, err := e.transaction.Execute(ctx, plan)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Sequence finished. Check that the layout is correct.",
		zap.Bool("committed", outcome.Committed()),
		zap.Int("skipped", len(plan.Skipped)))

	return outcome, nil
}

// Run drives a whole session. A sequence from the configuration is applied
// once and its failure is returned. Otherwise sequences are read line by line
// from in until EOF or a quit command; a failed attempt does not end the loop.
func (e *Engine) Run(ctx context.Context, in io.Reader) error {
	cat, err := e.Prepare(ctx)
	if err != nil {
		return err
	}

	if seq := e.cfg.GetSequence(); seq != "" {
		outcome, err := e.Arrange(ctx, cat, seq)
		if err != nil {
			return err
		}
		if outcome != nil {
			return outcome.Err()
		}
		return nil
	}

	return e.interactive(ctx, cat, in)
}

func (e *Engine) interactive(ctx context.Context, cat *catalog.Catalog, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	// On cancellation the reader may stay blocked in Scan until stdin closes;
	// it is left behind since the process exits right after.
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		e.logger.Info(fmt.Sprintf("Enter the order left to right, e.g. %q or \"2 1 3\" (q to quit)", sampleSequence(cat)))

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("read sequence: %w", err)
					}
				default:
				}
				e.logger.Info("Input closed, exiting")
				return nil
			}
			line = strings.TrimSpace(l)
		}

		switch strings.ToLower(line) {
		case "":
			continue
		case "q", "quit", "exit":
			e.logger.Info("Bye")
			return nil
		}

		outcome, err := e.Arrange(ctx, cat, line)
		switch {
		case errors.Is(err, domain.ErrInvalidSequence):
			e.logger.Warn("Sequence rejected, try again", zap.Error(err))
		case err != nil:
			return err
		case outcome != nil:
			if oerr := outcome.Err(); oerr != nil {
				e.logger.Error("Arrangement incomplete", zap.Error(oerr))
			}
		}
	}
}

// Stop releases the display backend
func (e *Engine) Stop(ctx context.Context) error {
	e.logger.Info("Engine stopping...")
	return e.system.Close()
}

// sampleSequence renders the catalog IDs in reverse as an input example
func sampleSequence(cat *catalog.Catalog) string {
	ids := cat.IDs()
	parts := make([]string, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		parts = append(parts, strconv.Itoa(ids[i]))
	}
	if len(ids) > 9 {
		return strings.Join(parts, " ")
	}
	return strings.Join(parts, "")
}
