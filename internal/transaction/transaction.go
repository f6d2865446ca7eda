package transaction

import (
	"context"
	"sync"

	"github.com/genricoloni/lineup/internal/domain"
	"github.com/genricoloni/lineup/internal/planner"
	"github.com/genricoloni/lineup/internal/status"
	"go.uber.org/zap"
)

// Configurator stages and commits display positions
type Configurator interface {
	StagePosition(deviceName string, x, y int) (int32, error)
	CommitStaged() int32
}

// Transaction applies a plan with a two-phase staged commit.
//
// Every placement gets a staging attempt, whatever happened to the others.
// Monitors the planner skipped are reported as failed stages.
// Then exactly one commit is issued. A failed commit does not roll back the
// positions already persisted by the stage phase.
type Transaction struct {
	logger *zap.Logger
	cfg    Configurator
	mu     sync.Mutex // one active arrangement at a time
}

// NewTransaction creates a transaction bound to the display system
func NewTransaction(logger *zap.Logger, sys domain.DisplaySystem) *Transaction {
	return New(logger, sys)
}

// New creates a transaction over any Configurator
func New(logger *zap.Logger, cfg Configurator) *Transaction {
	return &Transaction{logger: logger, cfg: cfg}
}

// Execute stages every placement of plan, then commits once.
// Cancellation is only honoured before the stage phase starts.
func (t *Transaction) Execute(ctx context.Context, plan *planner.Plan) (*domain.TransactionOutcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome := &domain.TransactionOutcome{
		Stages: make([]domain.StageResult, 0, len(plan.Placements)),
	}

	t.logger.Info("--- Staging changes ---")
	for _, pl := range plan.Placements {
		t.logger.Info("Staging position",
			zap.Int("id", pl.ID),
			zap.String("device", pl.DeviceName),
			zap.Int("x", pl.X),
			zap.Int("y", 0))

		code, err := t.cfg.StagePosition(pl.DeviceName, pl.X, 0)
		if err != nil && code == status.CodeSuccess {
			code = status.CodeFailed
		}
		res := domain.StageResult{
			ID:         pl.ID,
			DeviceName: pl.DeviceName,
			X:          pl.X,
			Code:       code,
			Status:     status.Translate(code),
			Err:        err,
		}
		outcome.Stages = append(outcome.Stages, res)

		if res.OK() {
			t.logger.Info("Monitor staged", zap.Int("id", pl.ID))
			continue
		}
		t.logger.Error("Monitor staging failed",
			zap.Int("id", pl.ID),
			zap.Stringer("result", res.Status),
			zap.Error(err))
	}

	// Skipped monitors never reach the backend but are reported as failed
	for _, sk := range plan.Skipped {
		outcome.Stages = append(outcome.Stages, domain.StageResult{
			ID:         sk.ID,
			DeviceName: sk.DeviceName,
			Code:       status.CodeFailed,
			Status:     status.Translate(status.CodeFailed),
			Err:        sk.Err,
		})
		t.logger.Error("Monitor not staged",
			zap.Int("id", sk.ID),
			zap.String("device", sk.DeviceName),
			zap.Error(sk.Err))
	}

	t.logger.Info("--- Applying ---")
	outcome.CommitCode = t.cfg.CommitStaged()
	outcome.CommitStatus = status.Translate(outcome.CommitCode)

	if outcome.Committed() {
		t.logger.Info("New layout accepted", zap.Stringer("result", outcome.CommitStatus))
	} else {
		t.logger.Error("Final apply failed, staged positions were not rolled back",
			zap.Stringer("result", outcome.CommitStatus))
	}

	return outcome, nil
}
