package wallet

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"smart-wallet/pkg/metrics"
	"smart-wallet/pkg/types"
)

// DefaultExecutionDelay stands in for block confirmation time
const DefaultExecutionDelay = 2 * time.Second

// ErrNotExecutable is returned for intents that do not move value
var ErrNotExecutable = errors.New("intent cannot be executed")

// Recorder stores finished executions
type Recorder interface {
	Add(rec types.Execution) (types.Execution, error)
}

// Executor simulates executing a transaction preview. Nothing is signed or broadcast:
// it waits, makes up a transaction hash, and records the result.
type Executor struct {
	delay    time.Duration
	recorder Recorder
	logger   *zap.Logger
	metrics  *metrics.Metrics
	entropy  io.Reader
	now      func() time.Time
}

// NewExecutor creates an executor. recorder may be nil.
func NewExecutor(delay time.Duration, recorder Recorder, logger *zap.Logger, m *metrics.Metrics) *Executor {
	if delay < 0 {
		delay = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		delay:    delay,
		recorder: recorder,
		logger:   logger,
		metrics:  m,
		entropy:  rand.Reader,
		now:      time.Now,
	}
}

// Execute waits for the configured delay and returns a simulated execution
func (e *Executor) Execute(ctx context.Context, tx types.Transaction) (types.Execution, error) {
	intent := tx.Intent
	if !intent.Action.MovesValue() {
		return types.Execution{}, fmt.Errorf("%w: %s", ErrNotExecutable, intent.Action)
	}

	e.logger.Info("Simulating transaction",
		zap.String("action", string(intent.Action)),
		zap.String("amount", intent.Amount),
		zap.String("token", intent.FromToken),
		zap.Duration("delay", e.delay))

	timer := time.NewTimer(e.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return e.fail(tx, ctx.Err())
	case <-timer.C:
	}

	hash, err := e.fakeHash()
	if err != nil {
		return e.fail(tx, err)
	}

	rec := types.Execution{
		Hash:         hash,
		Intent:       intent,
		Quote:        tx.Quote,
		Status:       types.ExecutionCompleted,
		OutputAmount: outputAmount(tx),
		CreatedAt:    e.now().UTC(),
	}

	if e.recorder != nil {
		rec, err = e.recorder.Add(rec)
		if err != nil {
			return types.Execution{}, fmt.Errorf("failed to record execution: %w", err)
		}
	}

	e.metrics.Execution(string(intent.Action), string(rec.Status))
	e.logger.Info("Simulated transaction complete", zap.String("hash", rec.Hash), zap.String("id", rec.ID))
	return rec, nil
}

// fail records tx as failed and returns cause. A recording error is only logged.
func (e *Executor) fail(tx types.Transaction, cause error) (types.Execution, error) {
	rec := types.Execution{
		Intent:       tx.Intent,
		Quote:        tx.Quote,
		Status:       types.ExecutionFailed,
		ErrorMessage: cause.Error(),
		CreatedAt:    e.now().UTC(),
	}

	if e.recorder != nil {
		stored, err := e.recorder.Add(rec)
		if err != nil {
			e.logger.Error("Failed to record failed execution", zap.Error(err))
		} else {
			rec = stored
		}
	}

	e.metrics.Execution(string(tx.Intent.Action), string(rec.Status))
	e.logger.Warn("Simulated transaction failed", zap.String("id", rec.ID), zap.Error(cause))
	return rec, cause
}

// fakeHash returns 32 random bytes formatted like a transaction hash
func (e *Executor) fakeHash() (string, error) {
	var b [common.HashLength]byte
	if _, err := io.ReadFull(e.entropy, b[:]); err != nil {
		return "", fmt.Errorf("failed to generate hash: %w", err)
	}
	return common.BytesToHash(b[:]).Hex(), nil
}

func outputAmount(tx types.Transaction) string {
	if tx.Intent.Action == types.ActionSwap && tx.Quote != nil {
		return tx.Quote.OutputAmount
	}
	return tx.Intent.Amount
}
