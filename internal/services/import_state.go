package services

import (
	"fmt"
	"slices"
	"time"

	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

type ImportState string

const (
	StateIdle       ImportState = "idle"
	StateReading    ImportState = "reading"
	StateParsing    ImportState = "parsing"
	StateMatching   ImportState = "matching"
	StateMerging    ImportState = "merging"
	StateCommitting ImportState = "committing"
	StateCommitted  ImportState = "committed"
	StateFailed     ImportState = "failed"
)

var importTransitions = map[ImportState][]ImportState{
	StateIdle:       {StateReading},
	StateReading:    {StateParsing, StateFailed},
	StateParsing:    {StateMatching, StateFailed},
	StateMatching:   {StateMerging, StateFailed},
	StateMerging:    {StateCommitting, StateFailed},
	StateCommitting: {StateCommitted, StateFailed},
}

// importOp tracks one pass through the import pipeline and logs each step.
type importOp struct {
	state   ImportState
	log     *logger.Logger
	entered time.Time
}

func newImportOp(log *logger.Logger, from ImportState) *importOp {
	return &importOp{state: from, log: log, entered: time.Now()}
}

func (op *importOp) to(next ImportState) error {
	if !slices.Contains(importTransitions[op.state], next) {
		op.log.Error("Illegal import transition", "from", op.state, "to", next)
		return fmt.Errorf("illegal import transition %s -> %s", op.state, next)
	}
	op.log.Debug("Import state", "from", op.state, "to", next, "elapsed_ms", time.Since(op.entered).Milliseconds())
	op.state = next
	op.entered = time.Now()
	return nil
}

// fail moves to Failed and hands err back for returning.
func (op *importOp) fail(err error) error {
	if terr := op.to(StateFailed); terr != nil {
		return fmt.Errorf("%w (%v)", err, terr)
	}
	op.log.Warn("Import failed", "error", err)
	return err
}
