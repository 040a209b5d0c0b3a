package asrtest

import (
	"context"
	"errors"

	asr "github.com/joeycumines/go-asr"
)

// ErrStopped is returned by RunReplayWorker when stop returns true before
// every record was applied.
var ErrStopped = errors.New(`asrtest: worker stopped before records exhausted`)

// Record models one WAL record to be applied, in strict LSN order.
type Record struct {
	LSN uint64
}

// RunReplayWorker simulates a replay worker's budget consumption contract:
// on each entry into the inner loop it reads the budget exactly once,
// applies records in order (via apply), calls core.RecordReplayTask(1)
// after each successful apply, and re-enters for another budget once
// exhausted - continuing until records is fully consumed, stop reports
// true, or ctx is done.
//
// It never modifies the budget and never skips a record.
func RunReplayWorker(ctx context.Context, core *asr.Core, records []Record, stop func() bool, apply func(Record) error) (applied int, err error) {
	i := 0
	for i < len(records) {
		if ctx.Err() != nil {
			return applied, ctx.Err()
		}
		if stop != nil && stop() {
			return applied, ErrStopped
		}

		budget := core.GetBudget()
		if budget <= 0 {
			continue
		}

		count := 0
		for count < budget && i < len(records) {
			if ctx.Err() != nil {
				return applied, ctx.Err()
			}
			if stop != nil && stop() {
				return applied, ErrStopped
			}

			if apply != nil {
				if err := apply(records[i]); err != nil {
					return applied, err
				}
			}
			core.RecordReplayTask(1)
			applied++
			count++
			i++
		}
	}
	return applied, nil
}
