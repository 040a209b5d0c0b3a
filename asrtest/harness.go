package asrtest

import (
	"context"
	"time"

	asr "github.com/joeycumines/go-asr"
	"golang.org/x/exp/slices"
)

// PollUntil polls core.ReadMetrics every interval until pred reports true or
// ctx is done, returning the last observed snapshot and whether pred was
// ever satisfied.
func PollUntil(ctx context.Context, core *asr.Core, interval time.Duration, pred func(asr.MetricsSnapshot) bool) (asr.MetricsSnapshot, bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	snap := core.ReadMetrics()
	if pred(snap) {
		return snap, true
	}

	for {
		select {
		case <-ctx.Done():
			return snap, false
		case <-ticker.C:
			snap = core.ReadMetrics()
			if pred(snap) {
				return snap, true
			}
		}
	}
}

// RecordSnapshots polls core.ReadMetrics every interval, collecting up to n
// distinct snapshots (deduplicated by LastTickTime, so a fast poller doesn't
// record the same untouched tick twice), until ctx is done or n snapshots
// have been collected. The result is sorted by LastTickTime ascending.
func RecordSnapshots(ctx context.Context, core *asr.Core, interval time.Duration, n int) []asr.MetricsSnapshot {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var out []asr.MetricsSnapshot
	var last time.Time

	collect := func() {
		snap := core.ReadMetrics()
		if snap.LastTickTime.IsZero() || snap.LastTickTime.Equal(last) {
			return
		}
		last = snap.LastTickTime
		out = append(out, snap)
	}

	collect()
	for len(out) < n {
		select {
		case <-ctx.Done():
			slices.SortFunc(out, func(a, b asr.MetricsSnapshot) int {
				return a.LastTickTime.Compare(b.LastTickTime)
			})
			return out
		case <-ticker.C:
			collect()
		}
	}

	slices.SortFunc(out, func(a, b asr.MetricsSnapshot) int {
		return a.LastTickTime.Compare(b.LastTickTime)
	})
	return out
}
