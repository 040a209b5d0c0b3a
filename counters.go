package asr

import "sync/atomic"

// counters holds the hot-path monotonic counters. Every field is written
// with a relaxed atomic add and never read except by the Smoother, which
// runs exclusively on the controller goroutine. Wraparound is expected and
// tolerated: deltas are computed with unsigned subtraction.
type counters struct {
	tasks    atomic.Uint64
	misses   atomic.Uint64
	walBytes atomic.Uint64
	reads    atomic.Uint64
}

// RecordReplayTask increments the applied-task counter by n. n should be
// >= 1; the call is a no-op if the subsystem is disabled. Safe for any
// number of concurrent callers, never blocks, never allocates.
func (x *Core) RecordReplayTask(n uint32) {
	if !x.enabled.Load() {
		return
	}
	x.counters.tasks.Add(uint64(n))
}

// RecordHotMiss increments the hot-miss counter by one. Intended to be
// called exactly once per GetPage@LSN request that must await replay.
func (x *Core) RecordHotMiss() {
	if !x.enabled.Load() {
		return
	}
	x.counters.misses.Add(1)
}

// RecordWALIngest increments the WAL-bytes-received counter by bytes.
func (x *Core) RecordWALIngest(bytes uint64) {
	if !x.enabled.Load() {
		return
	}
	x.counters.walBytes.Add(bytes)
}

// RecordReadAttempt increments the optional read-attempt counter, used as
// the miss-rate denominator when Config.MissRateDenominator is
// DenominatorReads. A no-op under the default denominator, beyond the
// counter increment itself, which is cheap enough to leave unconditional.
func (x *Core) RecordReadAttempt() {
	if !x.enabled.Load() {
		return
	}
	x.counters.reads.Add(1)
}
