package asr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSmoother_FirstTick(t *testing.T) {
	var s smoother
	var c counters
	cfg := DefaultConfig()
	cfg.EWMAAlpha = 0.3

	c.tasks.Store(10)
	c.misses.Store(2)
	c.walBytes.Store(1000)

	out := s.tick(time.Unix(1000, 0), &c, cfg)

	// first tick: dt = 1s, prior EWMAs are 0, so the update installs
	// alpha*raw exactly.
	require.InDelta(t, 0.3*10, out.queueEWMA, 1e-9)
	require.InDelta(t, 0.3*(2.0/11.0), out.missRateEWMA, 1e-9)
	require.InDelta(t, 0.3*1000, out.walBpsEWMA, 1e-9)
	require.Zero(t, out.clampedDeltas)
}

func TestSmoother_SubsequentTickUsesDelta(t *testing.T) {
	var s smoother
	var c counters
	cfg := DefaultConfig()

	c.tasks.Store(10)
	s.tick(time.Unix(1000, 0), &c, cfg)

	c.tasks.Store(30) // delta of 20 over the next tick
	out := s.tick(time.Unix(1001, 0), &c, cfg)

	qRaw := 20.0 // dt = 1s
	want := cfg.EWMAAlpha*qRaw + (1-cfg.EWMAAlpha)*(cfg.EWMAAlpha*10)
	require.InDelta(t, want, out.queueEWMA, 1e-9)
}

func TestSmoother_DtFloor(t *testing.T) {
	var s smoother
	var c counters
	cfg := DefaultConfig()

	c.tasks.Store(10)
	s.tick(time.Unix(1000, 0), &c, cfg)

	c.tasks.Store(20)
	// less than 0.1s apart: dt must be floored to 0.1s, not 0.
	out := s.tick(time.Unix(1000, 0).Add(10*time.Millisecond), &c, cfg)

	qRaw := 10.0 / 0.1 // delta 10 over floored dt 0.1s
	want := cfg.EWMAAlpha*qRaw + (1-cfg.EWMAAlpha)*(cfg.EWMAAlpha*10)
	require.InDelta(t, want, out.queueEWMA, 1e-6)
}

func TestSmoother_CounterWrapProducesLargeDelta(t *testing.T) {
	var s smoother
	var c counters
	cfg := DefaultConfig()

	c.tasks.Store(5)
	s.tick(time.Unix(1000, 0), &c, cfg)

	// simulate a decrement bug: store a smaller value, unsigned subtraction
	// wraps to a huge delta rather than panicking or going negative.
	c.tasks.Store(2)
	out := s.tick(time.Unix(1001, 0), &c, cfg)

	require.Greater(t, out.queueEWMA, 0.0)
	require.False(t, isNaN(out.queueEWMA))
}

func TestSmoother_MaxPlausibleDeltaFloorsWrap(t *testing.T) {
	var s smoother
	var c counters
	cfg := DefaultConfig()
	cfg.MaxPlausibleDelta = 1_000_000

	c.tasks.Store(5)
	s.tick(time.Unix(1000, 0), &c, cfg)

	c.tasks.Store(2) // wraps to a huge delta, over the sanity threshold
	out := s.tick(time.Unix(1001, 0), &c, cfg)

	// the floored delta contributes a raw rate of 0, so the EWMA only
	// decays from the first tick's alpha*5.
	require.InDelta(t, (1-cfg.EWMAAlpha)*(cfg.EWMAAlpha*5), out.queueEWMA, 1e-9)
	require.Equal(t, 1, out.clampedDeltas)
}

func TestSmoother_MissRateDenominatorReads(t *testing.T) {
	var s smoother
	var c counters
	cfg := DefaultConfig()
	cfg.MissRateDenominator = DenominatorReads

	c.tasks.Store(100)
	c.misses.Store(10)
	c.reads.Store(50)

	out := s.tick(time.Unix(1000, 0), &c, cfg)

	want := cfg.EWMAAlpha * (10.0 / 51.0)
	require.InDelta(t, want, out.missRateEWMA, 1e-9)
}

func TestSmoother_MissRateDenominatorReadsFallsBackWithoutReads(t *testing.T) {
	var s smoother
	var c counters
	cfg := DefaultConfig()
	cfg.MissRateDenominator = DenominatorReads

	c.tasks.Store(50)
	c.misses.Store(25)
	// no RecordReadAttempt calls: reads stays 0, so the denominator falls
	// back to Δtasks+1.

	out := s.tick(time.Unix(1000, 0), &c, cfg)

	want := cfg.EWMAAlpha * (25.0 / 51.0)
	require.InDelta(t, want, out.missRateEWMA, 1e-9)
}

func isNaN(f float64) bool { return f != f }

// TestSmoother_DeltaSumInvariant verifies that for any sequence of
// RecordReplayTask calls totaling N, the sum of observed deltas across all
// ticks equals N.
func TestSmoother_DeltaSumInvariant(t *testing.T) {
	var s smoother
	var c counters
	cfg := DefaultConfig()

	base := time.Unix(100_000, 0)
	var total uint64
	var sumOfDeltas uint64

	for i := 0; i < 50; i++ {
		n := uint64(i % 13)
		total += n
		c.tasks.Add(n)

		before := s.tasksPrev
		s.tick(base.Add(time.Duration(i)*time.Second), &c, cfg)
		sumOfDeltas += s.tasksPrev - before
	}

	require.Equal(t, total, sumOfDeltas)
}
