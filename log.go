package asr

import (
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the logging dependency accepted by Init and New: a type alias
// for *logiface.Logger[*stumpy.Event], not an interface, so only a
// stumpy-backed logiface logger can be supplied. A host process may pass
// its own such logger; a nil Logger makes New construct a stumpy-backed
// default (writing to os.Stderr).
type Logger = *logiface.Logger[*stumpy.Event]

func defaultLogger() Logger {
	return stumpy.L.New(stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)))
}

// logTick emits the one documented verbose log line, if enabled. The
// rendered message matches a stable, documented format so external log
// scrapers keyed on that string keep working, while still attaching the
// same values as structured fields via the fluent builder, in the style
// every logiface-backed package in this corpus uses.
func logTick(logger Logger, s smoothed, pq, pm, pw, agg float64, budget int) {
	if logger == nil {
		return
	}
	logger.Info().
		Float64(`queue`, s.queueEWMA).
		Float64(`miss_rate`, s.missRateEWMA).
		Float64(`wal_bps`, s.walBpsEWMA).
		Float64(`pressure_q`, pq).
		Float64(`pressure_m`, pm).
		Float64(`pressure_w`, pw).
		Float64(`aggressiveness`, agg).
		Int(`budget`, budget).
		Logf(
			`metrics: queue=%.2f miss_rate=%.4f wal_bps=%.0f pressures(q=%.2f m=%.2f w=%.2f) agg=%.2f budget=%d`,
			s.queueEWMA, s.missRateEWMA, s.walBpsEWMA, pq, pm, pw, agg, budget,
		)
}

// logWarning emits a warning-level line; used for spawn failure and
// rejected configuration updates. Unlike logTick this is not gated on
// Config.Verbose: these are genuine warnings, not routine metrics.
func logWarning(logger Logger, msg string, err error) {
	if logger == nil {
		return
	}
	b := logger.Warning()
	if err != nil {
		b = b.Err(err)
	}
	b.Log(msg)
}
