package asr

import "time"

// timeNow and newTicker are indirection points for deterministic tests,
// mirroring the timeNow/timeNewTicker seams in catrate.Limiter: production
// code always uses the real clock, tests substitute both to simulate a
// sequence of ticks without real sleeps.
var (
	timeNow   = time.Now
	newTicker = func(d time.Duration) tickerFace { return realTicker{time.NewTicker(d)} }
)

// tickerFace abstracts time.Ticker so tests can substitute a fake one
// driven by an explicit channel rather than wall-clock time.
type tickerFace interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }
