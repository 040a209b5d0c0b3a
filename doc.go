// Package asr implements the Adaptive Smart Replay controller: a feedback
// loop that bounds the amount of write-ahead-log redo work a replay worker
// may perform per scheduling slice.
//
// Three hot-path counters (tasks applied, hot misses, WAL bytes received)
// are ingested lock-free by any number of callers. A dedicated controller
// goroutine periodically smooths those counters into rate estimates,
// combines them into a single aggressiveness scalar, and maps that scalar
// onto an integer budget published for a replay worker to read. The
// published budget is the only coupling between this package and the
// replay worker loop; everything else here is internal bookkeeping.
package asr
