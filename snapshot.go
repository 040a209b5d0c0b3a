package asr

import "time"

// MetricsSnapshot is the latest published view of the controller's smoothed
// metrics and derived decision, returned by value from ReadMetrics.
type MetricsSnapshot struct {
	QueueEWMA      float64   // smoothed pending-replay rate, records/sec
	MissRateEWMA   float64   // smoothed hot-miss fraction, in [0,1]
	WALBpsEWMA     float64   // smoothed WAL ingest rate, bytes/sec
	PressureQueue  float64   // normalized queue pressure, in [0,1]
	PressureMiss   float64   // normalized miss pressure, in [0,1]
	PressureWAL    float64   // normalized WAL pressure, in [0,1]
	Aggressiveness float64   // combined scalar, in [0,1]
	Budget         int       // last published budget
	LastTickTime   time.Time // wall time of the tick that produced this snapshot
	ClampedDeltas  int       // informative: deltas floored by MaxPlausibleDelta this tick
}
