package asrtest_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	asr "github.com/joeycumines/go-asr"
	"github.com/joeycumines/go-asr/asrtest"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/require"
)

func discardLogger() asr.Logger {
	return stumpy.L.New(stumpy.L.WithStumpy(stumpy.WithWriter(io.Discard)))
}

func TestRunReplayWorker_AppliesEveryRecordInOrder(t *testing.T) {
	cfg := asr.DefaultConfig()
	cfg.Enabled = true
	core := asr.New(cfg, discardLogger())

	records := make([]asrtest.Record, 25)
	for i := range records {
		records[i].LSN = uint64(i)
	}

	var applied []uint64
	n, err := asrtest.RunReplayWorker(context.Background(), core, records, nil, func(r asrtest.Record) error {
		applied = append(applied, r.LSN)
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, len(records), n)
	require.Len(t, applied, len(records))
	for i, lsn := range applied {
		require.Equal(t, uint64(i), lsn, "records must be applied in strict LSN order")
	}
}

func TestRunReplayWorker_RecordsReplayTaskPerApply(t *testing.T) {
	cfg := asr.DefaultConfig()
	cfg.Enabled = true
	cfg.TickMillis = 5
	core := asr.New(cfg, discardLogger())

	records := []asrtest.Record{{LSN: 1}, {LSN: 2}, {LSN: 3}}
	_, err := asrtest.RunReplayWorker(context.Background(), core, records, nil, func(asrtest.Record) error { return nil })
	require.NoError(t, err)

	// each successful apply feeds RecordReplayTask(1), observable once the
	// controller ticks and the smoother folds the counter in.
	require.NoError(t, core.StartController())
	defer core.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	snap, ok := asrtest.PollUntil(ctx, core, time.Millisecond, func(s asr.MetricsSnapshot) bool {
		return !s.LastTickTime.IsZero()
	})
	require.True(t, ok)
	require.Greater(t, snap.QueueEWMA, 0.0)
}

func TestRunReplayWorker_StopsWhenStopPredicateFires(t *testing.T) {
	cfg := asr.DefaultConfig()
	cfg.Enabled = true
	core := asr.New(cfg, discardLogger())

	records := make([]asrtest.Record, 10)
	var applyCount int
	stop := func() bool { return applyCount >= 3 }

	n, err := asrtest.RunReplayWorker(context.Background(), core, records, stop, func(asrtest.Record) error {
		applyCount++
		return nil
	})

	require.ErrorIs(t, err, asrtest.ErrStopped)
	require.Equal(t, 3, n)
}

func TestRunReplayWorker_PropagatesApplyError(t *testing.T) {
	cfg := asr.DefaultConfig()
	cfg.Enabled = true
	core := asr.New(cfg, discardLogger())

	boom := errors.New(`apply failed`)
	records := make([]asrtest.Record, 5)
	for i := range records {
		records[i].LSN = uint64(i)
	}
	n, err := asrtest.RunReplayWorker(context.Background(), core, records, nil, func(r asrtest.Record) error {
		if r.LSN == 2 {
			return boom
		}
		return nil
	})

	require.ErrorIs(t, err, boom)
	require.Equal(t, 2, n)
}

func TestRunReplayWorker_StopsWhenContextCancelled(t *testing.T) {
	cfg := asr.DefaultConfig()
	cfg.Enabled = true
	core := asr.New(cfg, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	records := make([]asrtest.Record, 1000)

	var applyCount int
	n, err := asrtest.RunReplayWorker(ctx, core, records, nil, func(asrtest.Record) error {
		applyCount++
		if applyCount == 4 {
			cancel()
		}
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 4, n)
}
