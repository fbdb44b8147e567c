package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/luxfi/log"

	"github.com/luxfi/mbp10/internal/book"
	"github.com/luxfi/mbp10/internal/csvio"
	"github.com/luxfi/mbp10/internal/engine"
	"github.com/luxfi/mbp10/internal/metrics"
)

const progressInterval = 100000

// runStats summarizes one reconstruction run, mirroring the end-of-run
// report original_source/src/main.cpp prints to stderr.
type runStats struct {
	elapsed     time.Duration
	events      uint64
	snapshots   uint64
	parseErrors uint64
	book        book.Stats
	engine      engine.Stats
	differ      engine.DifferStats
}

// options configures one reconstruction run.
type options struct {
	debug     bool
	maxEvents uint64
	metrics   *metrics.Metrics
}

// reconstruct drains in as an MBO CSV stream, writes the MBP-10
// reconstruction to out, and returns the run's statistics. It contains no
// process-level concerns (flags, signals, file handles) so it can be
// exercised directly by tests.
func reconstruct(in io.Reader, out io.Writer, logger log.Logger, opts options) (runStats, error) {
	b := book.New()
	eng := engine.New(b)
	differ := engine.NewDiffer()

	reader := csvio.NewReader(in)
	writer := csvio.NewWriter(out)
	if err := writer.WriteHeader(); err != nil {
		return runStats{}, fmt.Errorf("writing header: %w", err)
	}

	start := time.Now()
	var events, snapshots, parseErrors uint64

	for {
		if opts.maxEvents != 0 && events >= opts.maxEvents {
			break
		}

		ev, perr, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return runStats{}, err
		}
		if perr != nil {
			parseErrors++
			if opts.metrics != nil {
				opts.metrics.IncParseErrors()
			}
			if opts.debug {
				logger.Debug("skipping malformed line", "error", perr)
			}
			continue
		}
		events++

		if opts.debug {
			logger.Debug("event", "action", string(rune(ev.Action)), "side", ev.Side, "price", ev.Price, "size", ev.Size, "orderID", ev.OrderID)
		}

		worthSnapshot := eng.ProcessEvent(ev)
		if worthSnapshot {
			if snap, ok := differ.Observe(b, ev.TimestampNS); ok {
				if werr := writer.WriteSnapshot(snap); werr != nil {
					return runStats{}, fmt.Errorf("writing snapshot: %w", werr)
				}
				snapshots++
			}
		}

		if events%progressInterval == 0 {
			logger.Info("processed events", "count", events)
		}
	}

	if err := writer.Flush(); err != nil {
		return runStats{}, fmt.Errorf("flushing output: %w", err)
	}

	stats := runStats{
		elapsed:     time.Since(start),
		events:      events,
		snapshots:   snapshots,
		parseErrors: parseErrors,
		book:        b.Stats(),
		engine:      eng.Stats(),
		differ:      differ.Stats(),
	}

	if opts.metrics != nil {
		opts.metrics.AddActionsProcessed(stats.engine.ActionsProcessed)
		opts.metrics.AddTradesAggregated(stats.engine.TradesAggregated)
		opts.metrics.AddErrorsEncountered(stats.engine.ErrorsEncountered)
		opts.metrics.AddSnapshotsGenerated(stats.differ.Generated)
		opts.metrics.AddSnapshotsSkipped(stats.differ.Skipped)
		opts.metrics.SetActiveOrders(stats.book.ActiveOrders)
		opts.metrics.SetPriceLevels(stats.book.PriceLevels)
	}

	return stats, nil
}
