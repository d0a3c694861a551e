package scheduler

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hamed0406/ethwatchdog/internal/probe"
	"github.com/hamed0406/ethwatchdog/internal/stats"
)

const timestampLayout = "2006-01-02 15:04:05"

// Reporter receives watchdog events. Delivery must not block the caller.
type Reporter interface {
	Startup(out probe.Outcome)
	Failure(out probe.Outcome)
	Window(s stats.Summary)
	Shutdown(totals stats.RunningTotals)
}

// Watchdog drives the check loop: one probe per tick, a terminal line per
// check, an alert per failure, and a status report every ReportEvery checks.
// All mutable state (window, totals) is owned by the single Run goroutine.
type Watchdog struct {
	Logger      *zap.Logger
	Checker     probe.Checker
	Reporter    Reporter
	Out         io.Writer
	Interval    time.Duration
	ReportEvery int

	window stats.Window
	totals stats.RunningTotals
	pr     *message.Printer
}

func New(
	logger *zap.Logger,
	checker probe.Checker,
	reporter Reporter,
	out io.Writer,
	interval time.Duration,
	reportEvery int,
) *Watchdog {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if reportEvery < 1 {
		reportEvery = 6
	}
	if out == nil {
		out = os.Stdout
	}
	return &Watchdog{
		Logger:      logger,
		Checker:     checker,
		Reporter:    reporter,
		Out:         out,
		Interval:    interval,
		ReportEvery: reportEvery,
		pr:          message.NewPrinter(language.English),
	}
}

// Run blocks until ctx is cancelled. It begins with an immediate probe whose
// outcome goes into the startup notification (that probe is an announcement,
// not a counted check), then ticks at a fixed wall-clock cadence.
func (w *Watchdog) Run(ctx context.Context) {
	first := w.check(ctx)
	w.printCheck(first)
	w.Reporter.Startup(first)
	w.Logger.Info("watchdog_started",
		zap.Bool("initial_check_ok", first.Success),
		zap.Duration("interval", w.Interval),
		zap.Int("report_every", w.ReportEvery),
	)

	// Deadlines advance by Interval from the previous deadline, not from tick
	// completion, so slow probes don't accumulate drift.
	next := time.Now()
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.shutdown()
			return
		case <-timer.C:
		}

		w.tick(ctx)

		// Shutdown is observed at the tick boundary, never mid-probe.
		if ctx.Err() != nil {
			w.shutdown()
			return
		}

		// If the next deadline already passed (a probe ran long), fire once
		// immediately and re-anchor; missed intervals coalesce into that one
		// tick, never a back-to-back burst.
		next = next.Add(w.Interval)
		if now := time.Now(); next.Before(now) {
			next = now
		}
		timer.Reset(time.Until(next))
	}
}

func (w *Watchdog) shutdown() {
	w.Logger.Info("watchdog_stopped",
		zap.Uint64("total_checks", w.totals.Checks),
		zap.Uint64("total_successes", w.totals.Successes),
	)
	w.Reporter.Shutdown(w.totals)
}

func (w *Watchdog) tick(ctx context.Context) {
	out := w.check(ctx)
	w.printCheck(out)

	if out.Success {
		w.Logger.Info("check_ok",
			zap.Uint64("block", out.BlockHeight),
			zap.Float64("latency_ms", out.LatencyMS),
		)
	} else {
		w.Logger.Warn("check_failed",
			zap.String("kind", string(out.Kind)),
			zap.String("detail", out.Detail),
			zap.Float64("latency_ms", out.LatencyMS),
		)
		// Every failed check alerts; repeats are not suppressed.
		w.Reporter.Failure(out)
	}

	w.window.Record(out)
	w.totals.Record(out)

	if w.totals.Checks%uint64(w.ReportEvery) == 0 {
		s := w.window.Snapshot()
		w.Reporter.Window(s)
		w.window.Reset()
		w.Logger.Info("window_reported",
			zap.Uint64("total_checks", w.totals.Checks),
			zap.Float64("uptime_pct", s.UptimePct),
		)
	}
}

// check runs one probe. The probe bounds itself with its own timeout; a
// shutdown request is honored at the next tick boundary, not mid-probe.
func (w *Watchdog) check(ctx context.Context) probe.Outcome {
	return w.Checker.Check(context.WithoutCancel(ctx))
}

func (w *Watchdog) printCheck(out probe.Outcome) {
	ts := out.CheckedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	if out.Success {
		fmt.Fprintf(w.Out, "[OK] [%s] Block: %s | Latency: %.2fms\n",
			ts.Format(timestampLayout), w.pr.Sprintf("%d", out.BlockHeight), out.LatencyMS)
		return
	}
	fmt.Fprintf(w.Out, "[ERROR] [%s] %s\n", ts.Format(timestampLayout), out.Detail)
}
