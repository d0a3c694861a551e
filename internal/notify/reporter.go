package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hamed0406/ethwatchdog/internal/probe"
	"github.com/hamed0406/ethwatchdog/internal/stats"
)

const sendTimeout = 10 * time.Second

// Reporter formats watchdog events and dispatches them to a Notifier.
// Dispatch is fire-and-forget: a single worker goroutine drains a buffered
// queue, so the scheduler never waits on webhook I/O and messages go out in
// emission order. Delivery errors are logged and swallowed here; they never
// reach the caller.
type Reporter struct {
	log   *zap.Logger
	n     Notifier
	queue chan envelope
	done  chan struct{}
	pr    *message.Printer
}

type envelope struct {
	title string
	text  string
}

// NewReporter starts the dispatch worker. A nil Notifier is allowed (webhook
// not configured); messages are then logged locally instead of delivered.
func NewReporter(log *zap.Logger, n Notifier) *Reporter {
	r := &Reporter{
		log:   log,
		n:     n,
		queue: make(chan envelope, 16),
		done:  make(chan struct{}),
		pr:    message.NewPrinter(language.English),
	}
	go r.worker()
	return r
}

func (r *Reporter) worker() {
	defer close(r.done)
	for env := range r.queue {
		if r.n == nil {
			r.log.Info("notify_skipped_no_webhook",
				zap.String("title", env.title),
				zap.String("text", env.text),
			)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := r.n.Send(ctx, env.title, env.text)
		cancel()
		if err != nil {
			r.log.Warn("notify_send_failed",
				zap.String("title", env.title),
				zap.Error(err),
			)
			continue
		}
		r.log.Info("notify_sent", zap.String("title", env.title))
	}
}

// Close drains pending messages and stops the worker. Call after the
// scheduler has exited.
func (r *Reporter) Close() {
	close(r.queue)
	<-r.done
}

func (r *Reporter) enqueue(title, text string) {
	select {
	case r.queue <- envelope{title: title, text: text}:
	default:
		r.log.Warn("notify_queue_full_dropped", zap.String("title", title))
	}
}

func (r *Reporter) Startup(out probe.Outcome) {
	if out.Success {
		r.enqueue("ETH-WATCHDOG ALERT", fmt.Sprintf(
			"Eth-Watchdog started and monitoring Ethereum network\nInitial Check: Block %s | Latency: %.2fms",
			r.block(out.BlockHeight), out.LatencyMS,
		))
		return
	}
	r.enqueue("ETH-WATCHDOG ALERT", "Eth-Watchdog started but initial health check failed!")
}

func (r *Reporter) Failure(out probe.Outcome) {
	r.enqueue("ETH-WATCHDOG ALERT", failureText(out))
}

func (r *Reporter) Window(s stats.Summary) {
	latency := "no data"
	if s.HasLatency {
		latency = fmt.Sprintf("%.2fms (min: %.2fms | max: %.2fms)",
			s.AvgLatencyMS, s.MinLatencyMS, s.MaxLatencyMS)
	}
	r.enqueue("STATUS REPORT", fmt.Sprintf(
		"Checks: %d | Success: %d | Uptime: %.1f%%\nLatency: %s\nLast Block: %s",
		s.TotalChecks, s.SuccessCount, s.UptimePct, latency, r.block(s.LastKnownBlock),
	))
}

func (r *Reporter) Shutdown(totals stats.RunningTotals) {
	r.enqueue("ETH-WATCHDOG ALERT", fmt.Sprintf(
		"Eth-Watchdog shutdown - Final stats: %d/%d successful checks",
		totals.Successes, totals.Checks,
	))
}

// block renders a height with thousands grouping ("23,456,789").
func (r *Reporter) block(height uint64) string {
	return r.pr.Sprintf("%d", height)
}

func failureText(out probe.Outcome) string {
	switch out.Kind {
	case probe.KindTimeout:
		return "Ethereum Node Unreachable! (Timeout)"
	case probe.KindConnectionError:
		return "Ethereum Node Unreachable! (Connection Error)"
	case probe.KindHTTPError:
		// Detail is "HTTP <status>"
		return fmt.Sprintf("Ethereum Node Unreachable! (%s)", out.Detail)
	case probe.KindRPCError:
		return "Ethereum node returned error: " + out.Detail
	case probe.KindMalformedResponse:
		return "Ethereum node returned a malformed response: " + out.Detail
	default:
		return "Ethereum Node Unreachable! (" + out.Detail + ")"
	}
}
