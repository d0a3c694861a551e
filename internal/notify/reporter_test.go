package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/hamed0406/ethwatchdog/internal/probe"
	"github.com/hamed0406/ethwatchdog/internal/stats"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *recordingNotifier) Send(ctx context.Context, title, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, title+"|"+text)
	return f.err
}

func (f *recordingNotifier) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func TestReporter_DeliversInEmissionOrder(t *testing.T) {
	fn := &recordingNotifier{}
	r := NewReporter(zap.NewNop(), fn)

	r.Startup(probe.Outcome{Success: true, BlockHeight: 1000, LatencyMS: 12.5})
	r.Failure(probe.Outcome{Kind: probe.KindTimeout})
	r.Window(stats.Summary{TotalChecks: 6, SuccessCount: 6, UptimePct: 100, HasLatency: true,
		MinLatencyMS: 90, MaxLatencyMS: 150, AvgLatencyMS: 116.67, LastKnownBlock: 123456})
	r.Close() // drains the queue

	sent := fn.all()
	if len(sent) != 3 {
		t.Fatalf("want 3 deliveries, got %d: %v", len(sent), sent)
	}
	if !strings.Contains(sent[0], "Eth-Watchdog started") || !strings.Contains(sent[0], "Block 1,000") {
		t.Fatalf("startup message wrong: %q", sent[0])
	}
	if !strings.Contains(sent[1], "Ethereum Node Unreachable! (Timeout)") {
		t.Fatalf("failure message wrong: %q", sent[1])
	}
	if !strings.Contains(sent[2], "Uptime: 100.0%") || !strings.Contains(sent[2], "Last Block: 123,456") {
		t.Fatalf("window message wrong: %q", sent[2])
	}
}

func TestReporter_SwallowsDeliveryErrors(t *testing.T) {
	fn := &recordingNotifier{err: errors.New("webhook down")}
	r := NewReporter(zap.NewNop(), fn)

	r.Failure(probe.Outcome{Kind: probe.KindConnectionError, Detail: "refused"})
	r.Shutdown(stats.RunningTotals{Checks: 10, Successes: 7})
	r.Close()

	// Both sends were attempted despite the first failing.
	if got := len(fn.all()); got != 2 {
		t.Fatalf("want 2 attempts, got %d", got)
	}
}

func TestReporter_NilNotifierLogsLocally(t *testing.T) {
	r := NewReporter(zap.NewNop(), nil)
	r.Startup(probe.Outcome{Success: false, Kind: probe.KindTimeout})
	r.Close() // must not panic or deadlock
}

func TestReporter_WindowWithoutLatencyData(t *testing.T) {
	fn := &recordingNotifier{}
	r := NewReporter(zap.NewNop(), fn)

	r.Window(stats.Summary{TotalChecks: 6, SuccessCount: 0, UptimePct: 0, LastKnownBlock: 99})
	r.Close()

	sent := fn.all()
	if len(sent) != 1 {
		t.Fatalf("want 1 delivery, got %d", len(sent))
	}
	if !strings.Contains(sent[0], "Latency: no data") {
		t.Fatalf("want no-data latency, got %q", sent[0])
	}
	if !strings.Contains(sent[0], "Uptime: 0.0%") {
		t.Fatalf("want 0.0%% uptime, got %q", sent[0])
	}
}

func TestFailureText_ByKind(t *testing.T) {
	cases := []struct {
		out  probe.Outcome
		want string
	}{
		{probe.Outcome{Kind: probe.KindTimeout}, "Ethereum Node Unreachable! (Timeout)"},
		{probe.Outcome{Kind: probe.KindConnectionError}, "Ethereum Node Unreachable! (Connection Error)"},
		{probe.Outcome{Kind: probe.KindHTTPError, Detail: "HTTP 503"}, "Ethereum Node Unreachable! (HTTP 503)"},
		{probe.Outcome{Kind: probe.KindRPCError, Detail: "over rate limit"}, "Ethereum node returned error: over rate limit"},
		{probe.Outcome{Kind: probe.KindMalformedResponse, Detail: "invalid JSON"}, "Ethereum node returned a malformed response: invalid JSON"},
	}
	for _, c := range cases {
		if got := failureText(c.out); got != c.want {
			t.Fatalf("kind %s: want %q, got %q", c.out.Kind, c.want, got)
		}
	}
}
