package probe

import (
	"context"
	"time"
)

// FailureKind classifies why a check failed. All kinds count the same against
// uptime; only the alert text differs.
type FailureKind string

const (
	KindTimeout           FailureKind = "timeout"
	KindConnectionError   FailureKind = "connection_error"
	KindHTTPError         FailureKind = "http_error"
	KindRPCError          FailureKind = "rpc_error"
	KindMalformedResponse FailureKind = "malformed_response"
)

// Outcome is the result of a single check against the monitored endpoint.
//
// Fields:
// - LatencyMS: wall-clock round-trip time in milliseconds. Set for failures
//   too (it goes into the log line) but only successful latencies feed stats.
// - Kind/Detail: populated when Success is false.
type Outcome struct {
	Success     bool
	BlockHeight uint64
	LatencyMS   float64
	Kind        FailureKind
	Detail      string
	CheckedAt   time.Time
}

// Checker performs a single check against the endpoint it was built for.
type Checker interface {
	Check(ctx context.Context) Outcome
}
