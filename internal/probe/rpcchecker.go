package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RPCChecker probes a JSON-RPC endpoint with a single eth_blockNumber call.
// One call per tick, no retries.
type RPCChecker struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

func NewRPCChecker(url string, timeout time.Duration) *RPCChecker {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RPCChecker{
		URL:     url,
		Timeout: timeout,
		Client:  &http.Client{Timeout: timeout},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *RPCChecker) Check(ctx context.Context) Outcome {
	start := time.Now()

	fail := func(kind FailureKind, detail string) Outcome {
		return Outcome{
			Success:   false,
			LatencyMS: time.Since(start).Seconds() * 1000,
			Kind:      kind,
			Detail:    detail,
			CheckedAt: time.Now().UTC(),
		}
	}

	body, _ := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "eth_blockNumber",
		Params:  []any{},
		ID:      1,
	})

	cctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return fail(KindConnectionError, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fail(KindTimeout, fmt.Sprintf("timeout after %.2fms", time.Since(start).Seconds()*1000))
		}
		return fail(KindConnectionError, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return fail(KindTimeout, fmt.Sprintf("timeout after %.2fms", time.Since(start).Seconds()*1000))
		}
		return fail(KindConnectionError, err.Error())
	}

	// Latency is dispatch to full body receipt.
	latency := time.Since(start).Seconds() * 1000

	if resp.StatusCode != http.StatusOK {
		return fail(KindHTTPError, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(raw, &rpcResp); err != nil {
		return fail(KindMalformedResponse, "invalid JSON: "+err.Error())
	}
	if rpcResp.Error != nil {
		msg := rpcResp.Error.Message
		if msg == "" {
			msg = "unknown error"
		}
		return fail(KindRPCError, msg)
	}

	height, err := strconv.ParseUint(strings.TrimPrefix(rpcResp.Result, "0x"), 16, 64)
	if err != nil {
		return fail(KindMalformedResponse, fmt.Sprintf("non-hex block number %q", rpcResp.Result))
	}

	return Outcome{
		Success:     true,
		BlockHeight: height,
		LatencyMS:   latency,
		CheckedAt:   time.Now().UTC(),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
