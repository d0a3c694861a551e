// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	rpcURL := strings.TrimSpace(os.Getenv("RPC_URL"))
	webhook := strings.TrimSpace(os.Getenv("DISCORD_WEBHOOK"))

	if rpcURL == "" {
		warn("RPC_URL is empty; the default public endpoint will be used.")
	} else if !strings.HasPrefix(rpcURL, "http://") && !strings.HasPrefix(rpcURL, "https://") {
		fail("RPC_URL must be an http(s) URL, got: " + rpcURL)
	} else {
		ok("RPC_URL=" + rpcURL)
	}

	if webhook == "" {
		warn("DISCORD_WEBHOOK is empty — alerts will only appear in local logs.")
	} else if !strings.HasPrefix(webhook, "https://") {
		fail("DISCORD_WEBHOOK must be an https URL.")
	} else {
		ok("DISCORD_WEBHOOK present")
	}

	// Numeric knobs must parse if set at all.
	for _, name := range []string{"CHECK_INTERVAL_S", "REPORT_EVERY", "PROBE_TIMEOUT_S"} {
		v := strings.TrimSpace(os.Getenv(name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			fail(name + " must be a positive integer, got: " + v)
		}
		ok(name + "=" + v)
	}

	ok("preflight passed")
}
