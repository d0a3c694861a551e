package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	RPCURL         string        // monitored JSON-RPC endpoint
	DiscordWebhook string        // empty means Discord alerts are disabled
	CheckInterval  time.Duration // time between probes
	ReportEvery    int           // checks per status-report window
	ProbeTimeout   time.Duration // hard bound on a single probe
	LogDir         string        // logs directory
}

func FromEnv() Config {
	rpcURL := os.Getenv("RPC_URL")
	if rpcURL == "" {
		rpcURL = "https://eth.llamarpc.com"
	}

	webhook := os.Getenv("DISCORD_WEBHOOK")

	// Logs
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	checkInterval := 10 * time.Second
	if v := os.Getenv("CHECK_INTERVAL_S"); v != "" {
		if s, err := strconv.Atoi(v); err == nil && s > 0 {
			checkInterval = time.Duration(s) * time.Second
		}
	}

	reportEvery := 6
	if v := os.Getenv("REPORT_EVERY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			reportEvery = n
		}
	}

	probeTimeout := 15 * time.Second
	if v := os.Getenv("PROBE_TIMEOUT_S"); v != "" {
		if s, err := strconv.Atoi(v); err == nil && s > 0 {
			probeTimeout = time.Duration(s) * time.Second
		}
	}

	return Config{
		RPCURL:         rpcURL,
		DiscordWebhook: webhook,
		CheckInterval:  checkInterval,
		ReportEvery:    reportEvery,
		ProbeTimeout:   probeTimeout,
		LogDir:         logDir,
	}
}
