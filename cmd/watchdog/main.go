package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hamed0406/ethwatchdog/internal/config"
	"github.com/hamed0406/ethwatchdog/internal/logging"
	"github.com/hamed0406/ethwatchdog/internal/notify"
	"github.com/hamed0406/ethwatchdog/internal/probe"
	"github.com/hamed0406/ethwatchdog/internal/scheduler"
)

func main() {
	_ = godotenv.Load() // optional .env for dev/container runs

	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	printBanner(cfg)

	var notifier notify.Notifier
	if d := notify.NewDiscord(cfg.DiscordWebhook); d != nil {
		notifier = d
	} else {
		logger.Warn("discord_disabled_no_webhook")
	}
	reporter := notify.NewReporter(logger, notifier)

	wd := scheduler.New(
		logger,
		probe.NewRPCChecker(cfg.RPCURL, cfg.ProbeTimeout),
		reporter,
		os.Stdout,
		cfg.CheckInterval,
		cfg.ReportEvery,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("watchdog_run",
		zap.String("rpc_url", cfg.RPCURL),
		zap.Duration("interval", cfg.CheckInterval),
		zap.Int("report_every", cfg.ReportEvery),
	)
	wd.Run(ctx)

	// Drain pending notifications (including the shutdown message).
	reporter.Close()
}

func printBanner(cfg config.Config) {
	line := strings.Repeat("=", 60)
	alerts := "Disabled"
	if cfg.DiscordWebhook != "" {
		alerts = "Enabled"
	}
	fmt.Println(line)
	fmt.Println("ETH-WATCHDOG - Ethereum Node Monitor")
	fmt.Println(line)
	fmt.Printf("RPC URL: %s\n", cfg.RPCURL)
	fmt.Printf("Check Interval: %s\n", cfg.CheckInterval)
	fmt.Printf("Status Report Every: %d checks\n", cfg.ReportEvery)
	fmt.Printf("Discord Alerts: %s\n", alerts)
	fmt.Println(line)
	fmt.Println()
}
