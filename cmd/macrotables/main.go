package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"MacroTables/internal/batch"
	"MacroTables/internal/collector"
	"MacroTables/internal/config"
	"MacroTables/internal/exporter"
	"MacroTables/internal/notifier"
	"MacroTables/internal/recorder"
	"MacroTables/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] MacroTables starting...")
	if err := run(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	log.Println("[INFO] MacroTables stopped")
}

// run wires the components and blocks until the batch (run-once mode) or a
// shutdown signal (cron mode). Deferred cleanup runs before main exits.
func run() error {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if err := cfg.RequireCredential(); err != nil {
		return err
	}

	fetcher := collector.NewFREDFetcher(cfg.FRED.BaseURL, cfg.FRED.APIKey, cfg.Proxy)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	xlsx := exporter.NewXLSXExporter(cfg.Output.Dir)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	runner := batch.NewRunner(cfg.Specs(), fetcher, xlsx, rec, batch.Options{
		APIKey:       cfg.FRED.APIKey,
		FetchTimeout: cfg.FRED.FetchTimeout,
		Concurrent:   cfg.Batch.Concurrent,
		PreviewRows:  cfg.Batch.PreviewRows,
	})

	var n scheduler.Notifier
	if cfg.Telegram.BotToken != "" {
		n = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, runner, n)

	// Without a schedule, run once and exit.
	if cfg.Schedule.Cron == "" {
		report, err := sched.RunNow()
		if err != nil {
			return fmt.Errorf("batch: %w", err)
		}
		if failed := report.Failed(); len(failed) > 0 {
			log.Printf("[WARN] %d of %d indicators not exported", len(failed), len(report.Results))
		}
		return nil
	}

	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return fmt.Errorf("register cron task: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing batch now")
		go func() {
			if _, err := sched.RunNow(); err != nil {
				log.Printf("[ERROR] batch: %v", err)
			}
		}()
	}

	log.Println("[INFO] MacroTables is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	return nil
}
