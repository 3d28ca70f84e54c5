// Command poolstatus polls the LCLC booking feed, classifies the pool
// schedule and serves the current lane/kids availability over HTTP.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gruberb/isthelclcpoolopen/internal/config"
	appLog "github.com/gruberb/isthelclcpoolopen/internal/log"
	"github.com/gruberb/isthelclcpoolopen/internal/model"
	"github.com/gruberb/isthelclcpoolopen/internal/schedule"
	"github.com/gruberb/isthelclcpoolopen/internal/status"
	"github.com/gruberb/isthelclcpoolopen/internal/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (created with defaults on first run)")
	listen := flag.String("listen", "", "listen address, overrides the config value")
	once := flag.Bool("once", false, "refresh once, print the current status as JSON and exit")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	appLog.SetDebug(*debug)
	defer appLog.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "path", *configPath)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := schedule.NewStore(cfg)

	refreshCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	err = store.Refresh(refreshCtx)
	cancel()
	if err != nil {
		// The store may still hold a cached snapshot; keep running.
		appLog.Error("initial refresh failed", err)
		if *once {
			os.Exit(1)
		}
	}

	if *once {
		if err := printStatus(store); err != nil {
			appLog.Error("failed to print status", err)
			os.Exit(1)
		}
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.RefreshCron, func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if err := store.Refresh(refreshCtx); err != nil {
			appLog.Error("scheduled refresh failed", err)
		}
	}); err != nil {
		appLog.Error("invalid refresh schedule", err, "cron", cfg.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()
	appLog.Info("refresh scheduled", "cron", cfg.RefreshCron)

	if err := web.StartServer(ctx, cfg, store); err != nil {
		appLog.Error("HTTP server failed", err)
		os.Exit(1)
	}
	appLog.Info("shutdown complete")
}

// printStatus writes the resolver's answer for both features to stdout.
type featureReport struct {
	Open      bool       `json:"open"`
	Kind      string     `json:"kind"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	NextStart *time.Time `json:"next_start,omitempty"`
	Category  string     `json:"category"`
	Text      string     `json:"text"`
}

func printStatus(store *schedule.Store) error {
	now := time.Now().In(store.Location())

	report := map[string]featureReport{
		"lanes": reportFor(store, model.FeatureLanes, now),
		"kids":  reportFor(store, model.FeatureKids, now),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	return nil
}

func reportFor(store *schedule.Store, feature model.Feature, now time.Time) featureReport {
	st := store.Status(feature, now)
	r := featureReport{
		Open:     st.Kind == model.StatusActive,
		Kind:     string(st.Kind),
		Category: string(st.Category),
		Text:     status.Text(feature, st, now),
	}
	if st.Kind == model.StatusActive {
		end := st.EndTime
		r.EndTime = &end
	}
	if st.Kind == model.StatusGap {
		next := st.NextStart
		r.NextStart = &next
	}
	return r
}
