package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/clients"
	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/config"
	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/discovery"
	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/httpapi"
	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/service"
	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/store"
)

func main() {
	loadDotEnv()
	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	slog.Info("starting_auction_bidder",
		"name", cfg.Name,
		"base_url", cfg.BaseURL,
		"auction_house", cfg.AuctionHouseURL,
		"port", cfg.Port,
		"supported_job_types", supportedList(cfg),
		"poll_interval", cfg.PollInterval,
		"mqtt_enabled", cfg.MQTTEnabled,
	)

	ledger := store.NewBidLedger()
	jobs := store.NewActiveJobs()
	house := clients.NewAuctionHouse(cfg.Name, cfg.BaseURL, cfg.APIEnvelope)
	svc := service.New(cfg, ledger, jobs, house)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go svc.Run(ctx)

	poller := discovery.NewPoller(house, cfg.AuctionHouseURL, cfg.PollInterval, cfg.PollDiscovery, cfg.VerifyAuctions, svc.Intake())
	go poller.Run(ctx)

	if cfg.MQTTEnabled {
		go discovery.NewSubscriber(cfg, svc.Intake()).Run(ctx)
	} else {
		slog.Info("bus_disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpapi.NewRouter(svc, cfg.APIEnvelope),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		slog.Info("listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}

func supportedList(cfg config.Config) []string {
	if len(cfg.SupportedJobTypes) == 0 {
		return []string{"all"}
	}
	types := make([]string, 0, len(cfg.SupportedJobTypes))
	for jobType := range cfg.SupportedJobTypes {
		types = append(types, jobType)
	}
	sort.Strings(types)
	return types
}

// loadDotEnv walks up from the working directory looking for a .env file.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
