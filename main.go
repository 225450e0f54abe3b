package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/quimed/chemspace-api/chem"
	"github.com/quimed/chemspace-api/config"
	"github.com/quimed/chemspace-api/data"
	"github.com/quimed/chemspace-api/dataset"
	"github.com/quimed/chemspace-api/dataset/entities"
	"github.com/quimed/chemspace-api/logging"
	"github.com/quimed/chemspace-api/scheduler"
	"github.com/quimed/chemspace-api/server"
	"github.com/quimed/chemspace-api/validation"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		logging.Debug("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLoggerWithLevel(cfg.LogDir, logging.ParseLevel(cfg.LogLevel))

	// A broken descriptor registry should fail the boot, not a chart render
	if err := entities.ValidateRegistry(); err != nil {
		logging.Error("Descriptor registry is inconsistent", "error", err)
		os.Exit(1)
	}

	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	sched := scheduler.NewScheduler(dataContainer, dataset.Load, validation.NewDataValidator(),
		cfg.DatasetPath, cfg.ReloadSchedule)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	chemService := chem.NewClient(cfg.ChemServiceURL)
	if cfg.ChemServiceURL == "" {
		logging.Warn("CHEM_SERVICE_URL not set, depictions and live descriptors are disabled")
	}

	srv := server.NewServer(cfg, dataContainer, chemService)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			logging.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	logging.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	} else {
		logging.Info("Server exited gracefully")
	}
}
