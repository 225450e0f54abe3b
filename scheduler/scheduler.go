// Package scheduler provides the periodic dataset reload for the chemspace
// API. The drug table is static between refreshes; the daily job re-reads
// the file and atomically swaps the snapshot in the data container.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/quimed/chemspace-api/dataset/entities"
	"github.com/quimed/chemspace-api/interfaces"
	"github.com/quimed/chemspace-api/logging"
	"github.com/quimed/chemspace-api/metrics"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// LoadFunc reads the dataset file. Matches dataset.Load.
type LoadFunc func(path string) (*entities.Dataset, error)

// Scheduler handles dataset reloads and staleness monitoring using
// dependency injection.
type Scheduler struct {
	dataStore   interfaces.DataStore
	loader      LoadFunc
	validator   interfaces.DataValidator
	datasetPath string
	schedule    string // "HH:MM" times separated by semicolons
	scheduler   *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, loader LoadFunc, validator interfaces.DataValidator,
	datasetPath, schedule string) *Scheduler {
	return &Scheduler{
		dataStore:   dataStore,
		loader:      loader,
		validator:   validator,
		datasetPath: datasetPath,
		schedule:    schedule,
		scheduler:   gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial dataset load and schedules the daily reloads.
func (s *Scheduler) Start() error {
	// Initial load is blocking: the API has nothing to serve without it
	if err := s.reload(); err != nil {
		logging.Error("Failed to perform initial dataset load", "error", err)
		return fmt.Errorf("initial dataset load failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Days().At(s.schedule).Do(func() {
		if err := s.reload(); err != nil {
			logging.Error("Failed to reload dataset", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule dataset reloads", "error", err)
		return fmt.Errorf("failed to schedule dataset reloads: %w", err)
	}

	s.scheduler.StartAsync()

	s.startStalenessMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// reload reads, validates and swaps in a fresh dataset snapshot
func (s *Scheduler) reload() error {
	// Prevent concurrent reloads
	if !s.dataStore.BeginLoad() {
		logging.Info("Dataset load already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndLoad()

	start := time.Now()

	ds, err := s.loader(s.datasetPath)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	if s.validator != nil {
		if err := s.validator.ValidateDataset(ds); err != nil {
			return fmt.Errorf("dataset validation failed: %w", err)
		}
	}

	// Atomic swap (zero downtime replacement)
	s.dataStore.UpdateDataset(ds)

	metrics.DatasetRecords.Set(float64(len(ds.Drugs)))
	metrics.DatasetLastLoadTimestamp.Set(float64(time.Now().Unix()))

	logging.Info("Dataset load completed",
		"duration", time.Since(start).String(),
		"records", len(ds.Drugs),
		"periods", len(ds.Periods),
		"routes", len(ds.Routes))

	return nil
}

// startStalenessMonitoring warns when the snapshot is older than a missed
// reload would explain.
func (s *Scheduler) startStalenessMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastLoaded := s.dataStore.GetLastLoaded()
			if time.Since(lastLoaded) > 25*time.Hour {
				logging.Warn("Dataset hasn't been reloaded in over 25 hours")
			}
		}
	}()
}
