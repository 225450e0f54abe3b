// Package data provides thread-safe storage for the loaded drug dataset.
// The dataset itself is immutable; reloads swap the whole snapshot behind an
// atomic pointer so readers never observe a partial load.
package data

import (
	"sync/atomic"
	"time"

	"github.com/quimed/chemspace-api/dataset/entities"
	"github.com/quimed/chemspace-api/interfaces"
	"github.com/quimed/chemspace-api/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the current dataset snapshot with atomic pointers for
// zero-downtime reloads.
type DataContainer struct {
	dataset         atomic.Value // *entities.Dataset
	lastLoaded      atomic.Value // time.Time
	loading         atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a new DataContainer with an empty dataset
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.dataset.Store(emptyDataset())
	dc.lastLoaded.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

func emptyDataset() *entities.Dataset {
	return &entities.Dataset{
		Drugs:   make([]entities.DrugRecord, 0),
		ByName:  make(map[string]*entities.DrugRecord),
		Periods: make([]string, 0),
		Routes:  make([]string, 0),
	}
}

// GetDataset returns the current dataset snapshot. The returned dataset must
// be treated as read-only.
func (dc *DataContainer) GetDataset() *entities.Dataset {
	if v := dc.dataset.Load(); v != nil {
		if ds, ok := v.(*entities.Dataset); ok {
			return ds
		}
	}

	logging.Warn("Dataset snapshot is empty or invalid")
	return emptyDataset()
}

// GetLastLoaded returns the timestamp of the last dataset load
func (dc *DataContainer) GetLastLoaded() time.Time {
	if v := dc.lastLoaded.Load(); v != nil {
		if lastLoaded, ok := v.(time.Time); ok {
			return lastLoaded
		}
	}

	logging.Warn("Could not get the last loaded value")
	return time.Time{}
}

// IsLoading returns true if a dataset load is currently in progress
func (dc *DataContainer) IsLoading() bool {
	return dc.loading.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateDataset atomically replaces the dataset snapshot
func (dc *DataContainer) UpdateDataset(ds *entities.Dataset) {
	dc.dataset.Store(ds)
	dc.lastLoaded.Store(time.Now())
}

// BeginLoad marks the start of a dataset load operation.
// Returns true if the load can proceed, false if another load is in progress.
func (dc *DataContainer) BeginLoad() bool {
	return dc.loading.CompareAndSwap(false, true)
}

// EndLoad marks the end of a dataset load operation
func (dc *DataContainer) EndLoad() {
	dc.loading.Store(false)
}
