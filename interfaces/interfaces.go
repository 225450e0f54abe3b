// Package interfaces defines core abstractions for the chemspace API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"time"

	"github.com/quimed/chemspace-api/dataset/entities"
)

// DataStore defines the contract for dataset snapshot storage.
// It provides thread-safe access to the loaded dataset with atomic swaps
// for zero-downtime reloads.
type DataStore interface {
	// Data retrieval methods
	GetDataset() *entities.Dataset
	GetLastLoaded() time.Time
	IsLoading() bool
	GetServerStartTime() time.Time

	// Data update methods
	UpdateDataset(ds *entities.Dataset)
	BeginLoad() bool
	EndLoad()
}

// DatasetLoader defines the contract for reading the static drug table into
// an immutable dataset.
type DatasetLoader interface {
	Load(path string) (*entities.Dataset, error)
}

// StructureService defines the contract for the external cheminformatics
// collaborators: descriptor computation, drug-likeness scoring, 2-D
// depiction and molecular formula derivation from a structure encoding.
// All methods fail with the service's invalid-structure error on
// unparseable input.
type StructureService interface {
	ComputeDescriptors(ctx context.Context, smiles string) (map[string]float64, error)
	ComputeDrugLikeness(ctx context.Context, smiles string) (float64, error)
	Render2D(ctx context.Context, smiles string) ([]byte, error)
	MolecularFormula(ctx context.Context, smiles string) (string, error)
}

// Scheduler defines the contract for the periodic dataset reload job.
type Scheduler interface {
	Start() error
	Stop()
}

// DataValidator defines the contract for validating parsed drug records
// before they are swapped into the data store.
type DataValidator interface {
	ValidateRecord(d *entities.DrugRecord) error
	ValidateDataset(ds *entities.Dataset) error
}
