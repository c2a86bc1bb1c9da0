// Package memory serves the dataset from seed JSON files held in memory.
package memory

import (
	"context"

	"github.com/jwalitptl/medspa-api/internal/repository"
)

type datasetRepository struct {
	snap *repository.Snapshot
}

// NewDatasetRepository loads dir once; every Snapshot call returns the same data.
func NewDatasetRepository(dir string) (repository.DatasetRepository, error) {
	snap, err := LoadSeedDir(dir)
	if err != nil {
		return nil, err
	}
	return &datasetRepository{snap: snap}, nil
}

// NewFromSnapshot wraps an already built snapshot.
func NewFromSnapshot(snap *repository.Snapshot) repository.DatasetRepository {
	return &datasetRepository{snap: snap}
}

func (r *datasetRepository) Snapshot(ctx context.Context) (*repository.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.snap, nil
}

func (r *datasetRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
