package repository

import (
	"context"

	"github.com/jwalitptl/medspa-api/internal/model"
)

// Snapshot holds every collection as loaded from storage, in storage order.
type Snapshot struct {
	Patients            []model.Patient
	Providers           []model.Provider
	Services            []model.Service
	Appointments        []model.Appointment
	AppointmentServices []model.AppointmentService
	Payments            []model.Payment
}

// All repository interfaces in one file
type (
	// DatasetRepository loads the full read-only dataset.
	DatasetRepository interface {
		Snapshot(ctx context.Context) (*Snapshot, error)
		Ping(ctx context.Context) error
	}

	// SeedRepository writes a snapshot into empty storage.
	SeedRepository interface {
		Migrate(ctx context.Context) error
		Seed(ctx context.Context, snap *Snapshot) error
	}
)
