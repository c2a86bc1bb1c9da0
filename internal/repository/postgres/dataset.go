package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/medspa-api/internal/repository"
)

const (
	selectPatients = `SELECT id, first_name, last_name, date_of_birth, gender, source, address, phone, email, created_date
		FROM patient ORDER BY id`
	selectProviders = `SELECT id, first_name, last_name, email, phone, COALESCE(specialty, '') AS specialty, created_date
		FROM provider ORDER BY id`
	selectServices = `SELECT id, name, description, price, duration, created_date
		FROM service ORDER BY id`
	selectAppointments = `SELECT id, patient_id, status, created_date
		FROM appointment ORDER BY id`
	selectAppointmentServices = `SELECT id, appointment_id, service_id, provider_id, created_date
		FROM appointment_service ORDER BY id`
	selectPayments = `SELECT id, appointment_id, amount, payment_date, created_date
		FROM payment ORDER BY id`
)

var sqlTxReadOnly = sql.TxOptions{ReadOnly: true}

type datasetRepository struct {
	db *sqlx.DB
}

func NewDatasetRepository(db *sqlx.DB) repository.DatasetRepository {
	return &datasetRepository{db: db}
}

// Snapshot reads all six tables inside one read-only transaction so the
// collections are mutually consistent.
func (r *datasetRepository) Snapshot(ctx context.Context) (*repository.Snapshot, error) {
	tx, err := r.db.BeginTxx(ctx, &sqlTxReadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback()

	snap := &repository.Snapshot{}
	loads := []struct {
		table string
		dest  interface{}
		query string
	}{
		{"patient", &snap.Patients, selectPatients},
		{"provider", &snap.Providers, selectProviders},
		{"service", &snap.Services, selectServices},
		{"appointment", &snap.Appointments, selectAppointments},
		{"appointment_service", &snap.AppointmentServices, selectAppointmentServices},
		{"payment", &snap.Payments, selectPayments},
	}
	for _, l := range loads {
		if err := tx.SelectContext(ctx, l.dest, l.query); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", l.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return snap, nil
}

func (r *datasetRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
