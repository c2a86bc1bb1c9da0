package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/medspa-api/internal/repository"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS patient (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		date_of_birth DATE NOT NULL,
		gender TEXT NOT NULL,
		source TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		created_date TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS provider (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		specialty TEXT,
		created_date TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS service (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price BIGINT NOT NULL,
		duration INTEGER NOT NULL,
		created_date TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS appointment (
		id TEXT PRIMARY KEY,
		patient_id TEXT NOT NULL REFERENCES patient(id),
		status TEXT NOT NULL,
		created_date TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS appointment_service (
		id TEXT PRIMARY KEY,
		appointment_id TEXT NOT NULL REFERENCES appointment(id),
		service_id TEXT NOT NULL REFERENCES service(id),
		provider_id TEXT NOT NULL REFERENCES provider(id),
		created_date TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payment (
		id TEXT PRIMARY KEY,
		appointment_id TEXT NOT NULL REFERENCES appointment(id),
		amount BIGINT NOT NULL,
		payment_date TIMESTAMPTZ NOT NULL,
		created_date TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_appointment_status ON appointment (status)`,
	`CREATE INDEX IF NOT EXISTS ix_appointment_patient_id ON appointment (patient_id)`,
	`CREATE INDEX IF NOT EXISTS ix_appointment_service_appointment_id ON appointment_service (appointment_id)`,
	`CREATE INDEX IF NOT EXISTS ix_payment_appointment_id ON payment (appointment_id)`,
}

type seedRepository struct {
	db *sqlx.DB
}

func NewSeedRepository(db *sqlx.DB) repository.SeedRepository {
	return &seedRepository{db: db}
}

func (r *seedRepository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Seed inserts the snapshot in foreign-key order within a single transaction.
func (r *seedRepository) Seed(ctx context.Context, snap *repository.Snapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := insertAll(ctx, tx, snap); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}

func insertAll(ctx context.Context, tx *sqlx.Tx, snap *repository.Snapshot) error {
	for _, p := range snap.Patients {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO patient
			(id, first_name, last_name, date_of_birth, gender, source, address, phone, email, created_date)
			VALUES (:id, :first_name, :last_name, :date_of_birth, :gender, :source, :address, :phone, :email, :created_date)`, p); err != nil {
			return fmt.Errorf("failed to insert patient %s: %w", p.ID, err)
		}
	}
	for _, p := range snap.Providers {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO provider
			(id, first_name, last_name, email, phone, specialty, created_date)
			VALUES (:id, :first_name, :last_name, :email, :phone, NULLIF(:specialty, ''), :created_date)`, p); err != nil {
			return fmt.Errorf("failed to insert provider %s: %w", p.ID, err)
		}
	}
	for _, s := range snap.Services {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO service
			(id, name, description, price, duration, created_date)
			VALUES (:id, :name, :description, :price, :duration, :created_date)`, s); err != nil {
			return fmt.Errorf("failed to insert service %s: %w", s.ID, err)
		}
	}
	for _, a := range snap.Appointments {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO appointment
			(id, patient_id, status, created_date)
			VALUES (:id, :patient_id, :status, :created_date)`, a); err != nil {
			return fmt.Errorf("failed to insert appointment %s: %w", a.ID, err)
		}
	}
	for _, as := range snap.AppointmentServices {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO appointment_service
			(id, appointment_id, service_id, provider_id, created_date)
			VALUES (:id, :appointment_id, :service_id, :provider_id, :created_date)`, as); err != nil {
			return fmt.Errorf("failed to insert appointment service %s: %w", as.ID, err)
		}
	}
	for _, p := range snap.Payments {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO payment
			(id, appointment_id, amount, payment_date, created_date)
			VALUES (:id, :appointment_id, :amount, :payment_date, :created_date)`, p); err != nil {
			return fmt.Errorf("failed to insert payment %s: %w", p.ID, err)
		}
	}
	return nil
}
