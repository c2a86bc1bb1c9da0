package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medspa-api/internal/config"
	"github.com/jwalitptl/medspa-api/internal/model"
	"github.com/jwalitptl/medspa-api/internal/repository"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestSnapshot(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2024, time.February, 3, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM patient ORDER BY id")).WillReturnRows(
		sqlmock.NewRows([]string{"id", "first_name", "last_name", "date_of_birth", "gender", "source", "address", "phone", "email", "created_date"}).
			AddRow("p1", "Jane", "Doe", time.Date(1991, time.May, 2, 0, 0, 0, 0, time.UTC), "female", "instagram", "1 Main St", "5550100", "jane@example.com", created),
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM provider ORDER BY id")).WillReturnRows(
		sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "phone", "specialty", "created_date"}).
			AddRow("pr1", "Dana", "Reyes", "dana@example.com", "5550199", "", created),
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM service ORDER BY id")).WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "description", "price", "duration", "created_date"}).
			AddRow("s1", "Botox", "Wrinkle relaxer", 5000, 30, created),
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM appointment ORDER BY id")).WillReturnRows(
		sqlmock.NewRows([]string{"id", "patient_id", "status", "created_date"}).
			AddRow("a1", "p1", "confirmed", created),
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM appointment_service ORDER BY id")).WillReturnRows(
		sqlmock.NewRows([]string{"id", "appointment_id", "service_id", "provider_id", "created_date"}).
			AddRow("as1", "a1", "s1", "pr1", created),
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM payment ORDER BY id")).WillReturnRows(
		sqlmock.NewRows([]string{"id", "appointment_id", "amount", "payment_date", "created_date"}).
			AddRow("pay1", "a1", 5000, created, created),
	)
	mock.ExpectCommit()

	snap, err := NewDatasetRepository(db).Snapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Patients, 1)
	assert.Equal(t, model.GenderFemale, snap.Patients[0].Gender)
	assert.Equal(t, "1991-05-02", snap.Patients[0].DateOfBirth.String())
	assert.Equal(t, created, snap.Patients[0].CreatedDate)
	require.Len(t, snap.Services, 1)
	assert.Equal(t, int64(5000), snap.Services[0].Price)
	require.Len(t, snap.Appointments, 1)
	assert.Equal(t, model.AppointmentStatusConfirmed, snap.Appointments[0].Status)
	require.Len(t, snap.AppointmentServices, 1)
	assert.Equal(t, "pr1", snap.AppointmentServices[0].ProviderID)
	require.Len(t, snap.Payments, 1)
	assert.Equal(t, int64(5000), snap.Payments[0].Amount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotQueryError(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM patient ORDER BY id")).WillReturnError(errors.New("relation does not exist"))
	mock.ExpectRollback()

	_, err := NewDatasetRepository(db).Snapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load patient")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	db, mock := newMock(t)
	for range schema {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, NewSeedRepository(db).Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeed(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2024, time.February, 3, 10, 0, 0, 0, time.UTC)
	snap := &repository.Snapshot{
		Patients:            []model.Patient{{Base: model.Base{ID: "p1", CreatedDate: created}, FirstName: "Jane", Gender: model.GenderFemale, Source: model.SourceGoogle}},
		Providers:           []model.Provider{{Base: model.Base{ID: "pr1", CreatedDate: created}, FirstName: "Dana"}},
		Services:            []model.Service{{Base: model.Base{ID: "s1", CreatedDate: created}, Name: "Botox", Price: 5000}},
		Appointments:        []model.Appointment{{Base: model.Base{ID: "a1", CreatedDate: created}, PatientID: "p1", Status: model.AppointmentStatusPending}},
		AppointmentServices: []model.AppointmentService{{Base: model.Base{ID: "as1", CreatedDate: created}, AppointmentID: "a1", ServiceID: "s1", ProviderID: "pr1"}},
		Payments:            []model.Payment{{Base: model.Base{ID: "pay1", CreatedDate: created}, AppointmentID: "a1", Amount: 5000, PaymentDate: created}},
	}

	mock.ExpectBegin()
	for _, table := range []string{"patient", "provider", "service", "appointment", "appointment_service", "payment"} {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO " + table)).WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, NewSeedRepository(db).Seed(context.Background(), snap))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedRollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	snap := &repository.Snapshot{
		Patients: []model.Patient{{Base: model.Base{ID: "p1"}}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO patient")).WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := NewSeedRepository(db).Seed(context.Background(), snap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert patient p1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigurePool(t *testing.T) {
	db, _ := newMock(t)

	configurePool(db, config.DatabaseConfig{MaxOpenConns: 7, ConnMaxLifetime: time.Minute})
	assert.Equal(t, 7, db.Stats().MaxOpenConnections)

	configurePool(db, config.DatabaseConfig{})
	assert.Equal(t, 7, db.Stats().MaxOpenConnections)
}
