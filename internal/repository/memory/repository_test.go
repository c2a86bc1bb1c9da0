package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medspa-api/internal/model"
)

func TestLoadSeedDir(t *testing.T) {
	snap, err := LoadSeedDir("testdata/seed")
	require.NoError(t, err)

	require.Len(t, snap.Patients, 3)
	assert.Equal(t, "pat-001", snap.Patients[0].ID)
	assert.Equal(t, "1991-05-02", snap.Patients[0].DateOfBirth.String())
	assert.Equal(t, time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC), snap.Patients[0].CreatedDate)
	assert.Equal(t, model.SourceTikTok, snap.Patients[2].Source)
	assert.Equal(t, 2024, snap.Patients[2].CreatedDate.Year())

	require.Len(t, snap.Providers, 2)
	assert.Equal(t, "", snap.Providers[0].Specialty)
	assert.Equal(t, "Dermatology", snap.Providers[1].Specialty)

	require.Len(t, snap.AppointmentServices, 3)
	assert.Equal(t, "appt-001:svc-001", snap.AppointmentServices[0].ID)
	assert.Equal(t, "as-003", snap.AppointmentServices[2].ID)

	require.Len(t, snap.Payments, 1)
	assert.Equal(t, int64(65000), snap.Payments[0].Amount)
	assert.Equal(t, time.Date(2024, time.March, 4, 12, 45, 0, 0, time.UTC), snap.Payments[0].PaymentDate)
}

func TestLoadSeedDirMissingFile(t *testing.T) {
	_, err := LoadSeedDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "patient.json")
}

func TestDatasetRepository(t *testing.T) {
	repo, err := NewDatasetRepository("testdata/seed")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, repo.Ping(ctx))

	snap, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Appointments, 3)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = repo.Snapshot(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}
