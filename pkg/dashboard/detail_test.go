package dashboard

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medspa-api/internal/model"
)

// gatedStore blocks Get for one key until released.
type gatedStore struct {
	Store
	key     string
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == g.key {
		close(g.entered)
		<-g.release
	}
	return g.Store.Get(ctx, key)
}

func TestPatientDetailLoad(t *testing.T) {
	d := NewPatientDetail(newFakePatients(1), "pat-001", Options{})

	require.NoError(t, d.Load(context.Background()))
	st := d.State()
	assert.Equal(t, StatusReady, st.Status)
	assert.Equal(t, "pat-001", st.Data.Patient.ID)
	assert.False(t, d.NotFound())
}

func TestPatientDetailNotFoundIsDistinct(t *testing.T) {
	api := newFakePatients(1)
	d := NewPatientDetail(api, "missing", Options{})

	require.Error(t, d.Load(context.Background()))
	assert.True(t, d.NotFound())

	api.err = errBoom
	other := NewPatientDetail(api, "pat-001", Options{})
	require.Error(t, other.Load(context.Background()))
	assert.False(t, other.NotFound())
	assert.Equal(t, StatusFailed, other.State().Status)
}

func TestPatientDetailSelect(t *testing.T) {
	store := NewMemoryStore()
	d := NewPatientDetail(newFakePatients(2), "pat-001", Options{Store: store})
	require.NoError(t, d.Load(context.Background()))

	require.NoError(t, d.Select(context.Background(), "pat-002"))
	assert.Equal(t, "pat-002", d.ID())
	assert.Equal(t, "pat-002", d.State().Data.Patient.ID)

	_, err := store.Get(context.Background(), "patient:pat-001")
	assert.NoError(t, err)
	_, err = store.Get(context.Background(), "patient:pat-002")
	assert.NoError(t, err)
}

func TestPatientDetailSelectDropsEarlierCacheRead(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	cached, err := json.Marshal(model.PatientDetail{Patient: model.Patient{Base: model.Base{ID: "pat-001"}}})
	require.NoError(t, err)
	require.NoError(t, mem.Set(ctx, "patient:pat-001", cached))

	store := &gatedStore{
		Store:   mem,
		key:     "patient:pat-001",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	d := NewPatientDetail(newFakePatients(1), "pat-001", Options{Store: store})

	done := make(chan error, 1)
	go func() { done <- d.Load(ctx) }()
	<-store.entered

	require.Error(t, d.Select(ctx, "missing"))
	close(store.release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("earlier load did not finish")
	}

	st := d.State()
	assert.Equal(t, "missing", d.ID())
	assert.Equal(t, StatusFailed, st.Status)
	assert.False(t, st.HasData)
	assert.Empty(t, st.Data.Patient.ID)
	assert.True(t, d.NotFound())
}
