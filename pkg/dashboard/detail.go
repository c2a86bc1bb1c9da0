package dashboard

import (
	"context"
	"sync"

	"github.com/jwalitptl/medspa-api/internal/model"
	"github.com/jwalitptl/medspa-api/pkg/errors"
)

// PatientDetail tracks one patient's record and appointment history.
type PatientDetail struct {
	*Resource[model.PatientDetail]

	api PatientAPI

	mu sync.RWMutex
	id string
}

func NewPatientDetail(api PatientAPI, id string, opts Options) *PatientDetail {
	d := &PatientDetail{api: api, id: id}
	d.Resource = newResource("patient", d.fetch, opts, func() string {
		return "patient:" + d.ID()
	})
	return d
}

func (d *PatientDetail) fetch(ctx context.Context) (model.PatientDetail, error) {
	return d.api.GetPatient(ctx, d.ID())
}

func (d *PatientDetail) ID() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.id
}

// Select switches to another patient, dropping the previous one's data.
func (d *PatientDetail) Select(ctx context.Context, id string) error {
	d.mu.Lock()
	d.id = id
	d.mu.Unlock()

	d.guard.next()
	d.Resource.mu.Lock()
	d.state = State[model.PatientDetail]{}
	d.Resource.mu.Unlock()

	return d.Load(ctx)
}

// NotFound reports whether the last request failed because the patient does not exist,
// as opposed to a transport failure.
func (d *PatientDetail) NotFound() bool {
	st := d.State()
	return st.Status == StatusFailed && errors.IsNotFound(st.Err)
}
