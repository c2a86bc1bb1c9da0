package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jwalitptl/medspa-api/internal/model"
	apperrors "github.com/jwalitptl/medspa-api/pkg/errors"
)

// fakePatients serves pages of ids pat-001..pat-N and records every call.
type fakePatients struct {
	mu    sync.Mutex
	total int
	calls []model.PatientParams
	// hold, when set, blocks calls whose search matches until released.
	hold map[string]chan struct{}
	err  error
}

func newFakePatients(total int) *fakePatients {
	return &fakePatients{total: total, hold: map[string]chan struct{}{}}
}

func (f *fakePatients) ListPatients(ctx context.Context, p model.PatientParams) (model.Page[model.Patient], error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	gate := f.hold[p.Search]
	err := f.err
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return model.Page[model.Patient]{}, ctx.Err()
		}
	}
	if err != nil {
		return model.Page[model.Patient]{}, err
	}

	start := 0
	if p.Cursor != "" {
		fmt.Sscanf(p.Cursor, "pat-%d", &start)
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	var out []model.Patient
	for i := start + 1; i <= f.total && len(out) < limit; i++ {
		out = append(out, model.Patient{
			Base:      model.Base{ID: fmt.Sprintf("pat-%03d", i)},
			FirstName: p.Search,
		})
	}

	page := model.Page[model.Patient]{Data: out, Total: f.total}
	if len(out) > 0 && start+len(out) < f.total {
		next := out[len(out)-1].ID
		page.NextCursor = &next
		page.HasMore = true
	}
	return page, nil
}

func (f *fakePatients) GetPatient(ctx context.Context, id string) (model.PatientDetail, error) {
	f.mu.Lock()
	err := f.err
	f.mu.Unlock()
	if err != nil {
		return model.PatientDetail{}, err
	}
	if id == "missing" {
		return model.PatientDetail{}, apperrors.NotFound("patient", nil)
	}
	return model.PatientDetail{Patient: model.Patient{Base: model.Base{ID: id}}}, nil
}

func (f *fakePatients) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakePatients) lastCall() model.PatientParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func (f *fakePatients) gate(search string) chan struct{} {
	ch := make(chan struct{})
	f.mu.Lock()
	f.hold[search] = ch
	f.mu.Unlock()
	return ch
}

type fakeProviders struct {
	mu    sync.Mutex
	calls []model.ProviderParams
}

func (f *fakeProviders) ListProviders(ctx context.Context, p model.ProviderParams) (model.Page[model.ProviderSummary], error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	f.mu.Unlock()
	return model.Page[model.ProviderSummary]{
		Data:  []model.ProviderSummary{{ID: "prov-001", Name: p.Search}},
		Total: 1,
	}, nil
}

func (f *fakeProviders) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var errBoom = errors.New("boom")

// fakeAnalytics fails the aggregates named in fail and blocks those in block until released.
type fakeAnalytics struct {
	fail  map[string]bool
	block map[string]chan struct{}
}

func (f *fakeAnalytics) wait(ctx context.Context, name string) error {
	if ch, ok := f.block[name]; ok {
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.fail[name] {
		return errBoom
	}
	return nil
}

func (f *fakeAnalytics) Demographics(ctx context.Context) (model.Demographics, error) {
	return model.Demographics{TotalPatients: 3}, f.wait(ctx, "demographics")
}

func (f *fakeAnalytics) Sources(ctx context.Context) (model.SourceAnalytics, error) {
	return model.SourceAnalytics{SourceDistribution: map[string]int{"instagram": 1}}, f.wait(ctx, "sources")
}

func (f *fakeAnalytics) Services(ctx context.Context) (model.ServiceAnalytics, error) {
	return model.ServiceAnalytics{TotalRevenue: 65000}, f.wait(ctx, "services")
}

func (f *fakeAnalytics) Providers(ctx context.Context) (model.ProviderAnalytics, error) {
	return model.ProviderAnalytics{Providers: []model.ProviderStat{{ID: "prov-001"}}}, f.wait(ctx, "providers")
}

func (f *fakeAnalytics) Appointments(ctx context.Context) (model.AppointmentAnalytics, error) {
	return model.AppointmentAnalytics{TotalAppointments: 3}, f.wait(ctx, "appointments")
}

func (f *fakeAnalytics) PatientBehavior(ctx context.Context) (model.PatientBehavior, error) {
	return model.PatientBehavior{PatientsByAppointmentCount: map[string]int{"1": 2}}, f.wait(ctx, "behavior")
}

// failingStore errors on every call.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errBoom }
func (failingStore) Set(context.Context, string, []byte) error   { return errBoom }
func (failingStore) Delete(context.Context, string) error        { return errBoom }
