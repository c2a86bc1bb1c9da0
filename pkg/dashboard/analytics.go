package dashboard

import (
	"context"
	stderrors "errors"

	"github.com/sourcegraph/conc"

	"github.com/jwalitptl/medspa-api/internal/model"
)

type AnalyticsAPI interface {
	Demographics(ctx context.Context) (model.Demographics, error)
	Sources(ctx context.Context) (model.SourceAnalytics, error)
	Services(ctx context.Context) (model.ServiceAnalytics, error)
	Providers(ctx context.Context) (model.ProviderAnalytics, error)
	Appointments(ctx context.Context) (model.AppointmentAnalytics, error)
	PatientBehavior(ctx context.Context) (model.PatientBehavior, error)
}

// Analytics holds the dashboard's six aggregates. Each one loads and fails
// on its own.
type Analytics struct {
	Demographics    *Resource[model.Demographics]
	Sources         *Resource[model.SourceAnalytics]
	Services        *Resource[model.ServiceAnalytics]
	Providers       *Resource[model.ProviderAnalytics]
	Appointments    *Resource[model.AppointmentAnalytics]
	PatientBehavior *Resource[model.PatientBehavior]
}

func NewAnalytics(api AnalyticsAPI, opts Options) *Analytics {
	return &Analytics{
		Demographics:    NewResource("analytics:demographics", api.Demographics, opts),
		Sources:         NewResource("analytics:sources", api.Sources, opts),
		Services:        NewResource("analytics:services", api.Services, opts),
		Providers:       NewResource("analytics:providers", api.Providers, opts),
		Appointments:    NewResource("analytics:appointments", api.Appointments, opts),
		PatientBehavior: NewResource("analytics:patient-behavior", api.PatientBehavior, opts),
	}
}

type loader interface {
	Load(ctx context.Context) error
	Refresh(ctx context.Context) error
}

func (a *Analytics) all() []loader {
	return []loader{a.Demographics, a.Sources, a.Services, a.Providers, a.Appointments, a.PatientBehavior}
}

// Load restores every aggregate from the Store and revalidates them concurrently.
// The returned error joins individual failures; successful aggregates are ready regardless.
func (a *Analytics) Load(ctx context.Context) error {
	return a.each(func(l loader) error { return l.Load(ctx) })
}

// Refresh revalidates every aggregate concurrently.
func (a *Analytics) Refresh(ctx context.Context) error {
	return a.each(func(l loader) error { return l.Refresh(ctx) })
}

func (a *Analytics) each(fn func(loader) error) error {
	loaders := a.all()
	errs := make([]error, len(loaders))

	var wg conc.WaitGroup
	for i, l := range loaders {
		wg.Go(func() {
			errs[i] = fn(l)
		})
	}
	wg.Wait()

	return stderrors.Join(errs...)
}
