package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/medspa-api/internal/model"
	"github.com/jwalitptl/medspa-api/internal/query"
	"github.com/jwalitptl/medspa-api/internal/service/dataset"
	"github.com/jwalitptl/medspa-api/pkg/metrics"
)

type AnalyticsService interface {
	Demographics(ctx context.Context) (model.Demographics, error)
	Sources(ctx context.Context) (model.SourceAnalytics, error)
	Services(ctx context.Context) (model.ServiceAnalytics, error)
	Providers(ctx context.Context) (model.ProviderAnalytics, error)
	Appointments(ctx context.Context) (model.AppointmentAnalytics, error)
	PatientBehavior(ctx context.Context) (model.PatientBehavior, error)
	Patients(ctx context.Context) (model.PatientAnalytics, error)
	Business(ctx context.Context) (model.BusinessAnalytics, error)
}

type Service struct {
	source  dataset.Source
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Service)

// WithClock overrides the time used for age calculations.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(source dataset.Source, m *metrics.Metrics, opts ...Option) *Service {
	s := &Service{source: source, metrics: m, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// run loads the dataset and times fn under the aggregate's name.
func run[T any](ctx context.Context, s *Service, name string, fn func(*query.Dataset) T) (T, error) {
	var zero T
	ds, err := s.source.Dataset(ctx)
	if err != nil {
		return zero, fmt.Errorf("failed to compute %s analytics: %w", name, err)
	}
	defer s.metrics.ObserveQuery(name, time.Now())
	return fn(ds), nil
}

func (s *Service) Demographics(ctx context.Context) (model.Demographics, error) {
	return run(ctx, s, "demographics", func(ds *query.Dataset) model.Demographics {
		return query.Demographics(ds, s.now())
	})
}

func (s *Service) Sources(ctx context.Context) (model.SourceAnalytics, error) {
	return run(ctx, s, "sources", query.Sources)
}

func (s *Service) Services(ctx context.Context) (model.ServiceAnalytics, error) {
	return run(ctx, s, "services", query.Services)
}

func (s *Service) Providers(ctx context.Context) (model.ProviderAnalytics, error) {
	return run(ctx, s, "providers", query.Providers)
}

func (s *Service) Appointments(ctx context.Context) (model.AppointmentAnalytics, error) {
	return run(ctx, s, "appointments", query.Appointments)
}

func (s *Service) PatientBehavior(ctx context.Context) (model.PatientBehavior, error) {
	return run(ctx, s, "patient_behavior", query.PatientBehavior)
}

func (s *Service) Patients(ctx context.Context) (model.PatientAnalytics, error) {
	return run(ctx, s, "patients", func(ds *query.Dataset) model.PatientAnalytics {
		return query.PatientAnalytics(ds, s.now())
	})
}

func (s *Service) Business(ctx context.Context) (model.BusinessAnalytics, error) {
	return run(ctx, s, "business", query.BusinessAnalytics)
}
