package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/medspa-api/internal/model"
	"github.com/jwalitptl/medspa-api/internal/query"
	"github.com/jwalitptl/medspa-api/internal/service/dataset"
	"github.com/jwalitptl/medspa-api/pkg/metrics"
)

type PatientService interface {
	ListPatients(ctx context.Context, params model.PatientParams) (model.Page[model.Patient], error)
	GetPatient(ctx context.Context, id string) (model.PatientDetail, error)
}

type Service struct {
	source  dataset.Source
	metrics *metrics.Metrics
}

func NewService(source dataset.Source, m *metrics.Metrics) *Service {
	return &Service{source: source, metrics: m}
}

func (s *Service) ListPatients(ctx context.Context, params model.PatientParams) (model.Page[model.Patient], error) {
	ds, err := s.source.Dataset(ctx)
	if err != nil {
		return model.Page[model.Patient]{}, fmt.Errorf("failed to list patients: %w", err)
	}
	defer s.metrics.ObserveQuery("list_patients", time.Now())
	return query.ListPatients(ds, params), nil
}

func (s *Service) GetPatient(ctx context.Context, id string) (model.PatientDetail, error) {
	ds, err := s.source.Dataset(ctx)
	if err != nil {
		return model.PatientDetail{}, fmt.Errorf("failed to get patient: %w", err)
	}
	defer s.metrics.ObserveQuery("patient_detail", time.Now())

	detail, err := query.PatientDetail(ds, id)
	if err != nil {
		return model.PatientDetail{}, fmt.Errorf("failed to get patient %s: %w", id, err)
	}
	return detail, nil
}
