package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/medspa-api/internal/model"
	"github.com/jwalitptl/medspa-api/internal/query"
	"github.com/jwalitptl/medspa-api/internal/service/dataset"
	"github.com/jwalitptl/medspa-api/pkg/metrics"
)

type ProviderService interface {
	ListProviders(ctx context.Context, params model.ProviderParams) (model.Page[model.ProviderSummary], error)
}

type Service struct {
	source  dataset.Source
	metrics *metrics.Metrics
}

func NewService(source dataset.Source, m *metrics.Metrics) *Service {
	return &Service{source: source, metrics: m}
}

func (s *Service) ListProviders(ctx context.Context, params model.ProviderParams) (model.Page[model.ProviderSummary], error) {
	ds, err := s.source.Dataset(ctx)
	if err != nil {
		return model.Page[model.ProviderSummary]{}, fmt.Errorf("failed to list providers: %w", err)
	}
	defer s.metrics.ObserveQuery("list_providers", time.Now())
	return query.ListProviders(ds, params), nil
}
