package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/jwalitptl/medspa-api/internal/query"
	"github.com/jwalitptl/medspa-api/internal/repository"
	"github.com/jwalitptl/medspa-api/pkg/errors"
	"github.com/jwalitptl/medspa-api/pkg/metrics"
)

const (
	snapshotKey = "snapshot"
	// forced reloads never join a request-path load
	refreshKey = "snapshot:refresh"
)

type Config struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// Service caches the repository snapshot as a query.Dataset. Concurrent misses
// share one load.
type Service struct {
	repo    repository.DatasetRepository
	cache   *cache.Cache
	group   singleflight.Group
	ttl     time.Duration
	metrics *metrics.Metrics
	log     zerolog.Logger

	mu       sync.Mutex
	storedAt time.Time
}

func NewService(repo repository.DatasetRepository, cfg Config, m *metrics.Metrics, log zerolog.Logger) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 2 * cfg.TTL
	}
	return &Service{
		repo:    repo,
		cache:   cache.New(cfg.TTL, cfg.CleanupInterval),
		ttl:     cfg.TTL,
		metrics: m,
		log:     log.With().Str("component", "dataset").Logger(),
	}
}

// Dataset returns the cached dataset, loading it on a miss.
func (s *Service) Dataset(ctx context.Context) (*query.Dataset, error) {
	if v, found := s.cache.Get(snapshotKey); found {
		s.countLookup("hit")
		return v.(*query.Dataset), nil
	}
	s.countLookup("miss")

	ch := s.group.DoChan(snapshotKey, func() (interface{}, error) {
		return s.load(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*query.Dataset), nil
	case <-ctx.Done():
		// the shared load keeps running for other callers
		return nil, errors.Unavailable("dataset load timed out", ctx.Err())
	}
}

// Refresh reloads the dataset and replaces the cached copy. It always reads
// the repository, and cancelling ctx only fails this call.
func (s *Service) Refresh(ctx context.Context) error {
	_, err, _ := s.group.Do(refreshKey, func() (interface{}, error) {
		return s.load(ctx)
	})
	return err
}

// Ping checks that the underlying repository is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return errors.Unavailable("dataset repository unavailable", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context) (*query.Dataset, error) {
	start := time.Now()
	snap, err := s.repo.Snapshot(ctx)
	if s.metrics != nil {
		s.metrics.DatasetLoadLatency.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		s.countLoad("error")
		s.log.Error().Err(err).Msg("dataset load failed")
		return nil, errors.Unavailable("dataset unavailable", fmt.Errorf("failed to load snapshot: %w", err))
	}
	s.countLoad("success")

	ds := &query.Dataset{
		Patients:            snap.Patients,
		Providers:           snap.Providers,
		Services:            snap.Services,
		Appointments:        snap.Appointments,
		AppointmentServices: snap.AppointmentServices,
		Payments:            snap.Payments,
	}
	if !s.store(ds, start) {
		s.log.Debug().Msg("dataset load superseded by a newer one")
		return ds, nil
	}
	s.recordSizes(ds)

	s.log.Debug().
		Int("patients", len(ds.Patients)).
		Int("appointments", len(ds.Appointments)).
		Dur("took", time.Since(start)).
		Msg("dataset loaded")
	return ds, nil
}

// store caches ds unless a load that started later already did.
func (s *Service) store(ds *query.Dataset, started time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if started.Before(s.storedAt) {
		return false
	}
	s.storedAt = started
	s.cache.Set(snapshotKey, ds, s.ttl)
	return true
}

func (s *Service) countLookup(result string) {
	if s.metrics != nil {
		s.metrics.SnapshotCache.WithLabelValues(result).Inc()
	}
}

func (s *Service) countLoad(status string) {
	if s.metrics != nil {
		s.metrics.DatasetLoads.WithLabelValues(status).Inc()
	}
}

func (s *Service) recordSizes(ds *query.Dataset) {
	if s.metrics == nil {
		return
	}
	s.metrics.DatasetRecords.WithLabelValues("patient").Set(float64(len(ds.Patients)))
	s.metrics.DatasetRecords.WithLabelValues("provider").Set(float64(len(ds.Providers)))
	s.metrics.DatasetRecords.WithLabelValues("service").Set(float64(len(ds.Services)))
	s.metrics.DatasetRecords.WithLabelValues("appointment").Set(float64(len(ds.Appointments)))
	s.metrics.DatasetRecords.WithLabelValues("appointment_service").Set(float64(len(ds.AppointmentServices)))
	s.metrics.DatasetRecords.WithLabelValues("payment").Set(float64(len(ds.Payments)))
}

// Source provides the current dataset to the read services.
type Source interface {
	Dataset(ctx context.Context) (*query.Dataset, error)
}
