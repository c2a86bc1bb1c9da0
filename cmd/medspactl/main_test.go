package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyticshandler "github.com/jwalitptl/medspa-api/internal/handler/analytics"
	patienthandler "github.com/jwalitptl/medspa-api/internal/handler/patient"
	providerhandler "github.com/jwalitptl/medspa-api/internal/handler/provider"
	"github.com/jwalitptl/medspa-api/internal/repository/memory"
	"github.com/jwalitptl/medspa-api/internal/router"
	"github.com/jwalitptl/medspa-api/internal/service/analytics"
	"github.com/jwalitptl/medspa-api/internal/service/dataset"
	"github.com/jwalitptl/medspa-api/internal/service/patient"
	"github.com/jwalitptl/medspa-api/internal/service/provider"
	"github.com/jwalitptl/medspa-api/pkg/metrics"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := memory.NewDatasetRepository("../../internal/repository/memory/testdata/seed")
	require.NoError(t, err)

	m := metrics.NewMetrics("medspa", prometheus.NewRegistry())
	data := dataset.NewService(repo, dataset.Config{TTL: time.Minute}, m, zerolog.Nop())

	r := router.NewRouter(router.RouterConfig{RequestTimeout: 5 * time.Second}, m, nil, nil,
		patienthandler.NewHandler(patient.NewService(data, m)),
		providerhandler.NewHandler(provider.NewService(data, m)),
		analyticshandler.NewHandler(analytics.NewService(data, m)),
	)
	r.Setup()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	cfg := env{APIURL: srv.URL, Timeout: 2 * time.Second}
	cmd := newRootCmd(&cfg)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPatientsCommand(t *testing.T) {
	srv := newAPIServer(t)

	// newest first by default
	out, err := run(t, srv, "patients", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "pat-003")
	assert.Contains(t, out, "Ana Kim")
	assert.NotContains(t, out, "pat-001")
	assert.Contains(t, out, "2 of 3 (next cursor: pat-002)")

	out, err = run(t, srv, "patients", "--limit", "2", "--sort-by", "id", "--sort-order", "asc")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe")
	assert.NotContains(t, out, "pat-003")
	assert.Contains(t, out, "2 of 3 (next cursor: pat-002)")

	out, err = run(t, srv, "patients", "--limit", "1", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "pat-003")
	assert.Contains(t, out, "3 of 3")

	out, err = run(t, srv, "patients", "--gender", "other")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana Kim")
	assert.NotContains(t, out, "Jane")
}

func TestPatientsCommandRejectsBadFilter(t *testing.T) {
	srv := newAPIServer(t)

	_, err := run(t, srv, "patients", "--gender", "robot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestPatientCommand(t *testing.T) {
	srv := newAPIServer(t)

	out, err := run(t, srv, "patient", "pat-001")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe (pat-001)")
	assert.Contains(t, out, "Botox, HydraFacial")
	assert.Contains(t, out, "$650.00")

	_, err = run(t, srv, "patient", "nobody")
	require.Error(t, err)
	assert.Equal(t, "patient nobody not found", err.Error())
}

func TestProvidersCommand(t *testing.T) {
	srv := newAPIServer(t)

	out, err := run(t, srv, "providers")
	require.NoError(t, err)
	assert.Contains(t, out, "Eli Park")
	assert.Contains(t, out, "Dermatology")
	assert.Contains(t, out, "$450.00")
}

func TestAnalyticsCommand(t *testing.T) {
	srv := newAPIServer(t)

	out, err := run(t, srv, "analytics")
	require.NoError(t, err)
	for _, title := range []string{"Demographics", "Sources", "Services", "Providers", "Appointments", "Patient behavior"} {
		assert.Contains(t, out, title)
	}
	assert.Contains(t, out, "patients: 3")
	assert.Contains(t, out, "revenue $650.00 from 1 payments")
	assert.NotContains(t, out, "unavailable")
}

func TestAnalyticsCommandReportsOutage(t *testing.T) {
	srv := newAPIServer(t)
	srv.Close()

	out, err := run(t, srv, "analytics", "--retries", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "unavailable")
}
