package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jwalitptl/medspa-api/internal/model"
	"github.com/jwalitptl/medspa-api/internal/repository"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// timestamp accepts the ISO-8601 variants found in seed exports; values without
// an offset are read as UTC.
type timestamp time.Time

func (t *timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*t = timestamp{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = timestamp(parsed)
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

func (t timestamp) Time() time.Time { return time.Time(t) }

// Seed rows shadow created_date (and payment dates) with the lenient type.
type (
	patientRow struct {
		model.Patient
		CreatedDate timestamp `json:"created_date"`
	}
	providerRow struct {
		model.Provider
		CreatedDate timestamp `json:"created_date"`
	}
	serviceRow struct {
		model.Service
		CreatedDate timestamp `json:"created_date"`
	}
	appointmentRow struct {
		model.Appointment
		CreatedDate timestamp `json:"created_date"`
	}
	appointmentServiceRow struct {
		model.AppointmentService
		CreatedDate timestamp `json:"created_date"`
	}
	paymentRow struct {
		model.Payment
		CreatedDate timestamp `json:"created_date"`
		PaymentDate timestamp `json:"payment_date"`
		Date        timestamp `json:"date"`
	}
)

// Seed file names, in foreign-key order.
const (
	PatientFile            = "patient.json"
	ProviderFile           = "provider.json"
	ServiceFile            = "service.json"
	AppointmentFile        = "appointment.json"
	AppointmentServiceFile = "appointment_service.json"
	PaymentFile            = "payment.json"
)

func readJSON(dir, name string, dest interface{}) error {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// LoadSeedDir reads the six seed files from dir into a snapshot.
func LoadSeedDir(dir string) (*repository.Snapshot, error) {
	var (
		patients     []patientRow
		providers    []providerRow
		services     []serviceRow
		appointments []appointmentRow
		bookings     []appointmentServiceRow
		payments     []paymentRow
	)

	files := []struct {
		name string
		dest interface{}
	}{
		{PatientFile, &patients},
		{ProviderFile, &providers},
		{ServiceFile, &services},
		{AppointmentFile, &appointments},
		{AppointmentServiceFile, &bookings},
		{PaymentFile, &payments},
	}
	for _, f := range files {
		if err := readJSON(dir, f.name, f.dest); err != nil {
			return nil, err
		}
	}

	snap := &repository.Snapshot{
		Patients:            make([]model.Patient, 0, len(patients)),
		Providers:           make([]model.Provider, 0, len(providers)),
		Services:            make([]model.Service, 0, len(services)),
		Appointments:        make([]model.Appointment, 0, len(appointments)),
		AppointmentServices: make([]model.AppointmentService, 0, len(bookings)),
		Payments:            make([]model.Payment, 0, len(payments)),
	}
	for _, r := range patients {
		r.Patient.CreatedDate = r.CreatedDate.Time()
		snap.Patients = append(snap.Patients, r.Patient)
	}
	for _, r := range providers {
		r.Provider.CreatedDate = r.CreatedDate.Time()
		snap.Providers = append(snap.Providers, r.Provider)
	}
	for _, r := range services {
		r.Service.CreatedDate = r.CreatedDate.Time()
		snap.Services = append(snap.Services, r.Service)
	}
	for _, r := range appointments {
		r.Appointment.CreatedDate = r.CreatedDate.Time()
		snap.Appointments = append(snap.Appointments, r.Appointment)
	}
	for _, r := range bookings {
		r.AppointmentService.CreatedDate = r.CreatedDate.Time()
		// join rows keyed by (appointment, service) in older exports
		if r.AppointmentService.ID == "" {
			r.AppointmentService.ID = r.AppointmentID + ":" + r.ServiceID
		}
		snap.AppointmentServices = append(snap.AppointmentServices, r.AppointmentService)
	}
	for _, r := range payments {
		r.Payment.CreatedDate = r.CreatedDate.Time()
		r.Payment.PaymentDate = r.PaymentDate.Time()
		if r.Payment.PaymentDate.IsZero() {
			r.Payment.PaymentDate = r.Date.Time()
		}
		snap.Payments = append(snap.Payments, r.Payment)
	}

	return snap, nil
}
