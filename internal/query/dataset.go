// Package query implements list, detail and analytics reads over an immutable dataset.
package query

import (
	"sync"

	"github.com/jwalitptl/medspa-api/internal/model"
)

// Dataset is a read-only snapshot of every collection the dashboard reads.
// Slices must not be modified after the first query runs.
type Dataset struct {
	Patients            []model.Patient
	Providers           []model.Provider
	Services            []model.Service
	Appointments        []model.Appointment
	AppointmentServices []model.AppointmentService
	Payments            []model.Payment

	once sync.Once
	idx  indexes
}

type indexes struct {
	patients          map[string]int
	providers         map[string]int
	services          map[string]int
	rowsByAppointment map[string][]int
	apptsByPatient    map[string][]int
	paymentByAppt     map[string]int
}

func (ds *Dataset) index() *indexes {
	ds.once.Do(func() {
		idx := indexes{
			patients:          make(map[string]int, len(ds.Patients)),
			providers:         make(map[string]int, len(ds.Providers)),
			services:          make(map[string]int, len(ds.Services)),
			rowsByAppointment: make(map[string][]int),
			apptsByPatient:    make(map[string][]int),
			paymentByAppt:     make(map[string]int, len(ds.Payments)),
		}
		for i, p := range ds.Patients {
			idx.patients[p.ID] = i
		}
		for i, p := range ds.Providers {
			idx.providers[p.ID] = i
		}
		for i, s := range ds.Services {
			idx.services[s.ID] = i
		}
		for i, row := range ds.AppointmentServices {
			idx.rowsByAppointment[row.AppointmentID] = append(idx.rowsByAppointment[row.AppointmentID], i)
		}
		for i, a := range ds.Appointments {
			idx.apptsByPatient[a.PatientID] = append(idx.apptsByPatient[a.PatientID], i)
		}
		// first payment per appointment wins
		for i, p := range ds.Payments {
			if _, ok := idx.paymentByAppt[p.AppointmentID]; !ok {
				idx.paymentByAppt[p.AppointmentID] = i
			}
		}
		ds.idx = idx
	})
	return &ds.idx
}

func (ds *Dataset) service(id string) (model.Service, bool) {
	i, ok := ds.index().services[id]
	if !ok {
		return model.Service{}, false
	}
	return ds.Services[i], true
}

func (ds *Dataset) provider(id string) (model.Provider, bool) {
	i, ok := ds.index().providers[id]
	if !ok {
		return model.Provider{}, false
	}
	return ds.Providers[i], true
}

func (ds *Dataset) payment(appointmentID string) (model.Payment, bool) {
	i, ok := ds.index().paymentByAppt[appointmentID]
	if !ok {
		return model.Payment{}, false
	}
	return ds.Payments[i], true
}
