package query

import (
	"sort"

	"github.com/jwalitptl/medspa-api/internal/model"
	"github.com/jwalitptl/medspa-api/pkg/errors"
)

// ErrPatientNotFound is returned by PatientDetail for an unknown id.
var ErrPatientNotFound = errors.NotFound("patient", nil)

// PatientDetail returns the patient with every appointment, newest first.
func PatientDetail(ds *Dataset, id string) (model.PatientDetail, error) {
	idx := ds.index()
	i, ok := idx.patients[id]
	if !ok {
		return model.PatientDetail{}, ErrPatientNotFound
	}

	appointments := make([]model.AppointmentDetail, 0, len(idx.apptsByPatient[id]))
	for _, ai := range idx.apptsByPatient[id] {
		appt := ds.Appointments[ai]
		detail := model.AppointmentDetail{
			Appointment: appt,
			Services:    make([]model.Service, 0, len(idx.rowsByAppointment[appt.ID])),
		}
		for _, ri := range idx.rowsByAppointment[appt.ID] {
			if svc, ok := ds.service(ds.AppointmentServices[ri].ServiceID); ok {
				detail.Services = append(detail.Services, svc)
			}
		}
		if pay, ok := ds.payment(appt.ID); ok {
			detail.Payment = &pay
		}
		appointments = append(appointments, detail)
	}

	sort.SliceStable(appointments, func(a, b int) bool {
		x, y := appointments[a], appointments[b]
		if !x.CreatedDate.Equal(y.CreatedDate) {
			return x.CreatedDate.After(y.CreatedDate)
		}
		return x.ID < y.ID
	})

	return model.PatientDetail{
		Patient:      ds.Patients[i],
		Appointments: appointments,
	}, nil
}
