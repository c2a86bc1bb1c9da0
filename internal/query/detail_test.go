package query

import (
	"testing"

	"github.com/jwalitptl/medspa-api/internal/model"
	"github.com/jwalitptl/medspa-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientDetail(t *testing.T) {
	ds := &Dataset{
		Patients: []model.Patient{
			patient("p1", "John", "Smith", model.GenderMale, model.SourceGoogle),
			patient("p2", "Maria", "Lopez", model.GenderFemale, model.SourcePhone),
		},
		Services: []model.Service{service("s1", "Botox", 4000), service("s2", "Peel", 1500)},
		Appointments: []model.Appointment{
			appointment("a1", "p1", model.AppointmentStatusConfirmed, baseTime),
			appointment("a2", "p1", model.AppointmentStatusPending, baseTime.AddDate(0, 1, 0)),
			appointment("a3", "p2", model.AppointmentStatusConfirmed, baseTime),
			appointment("a0", "p1", model.AppointmentStatusCancelled, baseTime),
		},
		AppointmentServices: []model.AppointmentService{
			booking("b1", "a1", "s1", "pr1"),
			booking("b2", "a1", "s2", "pr2"),
			booking("b3", "a3", "s1", "pr1"),
		},
		Payments: []model.Payment{
			payment("pay1", "a1", 5500),
			payment("pay-dup", "a1", 1),
		},
	}

	detail, err := PatientDetail(ds, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", detail.Patient.ID)
	require.Len(t, detail.Appointments, 3)

	// newest first, then id
	assert.Equal(t, "a2", detail.Appointments[0].ID)
	assert.Equal(t, "a0", detail.Appointments[1].ID)
	assert.Equal(t, "a1", detail.Appointments[2].ID)

	a1 := detail.Appointments[2]
	require.Len(t, a1.Services, 2)
	assert.Equal(t, "s1", a1.Services[0].ID)
	assert.Equal(t, "s2", a1.Services[1].ID)
	require.NotNil(t, a1.Payment)
	assert.Equal(t, "pay1", a1.Payment.ID)

	assert.Nil(t, detail.Appointments[0].Payment)
	assert.NotNil(t, detail.Appointments[0].Services)
	assert.Empty(t, detail.Appointments[0].Services)
}

func TestPatientDetailNotFound(t *testing.T) {
	_, err := PatientDetail(&Dataset{}, "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
