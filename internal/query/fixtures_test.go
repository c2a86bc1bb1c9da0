package query

import (
	"fmt"
	"time"

	"github.com/jwalitptl/medspa-api/internal/model"
)

var baseTime = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

func patient(id, first, last string, gender model.Gender, source model.Source) model.Patient {
	return model.Patient{
		Base:        model.Base{ID: id, CreatedDate: baseTime},
		FirstName:   first,
		LastName:    last,
		DateOfBirth: model.NewDate(1990, time.June, 15),
		Gender:      gender,
		Source:      source,
		Phone:       "555010" + id,
		Email:       fmt.Sprintf("%s.%s@example.com", first, last),
	}
}

func appointment(id, patientID string, status model.AppointmentStatus, created time.Time) model.Appointment {
	return model.Appointment{
		Base:      model.Base{ID: id, CreatedDate: created},
		PatientID: patientID,
		Status:    status,
	}
}

func service(id, name string, price int64) model.Service {
	return model.Service{Base: model.Base{ID: id, CreatedDate: baseTime}, Name: name, Price: price, Duration: 60}
}

func booking(id, appointmentID, serviceID, providerID string) model.AppointmentService {
	return model.AppointmentService{
		Base:          model.Base{ID: id, CreatedDate: baseTime},
		AppointmentID: appointmentID,
		ServiceID:     serviceID,
		ProviderID:    providerID,
	}
}

func payment(id, appointmentID string, amount int64) model.Payment {
	return model.Payment{
		Base:          model.Base{ID: id, CreatedDate: baseTime},
		AppointmentID: appointmentID,
		Amount:        amount,
		PaymentDate:   baseTime,
	}
}

func provider(id, first, last string) model.Provider {
	return model.Provider{
		Base:      model.Base{ID: id, CreatedDate: baseTime},
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s@clinic.example.com", id),
	}
}

// rosterDataset has 25 patients with rotating gender and source, created one hour apart.
func rosterDataset() *Dataset {
	genders := []model.Gender{model.GenderFemale, model.GenderMale, model.GenderOther}
	sources := []model.Source{model.SourceInstagram, model.SourceGoogle, model.SourcePhone, model.SourceWebsite}
	names := []string{"John", "Maria", "Ava", "Liam", "Noah", "Emma", "Olivia"}

	ds := &Dataset{}
	for i := 0; i < 25; i++ {
		p := patient(fmt.Sprintf("p%02d", i), names[i%len(names)], fmt.Sprintf("Smith%d", i), genders[i%3], sources[i%4])
		p.CreatedDate = baseTime.Add(time.Duration(i) * time.Hour)
		ds.Patients = append(ds.Patients, p)
	}
	return ds
}

func ids[T any](items []T, idOf func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, idOf(it))
	}
	return out
}

func patientID(p model.Patient) string { return p.ID }
