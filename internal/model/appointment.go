package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	Base
	PatientID string            `db:"patient_id" json:"patient_id"`
	Status    AppointmentStatus `db:"status" json:"status"`
}

// AppointmentService records which provider performed which service within an appointment.
type AppointmentService struct {
	Base
	AppointmentID string `db:"appointment_id" json:"appointment_id"`
	ServiceID     string `db:"service_id" json:"service_id"`
	ProviderID    string `db:"provider_id" json:"provider_id"`
}

type Payment struct {
	Base
	AppointmentID string    `db:"appointment_id" json:"appointment_id"`
	Amount        int64     `db:"amount" json:"amount"`
	PaymentDate   time.Time `db:"payment_date" json:"payment_date"`
}

// AppointmentDetail is an appointment joined with its services and optional payment.
type AppointmentDetail struct {
	Appointment
	Services []Service `json:"services"`
	Payment  *Payment  `json:"payment"`
}
