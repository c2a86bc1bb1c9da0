package model

type Demographics struct {
	TotalPatients      int            `json:"totalPatients"`
	GenderDistribution map[string]int `json:"genderDistribution"`
	AgeDistribution    map[string]int `json:"ageDistribution"`
}

type SourceAnalytics struct {
	SourceDistribution map[string]int `json:"sourceDistribution"`
	PatientsByMonth    map[string]int `json:"patientsByMonth"`
}

// ServiceStat is a service ranked by bookings or revenue. Revenue is in cents.
type ServiceStat struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Revenue int64  `json:"revenue"`
}

type ServiceAnalytics struct {
	TopServices    []ServiceStat `json:"topServices"`
	TotalRevenue   int64         `json:"totalRevenue"`
	AveragePayment int64         `json:"averagePayment"`
	TotalPayments  int           `json:"totalPayments"`
}

type ProviderStat struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Specialty        string `json:"specialty"`
	AppointmentCount int    `json:"appointmentCount"`
	Revenue          int64  `json:"revenue"`
}

type ProviderAnalytics struct {
	Providers []ProviderStat `json:"providers"`
}

type AppointmentAnalytics struct {
	StatusDistribution        map[string]int `json:"statusDistribution"`
	AvgServicesPerAppointment string         `json:"avgServicesPerAppointment"`
	AppointmentsByDay         map[string]int `json:"appointmentsByDay"`
	TotalAppointments         int            `json:"totalAppointments"`
}

type PatientBehavior struct {
	PatientsByAppointmentCount map[string]int `json:"patientsByAppointmentCount"`
	TopServicesByRevenue       []ServiceStat  `json:"topServicesByRevenue"`
	TopServicesByBookings      []ServiceStat  `json:"topServicesByBookings"`
}

// PatientAnalytics is demographics and acquisition sources in one payload.
type PatientAnalytics struct {
	Demographics
	SourceAnalytics
}

// BusinessAnalytics is service revenue and appointment patterns in one payload.
type BusinessAnalytics struct {
	ServiceAnalytics
	AppointmentAnalytics
}
