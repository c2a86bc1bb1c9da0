package model

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Source is the channel a patient was acquired through.
type Source string

const (
	SourceInPerson  Source = "in_person"
	SourcePhone     Source = "phone"
	SourceInstagram Source = "instagram"
	SourceTikTok    Source = "tiktok"
	SourceGoogle    Source = "google"
	SourceWebsite   Source = "website"
)

func (s Source) Valid() bool {
	switch s {
	case SourceInPerson, SourcePhone, SourceInstagram, SourceTikTok, SourceGoogle, SourceWebsite:
		return true
	}
	return false
}

type Patient struct {
	Base
	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
	DateOfBirth Date   `db:"date_of_birth" json:"date_of_birth"`
	Gender      Gender `db:"gender" json:"gender"`
	Source      Source `db:"source" json:"source"`
	Address     string `db:"address" json:"address"`
	Phone       string `db:"phone" json:"phone"`
	Email       string `db:"email" json:"email"`
}

// PatientParams are the list query parameters accepted by GET /api/patients.
type PatientParams struct {
	Cursor    string    `form:"cursor"`
	Limit     int       `form:"limit" binding:"omitempty,min=1,max=100"`
	Search    string    `form:"search"`
	Gender    Gender    `form:"gender" binding:"omitempty,gender"`
	Source    Source    `form:"source" binding:"omitempty,source"`
	SortBy    string    `form:"sortBy"`
	SortOrder SortOrder `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

// PatientDetail is a patient with its appointments, newest first.
type PatientDetail struct {
	Patient      Patient             `json:"patient"`
	Appointments []AppointmentDetail `json:"appointments"`
}
