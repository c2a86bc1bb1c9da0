package model

type Provider struct {
	Base
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone"`
	Specialty string `db:"specialty" json:"specialty"`
}

func (p Provider) FullName() string {
	return p.FirstName + " " + p.LastName
}

// ProviderSummary is a provider row in the providers list, enriched with booking stats.
type ProviderSummary struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Specialty        string `json:"specialty"`
	AppointmentCount int    `json:"appointmentCount"`
	Revenue          int64  `json:"revenue"`
}

type ProviderParams struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
}

var specialties = []string{
	"Aesthetic Medicine",
	"Dermatology",
	"Plastic Surgery",
	"Cosmetic Nursing",
	"Medical Aesthetics",
	"Laser Specialist",
}

// DefaultSpecialty deterministically assigns a specialty to a provider that has none on record.
func DefaultSpecialty(providerID string) string {
	sum := 0
	for _, r := range providerID {
		sum += int(r)
	}
	return specialties[sum%len(specialties)]
}

// SpecialtyOrDefault returns the recorded specialty, falling back to DefaultSpecialty.
func (p Provider) SpecialtyOrDefault() string {
	if p.Specialty != "" {
		return p.Specialty
	}
	return DefaultSpecialty(p.ID)
}
