package query

import (
	"cmp"
	"sort"
	"strings"

	"github.com/jwalitptl/medspa-api/internal/model"
)

const defaultPatientSort = "created_date"

// NormalizePatientParams fills in defaults for limit and ordering.
func NormalizePatientParams(p model.PatientParams) model.PatientParams {
	p.Limit = NormalizeLimit(p.Limit)
	p.Search = strings.TrimSpace(p.Search)
	if p.SortBy == "" {
		p.SortBy = defaultPatientSort
	}
	if p.SortOrder == "" {
		p.SortOrder = model.SortDesc
	}
	return p
}

// ListPatients filters, sorts and paginates patients.
func ListPatients(ds *Dataset, params model.PatientParams) model.Page[model.Patient] {
	params = NormalizePatientParams(params)
	needle := strings.ToLower(params.Search)

	matched := make([]model.Patient, 0, len(ds.Patients))
	for _, p := range ds.Patients {
		if params.Gender != "" && p.Gender != params.Gender {
			continue
		}
		if params.Source != "" && p.Source != params.Source {
			continue
		}
		if needle != "" && !patientMatches(p, needle) {
			continue
		}
		matched = append(matched, p)
	}

	if compare := patientComparator(params.SortBy); compare != nil {
		desc := params.SortOrder == model.SortDesc
		sort.SliceStable(matched, func(i, j int) bool {
			c := compare(matched[i], matched[j])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	return Paginate(matched, params.Cursor, params.Limit, func(p model.Patient) string { return p.ID })
}

func patientMatches(p model.Patient, needle string) bool {
	first := strings.ToLower(p.FirstName)
	last := strings.ToLower(p.LastName)
	return strings.Contains(first, needle) ||
		strings.Contains(last, needle) ||
		strings.Contains(first+" "+last, needle) ||
		strings.Contains(strings.ToLower(p.Email), needle) ||
		strings.Contains(p.Phone, needle)
}

func foldCompare(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// patientComparator returns nil for unknown fields, leaving storage order intact.
func patientComparator(field string) func(a, b model.Patient) int {
	switch field {
	case "first_name":
		return func(a, b model.Patient) int { return foldCompare(a.FirstName, b.FirstName) }
	case "last_name":
		return func(a, b model.Patient) int { return foldCompare(a.LastName, b.LastName) }
	case "name":
		return func(a, b model.Patient) int {
			return foldCompare(a.FirstName+" "+a.LastName, b.FirstName+" "+b.LastName)
		}
	case "email":
		return func(a, b model.Patient) int { return foldCompare(a.Email, b.Email) }
	case "phone":
		return func(a, b model.Patient) int { return strings.Compare(a.Phone, b.Phone) }
	case "address":
		return func(a, b model.Patient) int { return foldCompare(a.Address, b.Address) }
	case "gender":
		return func(a, b model.Patient) int { return foldCompare(string(a.Gender), string(b.Gender)) }
	case "source":
		return func(a, b model.Patient) int { return foldCompare(string(a.Source), string(b.Source)) }
	case "date_of_birth":
		return func(a, b model.Patient) int { return a.DateOfBirth.Compare(b.DateOfBirth.Time) }
	case "created_date":
		return func(a, b model.Patient) int { return a.CreatedDate.Compare(b.CreatedDate) }
	case "id":
		return func(a, b model.Patient) int { return cmp.Compare(a.ID, b.ID) }
	}
	return nil
}

// ListProviders returns providers with booking stats, busiest first.
func ListProviders(ds *Dataset, params model.ProviderParams) model.Page[model.ProviderSummary] {
	stats := providerStats(ds)
	needle := strings.ToLower(strings.TrimSpace(params.Search))

	rows := make([]model.ProviderSummary, 0, len(ds.Providers))
	for _, p := range ds.Providers {
		s := stats[p.ID]
		summary := model.ProviderSummary{
			ID:               p.ID,
			Name:             p.FullName(),
			FirstName:        p.FirstName,
			LastName:         p.LastName,
			Email:            p.Email,
			Phone:            p.Phone,
			Specialty:        p.SpecialtyOrDefault(),
			AppointmentCount: s.count,
			Revenue:          s.revenue,
		}
		if needle != "" && !providerMatches(summary, needle) {
			continue
		}
		rows = append(rows, summary)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AppointmentCount > rows[j].AppointmentCount
	})

	return Paginate(rows, params.Cursor, params.Limit, func(p model.ProviderSummary) string { return p.ID })
}

func providerMatches(p model.ProviderSummary, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Email), needle) ||
		strings.Contains(strings.ToLower(p.Specialty), needle)
}
