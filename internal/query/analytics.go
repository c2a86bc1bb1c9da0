package query

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jwalitptl/medspa-api/internal/model"
)

const (
	topServicesLimit  = 10
	topBehaviorLimit  = 5
	maxBookingsBucket = 6
)

// Age buckets, youngest first.
var AgeBuckets = []string{"0-17", "18-25", "26-35", "36-45", "46-55", "56-65", "65+"}

// Demographics counts patients by gender and by age relative to now.
func Demographics(ds *Dataset, now time.Time) model.Demographics {
	out := model.Demographics{
		TotalPatients:      len(ds.Patients),
		GenderDistribution: make(map[string]int),
		AgeDistribution:    make(map[string]int, len(AgeBuckets)),
	}
	for _, b := range AgeBuckets {
		out.AgeDistribution[b] = 0
	}
	for _, p := range ds.Patients {
		out.GenderDistribution[string(p.Gender)]++
		out.AgeDistribution[AgeBucket(p.DateOfBirth, now)]++
	}
	return out
}

// Age returns completed years between dob and now.
func Age(dob model.Date, now time.Time) int {
	y, m, d := now.Date()
	age := y - dob.Year()
	if m < dob.Month() || (m == dob.Month() && d < dob.Day()) {
		age--
	}
	return age
}

// AgeBucket places a patient in one of AgeBuckets. The open-ended bucket
// starts the day after the 65th birthday.
func AgeBucket(dob model.Date, now time.Time) string {
	age := Age(dob, now)
	switch {
	case age < 18:
		return "0-17"
	case age <= 25:
		return "18-25"
	case age <= 35:
		return "26-35"
	case age <= 45:
		return "36-45"
	case age <= 55:
		return "46-55"
	case age < 65:
		return "56-65"
	case age == 65 && isBirthday(dob, now):
		return "56-65"
	}
	return "65+"
}

func isBirthday(dob model.Date, now time.Time) bool {
	_, m, d := now.Date()
	return m == dob.Month() && d == dob.Day()
}

// Sources counts patients by acquisition channel and by month of creation.
func Sources(ds *Dataset) model.SourceAnalytics {
	out := model.SourceAnalytics{
		SourceDistribution: make(map[string]int),
		PatientsByMonth:    make(map[string]int),
	}
	for _, p := range ds.Patients {
		out.SourceDistribution[string(p.Source)]++
		out.PatientsByMonth[p.CreatedDate.Format("2006-01")]++
	}
	return out
}

// serviceStats counts bookings per service; revenue is bookings times the current price.
func serviceStats(ds *Dataset) []model.ServiceStat {
	byID := make(map[string]*model.ServiceStat)
	var order []string
	for _, row := range ds.AppointmentServices {
		svc, ok := ds.service(row.ServiceID)
		if !ok {
			continue
		}
		st, seen := byID[svc.ID]
		if !seen {
			st = &model.ServiceStat{ID: svc.ID, Name: svc.Name}
			byID[svc.ID] = st
			order = append(order, svc.ID)
		}
		st.Count++
		st.Revenue += svc.Price
	}

	stats := make([]model.ServiceStat, 0, len(order))
	for _, id := range order {
		stats = append(stats, *byID[id])
	}
	return stats
}

func byBookings(stats []model.ServiceStat) {
	sort.SliceStable(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.ID < b.ID
	})
}

func byRevenue(stats []model.ServiceStat) {
	sort.SliceStable(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.ID < b.ID
	})
}

func top(stats []model.ServiceStat, n int) []model.ServiceStat {
	if len(stats) > n {
		stats = stats[:n]
	}
	return append([]model.ServiceStat{}, stats...)
}

// Services ranks services by bookings and totals payments.
func Services(ds *Dataset) model.ServiceAnalytics {
	stats := serviceStats(ds)
	byBookings(stats)

	out := model.ServiceAnalytics{
		TopServices:   top(stats, topServicesLimit),
		TotalPayments: len(ds.Payments),
	}
	for _, p := range ds.Payments {
		out.TotalRevenue += p.Amount
	}
	if out.TotalPayments > 0 {
		out.AveragePayment = out.TotalRevenue / int64(out.TotalPayments)
	}
	return out
}

type providerStat struct {
	count   int
	revenue int64
}

// providerStats counts booking rows per provider and attributes each appointment's
// payment across its rows in proportion to service price. Remainder cents go to the
// first row so attributed revenue sums to the payment.
func providerStats(ds *Dataset) map[string]providerStat {
	idx := ds.index()
	stats := make(map[string]providerStat)

	for _, row := range ds.AppointmentServices {
		s := stats[row.ProviderID]
		s.count++
		stats[row.ProviderID] = s
	}

	for _, appt := range ds.Appointments {
		pay, ok := ds.payment(appt.ID)
		rows := idx.rowsByAppointment[appt.ID]
		if !ok || len(rows) == 0 {
			continue
		}
		for i, share := range splitPayment(ds, pay.Amount, rows) {
			providerID := ds.AppointmentServices[rows[i]].ProviderID
			s := stats[providerID]
			s.revenue += share
			stats[providerID] = s
		}
	}
	return stats
}

func splitPayment(ds *Dataset, amount int64, rows []int) []int64 {
	weights := make([]int64, len(rows))
	var total int64
	for i, ri := range rows {
		if svc, ok := ds.service(ds.AppointmentServices[ri].ServiceID); ok && svc.Price > 0 {
			weights[i] = svc.Price
			total += svc.Price
		}
	}
	if total == 0 {
		for i := range weights {
			weights[i] = 1
		}
		total = int64(len(weights))
	}

	shares := make([]int64, len(rows))
	var assigned int64
	for i, w := range weights {
		shares[i] = amount * w / total
		assigned += shares[i]
	}
	shares[0] += amount - assigned
	return shares
}

// Providers reports every provider with at least one booking, busiest first.
func Providers(ds *Dataset) model.ProviderAnalytics {
	stats := providerStats(ds)

	seen := make(map[string]bool, len(stats))
	out := model.ProviderAnalytics{Providers: make([]model.ProviderStat, 0, len(stats))}
	for _, row := range ds.AppointmentServices {
		if seen[row.ProviderID] {
			continue
		}
		seen[row.ProviderID] = true

		s := stats[row.ProviderID]
		stat := model.ProviderStat{
			ID:               row.ProviderID,
			Specialty:        model.DefaultSpecialty(row.ProviderID),
			AppointmentCount: s.count,
			Revenue:          s.revenue,
		}
		if p, ok := ds.provider(row.ProviderID); ok {
			stat.Name = p.FullName()
			stat.Specialty = p.SpecialtyOrDefault()
		}
		out.Providers = append(out.Providers, stat)
	}

	sort.SliceStable(out.Providers, func(i, j int) bool {
		return out.Providers[i].AppointmentCount > out.Providers[j].AppointmentCount
	})
	return out
}

// Appointments reports status mix, services per appointment and weekday volume.
func Appointments(ds *Dataset) model.AppointmentAnalytics {
	out := model.AppointmentAnalytics{
		StatusDistribution:        make(map[string]int),
		AppointmentsByDay:         make(map[string]int),
		AvgServicesPerAppointment: "0.00",
		TotalAppointments:         len(ds.Appointments),
	}
	for _, a := range ds.Appointments {
		out.StatusDistribution[string(a.Status)]++
		out.AppointmentsByDay[a.CreatedDate.Weekday().String()]++
	}
	if n := len(ds.Appointments); n > 0 {
		avg := float64(len(ds.AppointmentServices)) / float64(n)
		out.AvgServicesPerAppointment = fmt.Sprintf("%.2f", avg)
	}
	return out
}

// PatientBehavior buckets patients by confirmed appointment count and ranks services.
func PatientBehavior(ds *Dataset) model.PatientBehavior {
	out := model.PatientBehavior{
		PatientsByAppointmentCount: make(map[string]int, maxBookingsBucket+1),
	}
	for i := 0; i < maxBookingsBucket; i++ {
		out.PatientsByAppointmentCount[strconv.Itoa(i)] = 0
	}
	overflow := strconv.Itoa(maxBookingsBucket) + "+"
	out.PatientsByAppointmentCount[overflow] = 0

	confirmed := make(map[string]int)
	for _, a := range ds.Appointments {
		if a.Status == model.AppointmentStatusConfirmed {
			confirmed[a.PatientID]++
		}
	}
	for _, p := range ds.Patients {
		n := confirmed[p.ID]
		if n >= maxBookingsBucket {
			out.PatientsByAppointmentCount[overflow]++
			continue
		}
		out.PatientsByAppointmentCount[strconv.Itoa(n)]++
	}

	stats := serviceStats(ds)
	byRevenue(stats)
	out.TopServicesByRevenue = top(stats, topBehaviorLimit)
	byBookings(stats)
	out.TopServicesByBookings = top(stats, topBehaviorLimit)
	return out
}

// PatientAnalytics combines demographics and sources.
func PatientAnalytics(ds *Dataset, now time.Time) model.PatientAnalytics {
	return model.PatientAnalytics{
		Demographics:    Demographics(ds, now),
		SourceAnalytics: Sources(ds),
	}
}

// BusinessAnalytics combines service revenue and appointment patterns.
func BusinessAnalytics(ds *Dataset) model.BusinessAnalytics {
	return model.BusinessAnalytics{
		ServiceAnalytics:     Services(ds),
		AppointmentAnalytics: Appointments(ds),
	}
}
