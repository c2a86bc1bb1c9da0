package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/medspa-api/internal/model"
	"github.com/jwalitptl/medspa-api/pkg/dashboard"
)

func patientsCmd(a *app) *cobra.Command {
	var params model.PatientParams
	var gender, source, order string
	var all bool

	cmd := &cobra.Command{
		Use:   "patients",
		Short: "List patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Gender = model.Gender(gender)
			params.Source = model.Source(source)
			params.SortOrder = model.SortOrder(order)

			l := dashboard.NewPatientList(cmd.Context(), a.client, params, a.options())
			defer l.Close()

			if err := l.Refresh(cmd.Context()); err != nil {
				return err
			}
			for all && l.State().Data.HasMore {
				if err := l.LoadMore(cmd.Context()); err != nil {
					return err
				}
			}

			page := l.State().Data
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tNAME\tGENDER\tSOURCE\tDOB\tEMAIL\tPHONE")
			for _, p := range page.Data {
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\t%s\t%s\n",
					p.ID, p.FirstName, p.LastName, p.Gender, p.Source, p.DateOfBirth, p.Email, p.Phone)
			}
			w.Flush()
			printFooter(cmd.OutOrStdout(), len(page.Data), page.Total, page.NextCursor)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&params.Search, "search", "", "Match name, email or phone")
	f.StringVar(&gender, "gender", "", "Filter by gender (male, female, other)")
	f.StringVar(&source, "source", "", "Filter by acquisition source")
	f.StringVar(&params.SortBy, "sort-by", "", "Sort field (first_name, last_name, date_of_birth, created_date, ...)")
	f.StringVar(&order, "sort-order", "", "asc or desc")
	f.IntVar(&params.Limit, "limit", 20, "Page size (1-100)")
	f.BoolVar(&all, "all", false, "Follow cursors until every page is loaded")
	return cmd
}

func patientCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "patient <id>",
		Short: "Show a patient with appointment history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := dashboard.NewPatientDetail(a.client, args[0], a.options())
			if err := d.Load(cmd.Context()); err != nil {
				if d.NotFound() {
					return fmt.Errorf("patient %s not found", args[0])
				}
				return err
			}

			detail := d.State().Data
			p := detail.Patient
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s (%s)\n", p.FirstName, p.LastName, p.ID)
			fmt.Fprintf(out, "  born %s, %s, via %s\n", p.DateOfBirth, p.Gender, p.Source)
			fmt.Fprintf(out, "  %s  %s\n  %s\n\n", p.Email, p.Phone, p.Address)

			w := newTable(out)
			fmt.Fprintln(w, "APPOINTMENT\tDATE\tSTATUS\tSERVICES\tPAID")
			for _, appt := range detail.Appointments {
				names := make([]string, 0, len(appt.Services))
				for _, s := range appt.Services {
					names = append(names, s.Name)
				}
				paid := "-"
				if appt.Payment != nil {
					paid = model.FormatCents(appt.Payment.Amount)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					appt.ID, appt.CreatedDate.Format("2006-01-02"), appt.Status, strings.Join(names, ", "), paid)
			}
			return w.Flush()
		},
	}
}

func providersCmd(a *app) *cobra.Command {
	var params model.ProviderParams
	var all bool

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List providers with booking counts and revenue",
		RunE: func(cmd *cobra.Command, args []string) error {
			l := dashboard.NewProviderList(cmd.Context(), a.client, params, a.options())
			defer l.Close()

			if err := l.Refresh(cmd.Context()); err != nil {
				return err
			}
			for all && l.State().Data.HasMore {
				if err := l.LoadMore(cmd.Context()); err != nil {
					return err
				}
			}

			page := l.State().Data
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tNAME\tSPECIALTY\tAPPOINTMENTS\tREVENUE")
			for _, p := range page.Data {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Specialty, p.AppointmentCount, model.FormatCents(p.Revenue))
			}
			w.Flush()
			printFooter(cmd.OutOrStdout(), len(page.Data), page.Total, page.NextCursor)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&params.Search, "search", "", "Match name, email or specialty")
	f.IntVar(&params.Limit, "limit", 20, "Page size (1-100)")
	f.BoolVar(&all, "all", false, "Follow cursors until every page is loaded")
	return cmd
}

func analyticsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show every dashboard aggregate",
		RunE: func(cmd *cobra.Command, args []string) error {
			an := dashboard.NewAnalytics(a.client, a.options())
			// Failures are reported per section below.
			_ = an.Load(cmd.Context())

			out := cmd.OutOrStdout()
			section(out, "Demographics", an.Demographics.State(), func(d model.Demographics) {
				fmt.Fprintf(out, "  patients: %d\n", d.TotalPatients)
				counts(out, "  gender", d.GenderDistribution)
				counts(out, "  age", d.AgeDistribution)
			})
			section(out, "Sources", an.Sources.State(), func(s model.SourceAnalytics) {
				counts(out, "  source", s.SourceDistribution)
				counts(out, "  month", s.PatientsByMonth)
			})
			section(out, "Services", an.Services.State(), func(s model.ServiceAnalytics) {
				fmt.Fprintf(out, "  revenue %s from %d payments, average %s\n",
					model.FormatCents(s.TotalRevenue), s.TotalPayments, model.FormatCents(s.AveragePayment))
				for _, st := range s.TopServices {
					fmt.Fprintf(out, "  %-28s %4d  %s\n", st.Name, st.Count, model.FormatCents(st.Revenue))
				}
			})
			section(out, "Providers", an.Providers.State(), func(p model.ProviderAnalytics) {
				for _, st := range p.Providers {
					fmt.Fprintf(out, "  %-24s %-16s %4d  %s\n", st.Name, st.Specialty, st.AppointmentCount, model.FormatCents(st.Revenue))
				}
			})
			section(out, "Appointments", an.Appointments.State(), func(ap model.AppointmentAnalytics) {
				fmt.Fprintf(out, "  total %d, %s services per appointment\n", ap.TotalAppointments, ap.AvgServicesPerAppointment)
				counts(out, "  status", ap.StatusDistribution)
				counts(out, "  weekday", ap.AppointmentsByDay)
			})
			section(out, "Patient behavior", an.PatientBehavior.State(), func(b model.PatientBehavior) {
				counts(out, "  confirmed visits", b.PatientsByAppointmentCount)
				for _, st := range b.TopServicesByRevenue {
					fmt.Fprintf(out, "  top revenue  %-24s %s\n", st.Name, model.FormatCents(st.Revenue))
				}
				for _, st := range b.TopServicesByBookings {
					fmt.Fprintf(out, "  top bookings %-24s %d\n", st.Name, st.Count)
				}
			})
			return nil
		},
	}
}

func section[T any](out io.Writer, title string, st dashboard.State[T], render func(T)) {
	fmt.Fprintf(out, "%s\n", title)
	switch {
	case st.HasData:
		render(st.Data)
		if st.Status == dashboard.StatusFailed {
			fmt.Fprintf(out, "  (cached; refresh failed: %v)\n", st.Err)
		}
	case st.Err != nil:
		fmt.Fprintf(out, "  unavailable: %v\n", st.Err)
	default:
		fmt.Fprintln(out, "  no data")
	}
	fmt.Fprintln(out)
}

func counts(out io.Writer, label string, m map[string]int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	fmt.Fprintf(out, "%s: %s\n", label, strings.Join(parts, " "))
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func printFooter(out io.Writer, shown, total int, next *string) {
	fmt.Fprintf(out, "\n%d of %d", shown, total)
	if next != nil {
		fmt.Fprintf(out, " (next cursor: %s)", *next)
	}
	fmt.Fprintln(out)
}
