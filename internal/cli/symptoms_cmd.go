package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/careflow/internal/app"
	"github.com/alexanderramin/careflow/internal/cli/formatter"
	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/spf13/cobra"
)

func newSymptomsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "symptoms",
		Aliases: []string{"sintomas"},
		Short:   "Record symptom self-reports and follow their trend",
	}

	cmd.AddCommand(
		newSymptomsRecordCmd(app),
		newSymptomsStatsCmd(app),
		newSymptomsTrendCmd(app),
	)

	return cmd
}

func newSymptomsRecordCmd(a *App) *cobra.Command {
	var req app.RecordSymptomRequest
	at := newTimeFlag(a.location)
	role := newRoleFlag(domain.RolePatient)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a symptom self-report (each dimension 1-10)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.RecordedAt = at.Value()
			req.Role = role.role
			sample, err := a.Symptoms.Record(context.Background(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSample(sample))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.SubjectID, "patient", "", "Patient ID")
	cmd.Flags().IntVar(&req.Tremor, "tremor", 0, "Tremor severity (1-10)")
	cmd.Flags().IntVar(&req.Rigidity, "rigidity", 0, "Rigidity severity (1-10)")
	cmd.Flags().IntVar(&req.Bradykinesia, "bradykinesia", 0, "Bradykinesia severity (1-10)")
	cmd.Flags().IntVar(&req.Balance, "balance", 0, "Balance severity (1-10)")
	cmd.Flags().StringVar(&req.AdditionalSymptoms, "other", "", "Other symptoms noticed")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "Free-text notes")
	cmd.Flags().Var(at, "at", "When the symptoms were observed (defaults to now)")
	cmd.Flags().Var(role, "role", "patient reports for themselves; doctor reports for --patient")
	for _, name := range []string{"patient", "tremor", "rigidity", "bradykinesia", "balance"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

// windowFlags are shared by stats and trend.
type windowFlags struct {
	patient string
	days    int
	now     *timeFlag
}

func (f *windowFlags) register(cmd *cobra.Command, a *App) {
	f.now = newTimeFlag(a.location)
	cmd.Flags().StringVar(&f.patient, "patient", "", "Patient ID")
	cmd.Flags().IntVar(&f.days, "days", 0, "Window in days (defaults to CAREFLOW_TREND_DAYS)")
	cmd.Flags().Var(f.now, "now", "End of the window (defaults to now)")
	_ = cmd.MarkFlagRequired("patient")
}

func (f *windowFlags) request() app.SymptomWindowRequest {
	return app.SymptomWindowRequest{SubjectID: f.patient, Days: f.days, Now: f.now.Value()}
}

func newSymptomsStatsCmd(a *App) *cobra.Command {
	var flags windowFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-dimension averages over a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.Symptoms.Stats(context.Background(), flags.request())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSymptomStats(resp))
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	flags.register(cmd, a)
	return cmd
}

func newSymptomsTrendCmd(a *App) *cobra.Command {
	var flags windowFlags
	var epsilon float64

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Compare the earlier and later half of a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := flags.request()
			if cmd.Flags().Changed("epsilon") {
				if epsilon < 0 {
					return fmt.Errorf("--epsilon must not be negative")
				}
				req.Epsilon = &epsilon
			}
			resp, err := a.Symptoms.Trend(context.Background(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTrend(resp))
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	flags.register(cmd, a)
	cmd.Flags().Float64Var(&epsilon, "epsilon", 0, "Changes up to this size count as stable")
	return cmd
}
