package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/careflow/internal/app"
	"github.com/alexanderramin/careflow/internal/cli/formatter"
	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/spf13/cobra"
)

func newDashboardCmd(a *App) *cobra.Command {
	role := newRoleFlag(domain.RolePatient)
	now := newTimeFlag(a.location)
	var id string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the home screen for a patient or doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			req := app.DashboardRequest{ID: id, Now: now.Value()}
			out := cmd.OutOrStdout()

			if role.role == domain.RoleDoctor {
				d, err := a.Dashboard.Doctor(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatDoctorDashboard(d))
				return nil
			}
			d, err := a.Dashboard.Patient(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatPatientDashboard(d))
			return nil
		},
	}

	cmd.Flags().Var(role, "role", "Viewer role (patient|doctor)")
	cmd.Flags().StringVar(&id, "id", "", "Patient or doctor ID")
	cmd.Flags().Var(now, "now", "Reference time (defaults to the current time)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
