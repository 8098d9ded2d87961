package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/careflow/internal/app"
	"github.com/alexanderramin/careflow/internal/cli/formatter"
	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/spf13/cobra"
)

func newAppointmentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appt", "citas"},
		Short:   "List appointments and move them through their workflow",
	}

	cmd.AddCommand(
		newAppointmentsListCmd(app),
		newAppointmentsCreateCmd(app),
		newAppointmentsCheckCmd(app),
		newAppointmentsActCmd(app),
		newAppointmentsActionsCmd(app),
		newAppointmentsHistoryCmd(app),
	)

	return cmd
}

func newAppointmentsListCmd(a *App) *cobra.Command {
	role := newRoleFlag(domain.RolePatient)
	now := newTimeFlag(a.location)
	var patientID, doctorID, filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the appointment board",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.NewBoardRequest(role.role)
			req.SubjectID = patientID
			req.CounterpartID = doctorID
			req.Now = now.Value()
			if filter != "" {
				req.Filter = filter
			}

			resp, err := a.Appointments.Board(context.Background(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBoard(resp))
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().Var(role, "role", "Viewer role (patient|doctor)")
	cmd.Flags().StringVar(&patientID, "patient", "", "Only this patient's appointments")
	cmd.Flags().StringVar(&doctorID, "doctor", "", "Only this doctor's appointments")
	cmd.Flags().StringVar(&filter, "filter", "all", "all, today, pending, upcoming, or a state name")
	cmd.Flags().Var(now, "now", "Reference time (defaults to the current time)")

	return cmd
}

func newAppointmentsCreateCmd(a *App) *cobra.Command {
	var req app.CreateAppointmentRequest
	role := newRoleFlag(domain.RolePatient)
	at := newTimeFlag(a.location)
	now := newTimeFlag(a.location)

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"book"},
		Short:   "Request a new appointment with a doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if v := at.Value(); v != nil {
				req.At = *v
			}
			req.Role = role.role
			req.Now = now.Value()
			resp, err := a.Appointments.Create(context.Background(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBooking(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.SubjectID, "patient", "", "Patient ID")
	cmd.Flags().StringVar(&req.CounterpartID, "doctor", "", "Doctor ID")
	cmd.Flags().Var(at, "at", "Requested slot")
	cmd.Flags().StringVar(&req.Reason, "reason", "", "Reason for the visit")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "Notes for the doctor")
	cmd.Flags().Var(role, "role", "Who is booking (patient|doctor)")
	cmd.Flags().Var(now, "now", "Reference time (defaults to the current time)")
	for _, name := range []string{"patient", "doctor", "at", "reason"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

// transitionFlags are shared by check and act.
type transitionFlags struct {
	to     string
	action string
	role   *roleFlag
	now    *timeFlag
	at     *timeFlag
	note   string
}

func (f *transitionFlags) register(cmd *cobra.Command, a *App, withApply bool) {
	f.role = newRoleFlag("")
	f.now = newTimeFlag(a.location)
	f.at = newTimeFlag(a.location)
	cmd.Flags().StringVar(&f.to, "to", "", "Target state (English or backend name)")
	cmd.Flags().StringVar(&f.action, "action", "", "Action to take (confirm, reject, cancel, complete, reschedule)")
	cmd.Flags().Var(f.role, "role", "Act as patient or doctor; limits the available actions")
	cmd.Flags().Var(f.now, "now", "Reference time (defaults to the current time)")
	cmd.Flags().Var(f.at, "at", "New slot, required for reschedule")
	cmd.MarkFlagsMutuallyExclusive("to", "action")
	if withApply {
		cmd.Flags().StringVar(&f.note, "note", "", "Note stored with the transition")
	}
}

func (f *transitionFlags) request(id string) (app.TransitionRequest, error) {
	req := app.TransitionRequest{
		ID:      id,
		Action:  parseAction(f.action),
		Role:    f.role.role,
		Note:    f.note,
		Now:     f.now.Value(),
		NewTime: f.at.Value(),
	}
	if f.to != "" {
		st, err := parseAppointmentState(f.to)
		if err != nil {
			return req, err
		}
		req.To = st
	}
	return req, nil
}

func newAppointmentsCheckCmd(a *App) *cobra.Command {
	var flags transitionFlags

	cmd := &cobra.Command{
		Use:   "check ID",
		Short: "Check whether a transition is allowed without applying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.to == "" && flags.action == "" {
				return fmt.Errorf("one of --to or --action is required")
			}
			req, err := flags.request(args[0])
			if err != nil {
				return err
			}
			res, err := a.Appointments.Check(context.Background(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCheck(res))
			return nil
		},
	}
	flags.register(cmd, a, false)
	return cmd
}

func newAppointmentsActCmd(a *App) *cobra.Command {
	var flags transitionFlags

	cmd := &cobra.Command{
		Use:   "act ID",
		Short: "Apply an action or state change to an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if flags.to == "" && flags.action == "" {
				action, err := a.promptAppointmentAction(ctx, args[0], flags.role.role)
				if err != nil {
					return err
				}
				flags.action = string(action)
			}
			req, err := flags.request(args[0])
			if err != nil {
				return err
			}
			resp, err := a.Appointments.Transition(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTransition(resp))
			return nil
		},
	}
	flags.register(cmd, a, true)
	return cmd
}

// promptAppointmentAction offers the viewer's actions on an interactive
// terminal. Without a role the doctor's full set is offered.
func (a *App) promptAppointmentAction(ctx context.Context, id string, role domain.ViewerRole) (domain.Action, error) {
	if !a.interactive() {
		return "", fmt.Errorf("one of --to or --action is required")
	}
	if role == "" {
		role = domain.RoleDoctor
	}
	actions, err := a.Appointments.Actions(ctx, id, role)
	if err != nil {
		return "", err
	}
	if len(actions) == 0 {
		return "", fmt.Errorf("appointment %s: %w", id, errNoActions)
	}
	return a.pickAction(fmt.Sprintf("Appointment %s", id), actions)
}

func newAppointmentsActionsCmd(a *App) *cobra.Command {
	role := newRoleFlag(domain.RoleDoctor)

	cmd := &cobra.Command{
		Use:   "actions ID",
		Short: "List the actions a role may take on an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			appt, err := a.Appointments.Get(ctx, args[0])
			if err != nil {
				return err
			}
			actions, err := a.Appointments.Actions(ctx, args[0], role.role)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActionList(appt.ID, appt.State, actions))
			return nil
		},
	}

	cmd.Flags().Var(role, "role", "Viewer role (patient|doctor)")
	return cmd
}

func newAppointmentsHistoryCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history ID",
		Short: "Show recorded transitions of an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.Appointments.History(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(entries))
			return nil
		},
	}
}
