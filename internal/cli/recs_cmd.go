package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/careflow/internal/app"
	"github.com/alexanderramin/careflow/internal/cli/formatter"
	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/spf13/cobra"
)

func newRecsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recs",
		Aliases: []string{"recommendations"},
		Short:   "Review and follow care recommendations",
	}

	cmd.AddCommand(
		newRecsListCmd(app),
		newRecsReviewCmd(app),
		newRecsCompleteCmd(app),
	)

	return cmd
}

func newRecsListCmd(a *App) *cobra.Command {
	role := newRoleFlag(domain.RolePatient)
	var patientID string
	var pending bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recommendations visible to a role",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.Recommendations.Feed(context.Background(), app.FeedRequest{
				Role:        role.role,
				SubjectID:   patientID,
				PendingOnly: pending,
			})
			if err != nil {
				return err
			}
			title := "Recommendations"
			if pending {
				title = "Review queue"
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFeed(resp, title))
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().Var(role, "role", "Viewer role (patient|doctor)")
	cmd.Flags().StringVar(&patientID, "patient", "", "Only this patient's recommendations")
	cmd.Flags().BoolVar(&pending, "pending", false, "Doctor view: only recommendations awaiting review")

	return cmd
}

func newRecsReviewCmd(a *App) *cobra.Command {
	var approve, modify, reject bool
	var comment string

	cmd := &cobra.Command{
		Use:   "review ID",
		Short: "Approve, modify or reject a recommendation awaiting review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var action domain.Action
			switch {
			case approve:
				action = domain.ActionApprove
			case modify:
				action = domain.ActionModify
			case reject:
				action = domain.ActionReject
			default:
				if !a.interactive() {
					return fmt.Errorf("one of --approve, --modify or --reject is required")
				}
				picked, err := a.pickAction("Recommendation "+args[0],
					[]domain.Action{domain.ActionApprove, domain.ActionModify, domain.ActionReject})
				if err != nil {
					return err
				}
				action = picked
				if action != domain.ActionApprove && comment == "" {
					if err := huhInput("Comment for the patient", "optional", &comment); err != nil {
						return err
					}
				}
			}

			resp, err := a.Recommendations.Review(context.Background(), app.ReviewRequest{
				ID:      args[0],
				Action:  action,
				Comment: comment,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReview(resp))
			return nil
		},
	}

	cmd.Flags().BoolVar(&approve, "approve", false, "Approve as proposed")
	cmd.Flags().BoolVar(&modify, "modify", false, "Approve with changes")
	cmd.Flags().BoolVar(&reject, "reject", false, "Reject")
	cmd.Flags().StringVar(&comment, "comment", "", "Comment stored with the review")
	cmd.MarkFlagsMutuallyExclusive("approve", "modify", "reject")

	return cmd
}

func newRecsCompleteCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete ID",
		Short: "Mark a recommendation as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.Recommendations.MarkCompleted(context.Background(), args[0], domain.RolePatient)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCompleted(r))
			return nil
		},
	}
}
