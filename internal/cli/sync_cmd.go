package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/careflow/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSyncCmd(a *App) *cobra.Command {
	var patientID string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Refresh the local mirror from the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.Sync.Sync(context.Background(), patientID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSyncResult(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&patientID, "patient", "", "Patient whose recommendations and symptoms to pull (default: the caller)")
	return cmd
}

func newImportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load a backend JSON snapshot into the local mirror",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.Import.ImportFile(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSyncResult(res))
			return nil
		},
	}
}
