package cli

import (
	"time"

	"github.com/alexanderramin/careflow/internal/app"
	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/alexanderramin/careflow/internal/service"
	"github.com/spf13/cobra"
)

// App holds the use cases the commands run against.
type App struct {
	Appointments    service.AppointmentService
	Recommendations app.RecommendationUseCase
	Symptoms        app.SymptomUseCase
	Dashboard       app.DashboardUseCase
	Sync            app.SyncUseCase
	Import          app.ImportUseCase

	// Location is used to read zone-less --now and --at values.
	Location *time.Location

	// IsInteractive reports whether prompts may be shown. Nil means never.
	IsInteractive func() bool
	// PickAction asks the user to choose one of actions. Defaults to a huh select.
	PickAction func(title string, actions []domain.Action) (domain.Action, error)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) location() *time.Location {
	if a.Location == nil {
		return time.Local
	}
	return a.Location
}

func (a *App) pickAction(title string, actions []domain.Action) (domain.Action, error) {
	if a.PickAction != nil {
		return a.PickAction(title, actions)
	}
	return huhPickAction(title, actions)
}

// NewRootCmd creates the top-level "careflow" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "careflow",
		Short:         "Appointment and care-plan workflow for Parkinson's follow-up",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAppointmentsCmd(app),
		newRecsCmd(app),
		newSymptomsCmd(app),
		newDashboardCmd(app),
		newSyncCmd(app),
		newImportCmd(app),
	)

	return root
}
