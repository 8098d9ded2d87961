package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/careflow/internal/backend"
	"github.com/alexanderramin/careflow/internal/cli"
	"github.com/alexanderramin/careflow/internal/config"
	"github.com/alexanderramin/careflow/internal/db"
	"github.com/alexanderramin/careflow/internal/repository"
	"github.com/alexanderramin/careflow/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Open the local mirror
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	appointmentRepo := repository.NewSQLiteAppointmentRepo(database)
	recommendationRepo := repository.NewSQLiteRecommendationRepo(database)
	symptomRepo := repository.NewSQLiteSymptomRepo(database)
	logRepo := repository.NewSQLiteTransitionLogRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	var callObserver backend.Observer = backend.NoopObserver{}
	if cfg.LogCalls {
		observer = service.NewLogUseCaseObserver(os.Stderr)
		callObserver = backend.NewLogObserver(os.Stderr)
	}

	// A nil client keeps every service on the local mirror.
	var client backend.Client
	if !cfg.Offline {
		client = backend.NewClient(backend.Config{
			BaseURL:    cfg.APIURL,
			Token:      cfg.APIToken,
			Timeout:    cfg.Timeout(),
			MaxRetries: cfg.MaxRetries,
			Location:   cfg.Location,
		}, callObserver)
	}

	opts := service.Options{
		Workflow:          cfg.Workflow(),
		TrendDays:         cfg.TrendDays,
		Location:          cfg.Location,
		Offline:           cfg.Offline,
		ConfirmationGated: cfg.ConfirmationGated,
	}

	// Wire services
	appointmentSvc := service.NewAppointmentService(appointmentRepo, logRepo, client, uow, opts, observer)
	recommendationSvc := service.NewRecommendationService(recommendationRepo, client, uow, opts, observer)
	symptomSvc := service.NewSymptomService(symptomRepo, client, opts, observer)

	app := &cli.App{
		Appointments:    appointmentSvc,
		Recommendations: recommendationSvc,
		Symptoms:        symptomSvc,
		Dashboard:       service.NewDashboardService(appointmentSvc, recommendationSvc, symptomSvc, opts, observer),
		Sync:            service.NewSyncService(client, symptomRepo, uow, opts, observer),
		Import:          service.NewImportService(symptomRepo, uow, opts, observer),
		Location:        cfg.Location,
	}

	// Prompts only on an interactive terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
