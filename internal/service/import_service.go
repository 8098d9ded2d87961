package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/careflow/internal/app"
	"github.com/alexanderramin/careflow/internal/db"
	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/alexanderramin/careflow/internal/importer"
	"github.com/alexanderramin/careflow/internal/repository"
	"github.com/google/uuid"
)

// symptomIDSpace namespaces the deterministic ids given to backend samples
// that arrive without one, so re-importing the same file does not duplicate.
var symptomIDSpace = uuid.MustParse("6f1c2a8e-5b7d-4e0a-9c3f-2d4b8a1e7c90")

type importService struct {
	symptoms repository.SymptomRepo
	uow      db.UnitOfWork
	opts     Options
	observer UseCaseObserver
	source   string
}

// NewImportService returns the use case that loads backend snapshots into
// the mirror.
func NewImportService(symptoms repository.SymptomRepo, uow db.UnitOfWork, opts Options, observers ...UseCaseObserver) app.ImportUseCase {
	return &importService{
		symptoms: symptoms,
		uow:      uow,
		opts:     opts,
		observer: useCaseObserverOrNoop(observers),
		source:   "file",
	}
}

func (s *importService) ImportFile(ctx context.Context, path string) (*app.SyncResult, error) {
	snap, err := importer.LoadSnapshotFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return s.ImportSnapshot(ctx, snap)
}

func (s *importService) ImportSnapshot(ctx context.Context, snap *importer.Snapshot) (res *app.SyncResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"source": s.source}
	defer observe(ctx, s.observer, "snapshot-import", startedAt, fields, &err)

	if snap == nil {
		return nil, fmt.Errorf("empty snapshot")
	}
	loc := s.opts.location()
	if errs := importer.ValidateSnapshot(snap, loc); len(errs) > 0 {
		err = formatValidationErrors(errs)
		return nil, err
	}

	var converted *importer.Converted
	converted, err = importer.ConvertSnapshot(snap, loc)
	if err != nil {
		return nil, err
	}
	for i := range converted.Symptoms {
		sample := &converted.Symptoms[i]
		if sample.ID == "" {
			sample.ID = stableSymptomID(sample)
		}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		appointments := repository.NewSQLiteAppointmentRepo(tx)
		for i := range converted.Appointments {
			if err := appointments.Upsert(ctx, &converted.Appointments[i]); err != nil {
				return fmt.Errorf("storing appointment %s: %w", converted.Appointments[i].ID, err)
			}
		}
		recs := repository.NewSQLiteRecommendationRepo(tx)
		for i := range converted.Recommendations {
			if err := recs.Upsert(ctx, &converted.Recommendations[i]); err != nil {
				return fmt.Errorf("storing recommendation %s: %w", converted.Recommendations[i].ID, err)
			}
		}
		symptoms := repository.NewSQLiteSymptomRepo(tx)
		for i := range converted.Symptoms {
			if err := symptoms.Upsert(ctx, &converted.Symptoms[i]); err != nil {
				return fmt.Errorf("storing symptom sample %s: %w", converted.Symptoms[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var local []domain.SymptomSample
	local, err = s.symptoms.ListLocal(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting local samples: %w", err)
	}

	res = &app.SyncResult{
		Source:          s.source,
		Appointments:    len(converted.Appointments),
		Recommendations: len(converted.Recommendations),
		Symptoms:        len(converted.Symptoms),
		LocalPending:    len(local),
	}
	fields["appointments"] = res.Appointments
	fields["recommendations"] = res.Recommendations
	fields["symptoms"] = res.Symptoms
	return res, nil
}

func stableSymptomID(s *domain.SymptomSample) string {
	key := fmt.Sprintf("%s|%s|%d|%d|%d|%d", s.SubjectID, s.RecordedAt.UTC().Format(time.RFC3339Nano),
		s.Tremor, s.Rigidity, s.Bradykinesia, s.Balance)
	return uuid.NewSHA1(symptomIDSpace, []byte(key)).String()
}
