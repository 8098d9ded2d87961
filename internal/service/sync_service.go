package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/careflow/internal/app"
	"github.com/alexanderramin/careflow/internal/backend"
	"github.com/alexanderramin/careflow/internal/db"
	"github.com/alexanderramin/careflow/internal/importer"
	"github.com/alexanderramin/careflow/internal/repository"
)

type syncService struct {
	client   backend.Client
	importer *importService
	opts     Options
	observer UseCaseObserver
}

// NewSyncService uploads samples recorded offline, then pulls the backend's
// lists and imports them as one snapshot.
func NewSyncService(
	client backend.Client,
	symptoms repository.SymptomRepo,
	uow db.UnitOfWork,
	opts Options,
	observers ...UseCaseObserver,
) app.SyncUseCase {
	obs := useCaseObserverOrNoop(observers)
	return &syncService{
		client: client,
		importer: &importService{
			symptoms: symptoms,
			uow:      uow,
			opts:     opts,
			observer: obs,
			source:   "backend",
		},
		opts:     opts,
		observer: obs,
	}
}

func (s *syncService) Sync(ctx context.Context, patientID string) (res *app.SyncResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"patient_id": patientID}
	defer observe(ctx, s.observer, "backend-sync", startedAt, fields, &err)

	if s.opts.Offline || s.client == nil {
		return nil, ErrOffline
	}

	var uploaded, refused int
	uploaded, refused, err = s.uploadLocal(ctx, patientID)
	fields["uploaded"] = uploaded
	fields["refused"] = refused
	if err != nil {
		return nil, err
	}

	snap := &importer.Snapshot{}
	if snap.Citas, err = s.client.ListAppointments(ctx); err != nil {
		return nil, fmt.Errorf("fetching appointments: %w", err)
	}
	if snap.Recomendaciones, err = s.client.ListRecommendations(ctx, patientID); err != nil {
		return nil, fmt.Errorf("fetching recommendations: %w", err)
	}
	if snap.Sintomas, err = s.client.ListSymptoms(ctx, patientID); err != nil {
		return nil, fmt.Errorf("fetching symptom samples: %w", err)
	}
	res, err = s.importer.ImportSnapshot(ctx, snap)
	if err != nil {
		return nil, err
	}
	res.Uploaded = uploaded
	return res, nil
}

// uploadLocal sends every locally recorded sample to the backend and swaps
// it for the backend's record. A sample the backend refuses stays local and
// is counted; any other failure stops the sync.
func (s *syncService) uploadLocal(ctx context.Context, patientID string) (uploaded, refused int, err error) {
	local, err := s.importer.symptoms.ListLocal(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("listing local samples: %w", err)
	}
	loc := s.opts.location()
	for _, sample := range local {
		// Without a patient the token holder reports; a doctor's sync names
		// each sample's patient.
		target := ""
		if patientID != "" {
			target = sample.SubjectID
		}
		stored, err := uploadSymptom(ctx, s.client, sample, target, loc)
		if errors.Is(err, backend.ErrRejected) {
			refused++
			continue
		}
		if err != nil {
			return uploaded, refused, fmt.Errorf("uploading sample %s: %w", sample.ID, err)
		}
		err = s.importer.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			symptoms := repository.NewSQLiteSymptomRepo(tx)
			if err := symptoms.Delete(ctx, sample.ID); err != nil {
				return err
			}
			return symptoms.Upsert(ctx, &stored)
		})
		if err != nil {
			return uploaded, refused, err
		}
		uploaded++
	}
	return uploaded, refused, nil
}
