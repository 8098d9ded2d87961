package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/careflow/internal/app"
	"github.com/alexanderramin/careflow/internal/backend"
	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/alexanderramin/careflow/internal/importer"
	"github.com/alexanderramin/careflow/internal/repository"
	"github.com/alexanderramin/careflow/internal/workflow"
	"github.com/google/uuid"
)

type symptomService struct {
	symptoms repository.SymptomRepo
	client   backend.Client
	opts     Options
	observer UseCaseObserver
}

// NewSymptomService wires the symptom use cases. With a nil client samples
// are kept locally until the next sync uploads them.
func NewSymptomService(symptoms repository.SymptomRepo, client backend.Client, opts Options, observers ...UseCaseObserver) app.SymptomUseCase {
	return &symptomService{
		symptoms: symptoms,
		client:   client,
		opts:     opts,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *symptomService) Record(ctx context.Context, req app.RecordSymptomRequest) (sample *domain.SymptomSample, err error) {
	startedAt := time.Now()
	fields := map[string]any{"subject_id": req.SubjectID}
	defer observe(ctx, s.observer, "symptom-record", startedAt, fields, &err)

	if req.SubjectID == "" {
		return nil, fmt.Errorf("symptom sample: missing subject: %w", domain.ErrMalformedEntity)
	}
	if req.Role != "" {
		if err = validateRole(req.Role); err != nil {
			return nil, err
		}
	}
	sample = &domain.SymptomSample{
		ID:                 domain.LocalIDPrefix + uuid.New().String(),
		SubjectID:          req.SubjectID,
		Tremor:             req.Tremor,
		Rigidity:           req.Rigidity,
		Bradykinesia:       req.Bradykinesia,
		Balance:            req.Balance,
		AdditionalSymptoms: req.AdditionalSymptoms,
		Notes:              req.Notes,
		RecordedAt:         s.opts.now(req.RecordedAt),
	}
	if err = sample.Validate(); err != nil {
		return nil, err
	}

	offline := s.opts.Offline || s.client == nil
	fields["offline"] = offline
	if !offline {
		patientID := ""
		if req.Role == domain.RoleDoctor {
			patientID = req.SubjectID
		}
		var stored domain.SymptomSample
		stored, err = uploadSymptom(ctx, s.client, *sample, patientID, s.opts.location())
		if err != nil {
			return nil, err
		}
		sample = &stored
	}
	if err = s.symptoms.Upsert(ctx, sample); err != nil {
		return nil, err
	}
	fields["average"] = sample.AverageSeverity()
	return sample, nil
}

// uploadSymptom sends a sample to the backend and returns the record it
// answers with. An answer without an id keeps the sent values under a
// deterministic backend id.
func uploadSymptom(ctx context.Context, client backend.Client, sample domain.SymptomSample, patientID string, loc *time.Location) (domain.SymptomSample, error) {
	rec, err := client.RecordSymptom(ctx, patientID, importer.ToWireNewSymptom(sample, loc))
	if err != nil {
		return domain.SymptomSample{}, fmt.Errorf("uploading symptom sample: %w", err)
	}
	if rec == nil || rec.ID == "" {
		stored := sample
		stored.ID = stableSymptomID(&stored)
		return stored, nil
	}
	if rec.FechaRegistro == "" {
		rec.FechaRegistro = importer.FormatTime(sample.RecordedAt, loc)
	}
	stored, err := importer.ConvertSymptom(*rec, loc)
	if err != nil {
		return domain.SymptomSample{}, fmt.Errorf("reading backend answer: %w", err)
	}
	if stored.SubjectID == "" {
		stored.SubjectID = sample.SubjectID
	}
	return stored, nil
}

func (s *symptomService) window(ctx context.Context, req app.SymptomWindowRequest) ([]domain.SymptomSample, time.Time, error) {
	if req.SubjectID == "" {
		return nil, time.Time{}, fmt.Errorf("a subject id is required")
	}
	now := s.opts.now(req.Now)
	since := now.Add(-time.Duration(s.opts.trendDays(req.Days)) * 24 * time.Hour)
	samples, err := s.symptoms.ListBySubject(ctx, req.SubjectID, since, now)
	if err != nil {
		return nil, since, fmt.Errorf("loading symptom samples: %w", err)
	}
	return samples, since, nil
}

func (s *symptomService) Stats(ctx context.Context, req app.SymptomWindowRequest) (resp *app.SymptomStatsResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"subject_id": req.SubjectID, "days": s.opts.trendDays(req.Days)}
	defer observe(ctx, s.observer, "symptom-stats", startedAt, fields, &err)

	samples, since, err := s.window(ctx, req)
	if err != nil {
		return nil, err
	}
	fields["count"] = len(samples)
	return &app.SymptomStatsResponse{
		SubjectID: req.SubjectID,
		Since:     since,
		Stats:     workflow.ComputeSymptomStats(samples),
		Samples:   samples,
	}, nil
}

func (s *symptomService) Trend(ctx context.Context, req app.SymptomWindowRequest) (resp *app.TrendResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"subject_id": req.SubjectID, "days": s.opts.trendDays(req.Days)}
	defer observe(ctx, s.observer, "symptom-trend", startedAt, fields, &err)

	samples, since, err := s.window(ctx, req)
	if err != nil {
		return nil, err
	}
	epsilon := s.opts.Workflow.TrendEpsilon
	if req.Epsilon != nil && *req.Epsilon >= 0 {
		epsilon = *req.Epsilon
	}
	result := workflow.TrendOfSeries(samples, epsilon)
	fields["trend"] = string(result.Trend)
	return &app.TrendResponse{
		SubjectID: req.SubjectID,
		Since:     since,
		Count:     len(samples),
		Epsilon:   epsilon,
		Result:    result,
	}, nil
}
