package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/careflow/internal/app"
	"github.com/alexanderramin/careflow/internal/domain"
)

type dashboardService struct {
	appointments    app.AppointmentBoardUseCase
	recommendations app.RecommendationUseCase
	symptoms        app.SymptomUseCase
	opts            Options
	observer        UseCaseObserver
}

// NewDashboardService composes the per-role dashboards from the other use
// cases, so each panel reads exactly what its own command would show.
func NewDashboardService(
	appointments app.AppointmentBoardUseCase,
	recommendations app.RecommendationUseCase,
	symptoms app.SymptomUseCase,
	opts Options,
	observers ...UseCaseObserver,
) app.DashboardUseCase {
	return &dashboardService{
		appointments:    appointments,
		recommendations: recommendations,
		symptoms:        symptoms,
		opts:            opts,
		observer:        useCaseObserverOrNoop(observers),
	}
}

func (s *dashboardService) Patient(ctx context.Context, req app.DashboardRequest) (resp *app.PatientDashboard, err error) {
	startedAt := time.Now()
	fields := map[string]any{"subject_id": req.ID}
	defer observe(ctx, s.observer, "dashboard-patient", startedAt, fields, &err)

	if req.ID == "" {
		return nil, fmt.Errorf("a patient id is required")
	}
	now := s.opts.now(req.Now)

	board := app.NewBoardRequest(domain.RolePatient)
	board.SubjectID = req.ID
	board.Now = &now
	resp = &app.PatientDashboard{SubjectID: req.ID, GeneratedAt: now}
	if resp.Appointments, err = s.appointments.Board(ctx, board); err != nil {
		return nil, err
	}
	if resp.Recommendations, err = s.recommendations.Feed(ctx, app.FeedRequest{
		Role:      domain.RolePatient,
		SubjectID: req.ID,
	}); err != nil {
		return nil, err
	}
	window := app.SymptomWindowRequest{SubjectID: req.ID, Now: &now}
	if resp.Symptoms, err = s.symptoms.Stats(ctx, window); err != nil {
		return nil, err
	}
	if resp.Trend, err = s.symptoms.Trend(ctx, window); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *dashboardService) Doctor(ctx context.Context, req app.DashboardRequest) (resp *app.DoctorDashboard, err error) {
	startedAt := time.Now()
	fields := map[string]any{"counterpart_id": req.ID}
	defer observe(ctx, s.observer, "dashboard-doctor", startedAt, fields, &err)

	if req.ID == "" {
		return nil, fmt.Errorf("a doctor id is required")
	}
	now := s.opts.now(req.Now)

	board := app.NewBoardRequest(domain.RoleDoctor)
	board.CounterpartID = req.ID
	board.Now = &now
	resp = &app.DoctorDashboard{CounterpartID: req.ID, GeneratedAt: now}
	if resp.Appointments, err = s.appointments.Board(ctx, board); err != nil {
		return nil, err
	}
	if resp.ReviewQueue, err = s.recommendations.Feed(ctx, app.FeedRequest{
		Role:        domain.RoleDoctor,
		PendingOnly: true,
	}); err != nil {
		return nil, err
	}
	return resp, nil
}
