package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/careflow/internal/app"
	"github.com/alexanderramin/careflow/internal/backend"
	"github.com/alexanderramin/careflow/internal/db"
	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/alexanderramin/careflow/internal/importer"
	"github.com/alexanderramin/careflow/internal/repository"
	"github.com/alexanderramin/careflow/internal/workflow"
	"github.com/google/uuid"
)

type appointmentService struct {
	appointments repository.AppointmentRepo
	logs         repository.TransitionLogRepo
	client       backend.Client
	uow          db.UnitOfWork
	opts         Options
	observer     UseCaseObserver
}

// AppointmentService serves the board, booking and transition use cases.
type AppointmentService interface {
	app.AppointmentBoardUseCase
	app.AppointmentBookingUseCase
	app.AppointmentTransitionUseCase
	Get(ctx context.Context, id string) (*domain.Appointment, error)
}

// NewAppointmentService wires the appointment use cases. client may be nil,
// in which case every transition is applied offline.
func NewAppointmentService(
	appointments repository.AppointmentRepo,
	logs repository.TransitionLogRepo,
	client backend.Client,
	uow db.UnitOfWork,
	opts Options,
	observers ...UseCaseObserver,
) AppointmentService {
	return &appointmentService{
		appointments: appointments,
		logs:         logs,
		client:       client,
		uow:          uow,
		opts:         opts,
		observer:     useCaseObserverOrNoop(observers),
	}
}

func (s *appointmentService) Board(ctx context.Context, req app.BoardRequest) (resp *app.BoardResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"role": string(req.Role), "filter": req.Filter}
	defer observe(ctx, s.observer, "appointment-board", startedAt, fields, &err)

	if err = validateRole(req.Role); err != nil {
		return nil, &app.BoardError{Code: app.BoardErrInvalidRole, Message: err.Error()}
	}
	now := s.opts.now(req.Now)

	var items []domain.Appointment
	items, err = s.appointments.List(ctx, repository.AppointmentFilter{
		SubjectID:     req.SubjectID,
		CounterpartID: req.CounterpartID,
	})
	if err != nil {
		return nil, fmt.Errorf("loading appointments: %w", err)
	}

	var buckets workflow.AppointmentBuckets
	buckets, err = workflow.ClassifyAppointments(items, now)
	if err != nil {
		return nil, &app.BoardError{Code: app.BoardErrDataIntegrity, Message: err.Error()}
	}

	var selected []domain.Appointment
	selected, err = buckets.Bucket(req.Filter)
	if err != nil {
		return nil, &app.BoardError{Code: app.BoardErrUnknownFilter, Message: fmt.Sprintf("no bucket or state named %q", req.Filter)}
	}

	todayIDs := make(map[string]bool, len(buckets.Today))
	for _, a := range buckets.Today {
		todayIDs[a.ID] = true
	}

	views := make([]app.AppointmentView, 0, len(selected))
	for _, a := range selected {
		var v app.AppointmentView
		v, err = s.view(a, req.Role, todayIDs[a.ID])
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}

	resp = &app.BoardResponse{
		GeneratedAt: now,
		Role:        req.Role,
		Filter:      req.Filter,
		Items:       views,
		Stats:       workflow.ComputeAppointmentStats(buckets),
	}
	if buckets.Next != nil {
		var next app.AppointmentView
		next, err = s.view(*buckets.Next, req.Role, todayIDs[buckets.Next.ID])
		if err != nil {
			return nil, err
		}
		resp.Next = &next
	}
	fields["count"] = len(views)
	return resp, nil
}

func (s *appointmentService) view(a domain.Appointment, role domain.ViewerRole, today bool) (app.AppointmentView, error) {
	actions, err := workflow.AppointmentActions(a.State, role)
	if err != nil {
		return app.AppointmentView{}, err
	}
	return app.AppointmentView{Appointment: a, Actions: actions, Today: today}, nil
}

func (s *appointmentService) Create(ctx context.Context, req app.CreateAppointmentRequest) (resp *app.CreateAppointmentResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"patient_id": req.SubjectID, "doctor_id": req.CounterpartID}
	defer observe(ctx, s.observer, "appointment-create", startedAt, fields, &err)

	if req.Role != "" {
		if err = validateRole(req.Role); err != nil {
			return nil, err
		}
	}
	reason := strings.TrimSpace(req.Reason)
	switch {
	case req.SubjectID == "":
		err = fmt.Errorf("appointment request: missing patient: %w", domain.ErrMalformedEntity)
	case req.CounterpartID == "":
		err = fmt.Errorf("appointment request: missing doctor: %w", domain.ErrMalformedEntity)
	case reason == "":
		err = fmt.Errorf("appointment request: missing reason: %w", domain.ErrMalformedEntity)
	}
	if err != nil {
		return nil, err
	}
	now := s.opts.now(req.Now)
	if err = checkSlot(&req.At, now); err != nil {
		return nil, err
	}

	requested := domain.Appointment{
		SubjectID:     req.SubjectID,
		CounterpartID: req.CounterpartID,
		ScheduledAt:   req.At,
		State:         domain.InitialAppointmentState(s.opts.ConfirmationGated),
		Reason:        reason,
		Notes:         strings.TrimSpace(req.Notes),
		CreatedAt:     now,
	}

	offline := s.opts.Offline || s.client == nil
	var created domain.Appointment
	if offline {
		created = requested
		created.ID = domain.LocalIDPrefix + uuid.New().String()
	} else {
		created, err = s.book(ctx, requested)
		if err != nil {
			return nil, err
		}
	}
	fields["appointment_id"] = created.ID
	fields["state"] = string(created.State)
	fields["offline"] = offline

	rec := newTransitionRecord(domain.EntityAppointment, created.ID, "", string(created.State), "",
		req.Role, "", offline, now)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteAppointmentRepo(tx).Upsert(ctx, &created); err != nil {
			return err
		}
		return appendLog(ctx, repository.NewSQLiteTransitionLogRepo(tx), rec)
	})
	if err != nil {
		return nil, err
	}
	return &app.CreateAppointmentResponse{Appointment: created, Offline: offline, LogID: rec.ID}, nil
}

// book asks the backend for the appointment. The backend assigns the id and
// the initial state.
func (s *appointmentService) book(ctx context.Context, a domain.Appointment) (domain.Appointment, error) {
	rec, err := s.client.CreateAppointment(ctx, importer.ToWireNewAppointment(a, s.opts.location()))
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("requesting appointment: %w", err)
	}
	if rec == nil || rec.ID == "" {
		return domain.Appointment{}, fmt.Errorf("requesting appointment: answer has no id: %w", backend.ErrInvalidResponse)
	}
	created, err := importer.ConvertAppointment(*rec, s.opts.location())
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("reading backend answer: %w", err)
	}
	if created.SubjectID == "" {
		created.SubjectID = a.SubjectID
	}
	if created.CounterpartID == "" {
		created.CounterpartID = a.CounterpartID
	}
	if created.Reason == "" {
		created.Reason = a.Reason
	}
	if rec.FechaCreacion == "" {
		created.CreatedAt = a.CreatedAt
	}
	return created, nil
}

func (s *appointmentService) Check(ctx context.Context, req app.TransitionRequest) (*app.CheckResult, error) {
	a, err := s.appointments.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	now := s.opts.now(req.Now)
	to, _, err := s.resolve(*a, req, now)
	if err != nil {
		return nil, err
	}
	return &app.CheckResult{
		Appointment: *a,
		From:        a.State,
		To:          to,
		HoursUntil:  a.ScheduledAt.Sub(now).Hours(),
	}, nil
}

// resolve validates the request and returns the target state plus the
// action that reaches it. A raw state request from a caller without a role
// carries no action.
func (s *appointmentService) resolve(a domain.Appointment, req app.TransitionRequest, now time.Time) (domain.AppointmentState, domain.Action, error) {
	if req.Role != "" {
		if err := validateRole(req.Role); err != nil {
			return "", "", err
		}
	}

	action := req.Action
	if action == "" && req.Role != "" {
		action = s.actionFor(a.State, req.To, req.Role)
	}
	if action == "" {
		if err := workflow.ValidateAppointmentTransition(a, req.To, now, s.opts.Workflow); err != nil {
			return "", "", err
		}
		if req.Role == domain.RolePatient {
			return "", "", notAvailable(a, string(req.To), req.Role)
		}
		if req.To == domain.AppointmentRescheduled {
			if err := checkSlot(req.NewTime, now); err != nil {
				return "", "", err
			}
		}
		return req.To, "", nil
	}

	if req.Role != "" && a.State.IsValid() && !a.IsTerminal() {
		allowed, err := workflow.AppointmentActions(a.State, req.Role)
		if err != nil {
			return "", "", err
		}
		if !containsAction(allowed, action) {
			return "", "", notAvailable(a, string(action), req.Role)
		}
	}
	to, err := workflow.ValidateAppointmentAction(a, action, now, s.opts.Workflow)
	if err != nil {
		return "", "", err
	}
	if action == domain.ActionReschedule {
		if err := checkSlot(req.NewTime, now); err != nil {
			return "", "", err
		}
	}
	return to, action, nil
}

// checkSlot requires a proposed appointment time strictly after now.
func checkSlot(at *time.Time, now time.Time) error {
	if at == nil || at.IsZero() {
		return fmt.Errorf("%w: a new time is required", domain.ErrInvalidSlot)
	}
	if !at.After(now) {
		return fmt.Errorf("%w: %s is not after %s", domain.ErrInvalidSlot,
			at.Format(time.RFC3339), now.Format(time.RFC3339))
	}
	return nil
}

func notAvailable(a domain.Appointment, to string, role domain.ViewerRole) error {
	return &domain.TransitionError{
		Kind:       domain.ErrKindIllegalTransition,
		EntityType: domain.EntityAppointment,
		EntityID:   a.ID,
		From:       string(a.State),
		To:         to,
		Message:    fmt.Sprintf("not available to %s", role),
	}
}

// actionFor finds the role's action that leads from state to the target.
func (s *appointmentService) actionFor(state, to domain.AppointmentState, role domain.ViewerRole) domain.Action {
	actions, err := workflow.AppointmentActions(state, role)
	if err != nil {
		return ""
	}
	for _, act := range actions {
		if target, ok := workflow.AppointmentActionTarget(state, act); ok && target == to {
			return act
		}
	}
	return ""
}

func (s *appointmentService) Transition(ctx context.Context, req app.TransitionRequest) (resp *app.TransitionResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"appointment_id": req.ID, "action": string(req.Action), "to": string(req.To)}
	defer observe(ctx, s.observer, "appointment-transition", startedAt, fields, &err)

	var current *domain.Appointment
	current, err = s.appointments.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	now := s.opts.now(req.Now)

	var to domain.AppointmentState
	var action domain.Action
	to, action, err = s.resolve(*current, req, now)
	if err != nil {
		return nil, err
	}
	fields["from"] = string(current.State)
	fields["to"] = string(to)

	var newTime *time.Time
	if action == domain.ActionReschedule || to == domain.AppointmentRescheduled {
		newTime = req.NewTime
	}

	// Appointments booked offline are unknown to the backend.
	offline := s.opts.Offline || s.client == nil || strings.HasPrefix(current.ID, domain.LocalIDPrefix)
	var updated domain.Appointment
	if offline {
		updated = current.WithState(to)
		if newTime != nil {
			updated.ScheduledAt = *newTime
		}
	} else {
		updated, err = s.submit(ctx, *current, to, newTime)
		if err != nil {
			return nil, err
		}
	}
	fields["offline"] = offline

	rec := newTransitionRecord(domain.EntityAppointment, current.ID, string(current.State), string(updated.State),
		action, req.Role, req.Note, offline, now)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteAppointmentRepo(tx).Upsert(ctx, &updated); err != nil {
			return err
		}
		return appendLog(ctx, repository.NewSQLiteTransitionLogRepo(tx), rec)
	})
	if err != nil {
		return nil, err
	}

	return &app.TransitionResponse{
		Appointment: updated,
		From:        current.State,
		To:          updated.State,
		Offline:     offline,
		LogID:       rec.ID,
	}, nil
}

// submit sends the change to the backend and returns the record it answers
// with. The backend's copy is authoritative. A non-nil newTime is a reschedule.
func (s *appointmentService) submit(ctx context.Context, a domain.Appointment, to domain.AppointmentState, newTime *time.Time) (domain.Appointment, error) {
	var rec *importer.CitaRecord
	var err error
	switch {
	case newTime != nil:
		rec, err = s.client.RescheduleAppointment(ctx, a.ID, *newTime)
	case to == domain.AppointmentCancelled:
		rec, err = s.client.CancelAppointment(ctx, a.ID)
	default:
		rec, err = s.client.UpdateAppointmentState(ctx, a.ID, importer.ToWireAppointmentState(to))
	}
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("submitting %s -> %s: %w", a.State, to, err)
	}
	if rec == nil || rec.ID == "" {
		local := a.WithState(to)
		if newTime != nil {
			local.ScheduledAt = *newTime
		}
		return local, nil
	}

	updated, err := importer.ConvertAppointment(*rec, s.opts.location())
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("reading backend answer: %w", err)
	}
	if updated.SubjectID == "" {
		updated.SubjectID = a.SubjectID
	}
	if updated.CounterpartID == "" {
		updated.CounterpartID = a.CounterpartID
	}
	if !a.CreatedAt.IsZero() {
		updated.CreatedAt = a.CreatedAt
	}
	return updated, nil
}

func (s *appointmentService) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *appointmentService) Actions(ctx context.Context, id string, role domain.ViewerRole) ([]domain.Action, error) {
	if err := validateRole(role); err != nil {
		return nil, err
	}
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return workflow.AppointmentActions(a.State, role)
}

func (s *appointmentService) History(ctx context.Context, id string) ([]domain.TransitionRecord, error) {
	return s.logs.ListByEntity(ctx, domain.EntityAppointment, id)
}
