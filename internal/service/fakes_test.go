package service

import (
	"context"
	"database/sql"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/careflow/internal/backend"
	"github.com/alexanderramin/careflow/internal/importer"
	"github.com/alexanderramin/careflow/internal/repository"
	"github.com/alexanderramin/careflow/internal/testutil"
)

// fakeClient is a scripted backend. Mutations echo the request back unless
// an answer or error is set.
type fakeClient struct {
	citas    []importer.CitaRecord
	recs     []importer.RecomendacionRecord
	sintomas []importer.SintomaRecord

	cita *importer.CitaRecord
	rec  *importer.RecomendacionRecord
	err  error

	// uploadErrs scripts RecordSymptom outcomes in call order; nil or
	// missing entries succeed.
	uploadErrs  []error
	uploadCalls int
	uploaded    []importer.NuevoSintomaRecord
	created     []importer.NuevaCitaRecord

	calls []string
}

var _ backend.Client = (*fakeClient)(nil)

func (f *fakeClient) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeClient) ListAppointments(context.Context) ([]importer.CitaRecord, error) {
	f.record("ListAppointments")
	return f.citas, f.err
}

func (f *fakeClient) ListRecommendations(_ context.Context, patientID string) ([]importer.RecomendacionRecord, error) {
	f.record("ListRecommendations:" + patientID)
	return f.recs, f.err
}

func (f *fakeClient) ListSymptoms(_ context.Context, patientID string) ([]importer.SintomaRecord, error) {
	f.record("ListSymptoms:" + patientID)
	return f.sintomas, f.err
}

func (f *fakeClient) CreateAppointment(_ context.Context, body importer.NuevaCitaRecord) (*importer.CitaRecord, error) {
	f.record("CreateAppointment:" + body.DoctorID)
	f.created = append(f.created, body)
	if f.cita != nil || f.err != nil {
		return f.cita, f.err
	}
	return &importer.CitaRecord{
		ID:         "500",
		PacienteID: importer.WireID(body.PacienteID),
		DoctorID:   importer.WireID(body.DoctorID),
		FechaHora:  body.FechaHora,
		Estado:     "PENDIENTE",
		Motivo:     body.Motivo,
		Notas:      body.Notas,
	}, nil
}

func (f *fakeClient) UpdateAppointmentState(_ context.Context, id, wireState string) (*importer.CitaRecord, error) {
	f.record("UpdateAppointmentState:" + id + ":" + wireState)
	return f.cita, f.err
}

func (f *fakeClient) CancelAppointment(_ context.Context, id string) (*importer.CitaRecord, error) {
	f.record("CancelAppointment:" + id)
	return f.cita, f.err
}

func (f *fakeClient) RescheduleAppointment(_ context.Context, id string, _ time.Time) (*importer.CitaRecord, error) {
	f.record("RescheduleAppointment:" + id)
	return f.cita, f.err
}

func (f *fakeClient) ReviewRecommendation(_ context.Context, id, wireState, _ string) (*importer.RecomendacionRecord, error) {
	f.record("ReviewRecommendation:" + id + ":" + wireState)
	return f.rec, f.err
}

func (f *fakeClient) CompleteRecommendation(_ context.Context, id string) (*importer.RecomendacionRecord, error) {
	f.record("CompleteRecommendation:" + id)
	return f.rec, f.err
}

func (f *fakeClient) RecordSymptom(_ context.Context, patientID string, body importer.NuevoSintomaRecord) (*importer.SintomaRecord, error) {
	f.record("RecordSymptom:" + patientID)
	i := f.uploadCalls
	f.uploadCalls++
	if i < len(f.uploadErrs) && f.uploadErrs[i] != nil {
		return nil, f.uploadErrs[i]
	}
	if f.err != nil {
		return nil, f.err
	}
	f.uploaded = append(f.uploaded, body)
	return &importer.SintomaRecord{
		ID:                  importer.WireID(strconv.Itoa(900 + i)),
		PacienteID:          importer.WireID(patientID),
		NivelTemblor:        &body.NivelTemblor,
		NivelRigidez:        &body.NivelRigidez,
		NivelBradicinesia:   &body.NivelBradicinesia,
		NivelEquilibrio:     &body.NivelEquilibrio,
		SintomasAdicionales: body.SintomasAdicionales,
		Notas:               body.Notas,
		FechaRegistro:       body.FechaRegistro,
	}, nil
}

type recordingUseCaseObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingUseCaseObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingUseCaseObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

type repos struct {
	db           *sql.DB
	appointments repository.AppointmentRepo
	recs         repository.RecommendationRepo
	symptoms     repository.SymptomRepo
	logs         repository.TransitionLogRepo
}

func setupRepos(t *testing.T) repos {
	t.Helper()
	database := testutil.NewTestDB(t)
	return repos{
		db:           database,
		appointments: repository.NewSQLiteAppointmentRepo(database),
		recs:         repository.NewSQLiteRecommendationRepo(database),
		symptoms:     repository.NewSQLiteSymptomRepo(database),
		logs:         repository.NewSQLiteTransitionLogRepo(database),
	}
}

func offlineOptions() Options {
	opts := DefaultOptions()
	opts.Offline = true
	opts.Location = time.UTC
	return opts
}

func onlineOptions() Options {
	opts := DefaultOptions()
	opts.Location = time.UTC
	return opts
}
