package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/careflow/internal/db"
	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/alexanderramin/careflow/internal/repository"
	"github.com/alexanderramin/careflow/internal/service"
	"github.com/alexanderramin/careflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app          *App
	appointments repository.AppointmentRepo
	recs         repository.RecommendationRepo
	symptoms     repository.SymptomRepo
}

// testApp wires the offline services on an in-memory mirror.
func testApp(t *testing.T) testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	appointments := repository.NewSQLiteAppointmentRepo(database)
	recs := repository.NewSQLiteRecommendationRepo(database)
	symptoms := repository.NewSQLiteSymptomRepo(database)
	logs := repository.NewSQLiteTransitionLogRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	opts := service.DefaultOptions()
	opts.Offline = true
	opts.Location = time.UTC

	apptSvc := service.NewAppointmentService(appointments, logs, nil, uow, opts)
	recSvc := service.NewRecommendationService(recs, nil, uow, opts)
	symSvc := service.NewSymptomService(symptoms, nil, opts)

	return testEnv{
		app: &App{
			Appointments:    apptSvc,
			Recommendations: recSvc,
			Symptoms:        symSvc,
			Dashboard:       service.NewDashboardService(apptSvc, recSvc, symSvc, opts),
			Sync:            service.NewSyncService(nil, symptoms, uow, opts),
			Import:          service.NewImportService(symptoms, uow, opts),
			Location:        time.UTC,
		},
		appointments: appointments,
		recs:         recs,
		symptoms:     symptoms,
	}
}

func (e testEnv) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.appointments.Upsert(ctx, testutil.NewTestAppointment("a1", testutil.WithReason("tremor review"))))
	require.NoError(t, e.recs.Upsert(ctx, testutil.NewTestRecommendation("r1", "Walk 20 minutes",
		testutil.WithPriority(domain.PriorityUrgent))))
	require.NoError(t, e.recs.Upsert(ctx, testutil.NewTestRecommendation("r2", "Adjust levodopa timing",
		testutil.WithSource(domain.SourceAI))))
}

func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAppointmentsList(t *testing.T) {
	env := testApp(t)
	env.seed(t)

	out, err := executeCmd(t, env.app, "appointments", "list", "--role", "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "a1")
	assert.Contains(t, out, "Pending")
	assert.Contains(t, out, "confirm")
}

func TestAppointmentsList_InvalidRoleFlag(t *testing.T) {
	env := testApp(t)
	_, err := executeCmd(t, env.app, "appointments", "list", "--role", "nurse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be patient or doctor")
}

func TestAppointmentsAct_Offline(t *testing.T) {
	env := testApp(t)
	env.seed(t)

	out, err := executeCmd(t, env.app, "appt", "act", "a1", "--action", "confirm", "--role", "doctor", "--note", "see you")
	require.NoError(t, err)
	assert.Contains(t, out, "Confirmed")
	assert.Contains(t, out, "offline, local mirror only")

	got, err := env.appointments.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentConfirmed, got.State)

	out, err = executeCmd(t, env.app, "appt", "history", "a1")
	require.NoError(t, err)
	assert.Contains(t, out, "CONFIRMED")
	assert.Contains(t, out, "see you")
}

func TestAppointmentsAct_AcceptsBackendStateName(t *testing.T) {
	env := testApp(t)
	env.seed(t)

	_, err := executeCmd(t, env.app, "appt", "act", "a1", "--to", "confirmada")
	require.NoError(t, err)

	got, err := env.appointments.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentConfirmed, got.State)
}

func TestAppointmentsAct_PatientCannotConfirm(t *testing.T) {
	env := testApp(t)
	env.seed(t)

	_, err := executeCmd(t, env.app, "appt", "act", "a1", "--action", "confirm", "--role", "patient")
	require.Error(t, err)

	got, err := env.appointments.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentPending, got.State)
}

func TestAppointmentsAct_RequiresActionWhenNotInteractive(t *testing.T) {
	env := testApp(t)
	env.seed(t)

	_, err := executeCmd(t, env.app, "appt", "act", "a1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one of --to or --action is required")
}

func TestAppointmentsAct_PicksActionInteractively(t *testing.T) {
	env := testApp(t)
	env.seed(t)

	var offered []domain.Action
	env.app.IsInteractive = func() bool { return true }
	env.app.PickAction = func(_ string, actions []domain.Action) (domain.Action, error) {
		offered = actions
		return domain.ActionReject, nil
	}

	_, err := executeCmd(t, env.app, "appt", "act", "a1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Action{domain.ActionConfirm, domain.ActionReject, domain.ActionCancel}, offered)

	got, err := env.appointments.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentRejected, got.State)
}

func TestAppointmentsAct_ToAndActionExclusive(t *testing.T) {
	env := testApp(t)
	env.seed(t)

	_, err := executeCmd(t, env.app, "appt", "act", "a1", "--to", "CONFIRMED", "--action", "confirm")
	require.Error(t, err)
}

func TestAppointmentsAct_RescheduleNeedsAt(t *testing.T) {
	env := testApp(t)
	ctx := context.Background()
	require.NoError(t, env.appointments.Upsert(ctx, testutil.NewTestAppointment("a1",
		testutil.WithAppointmentState(domain.AppointmentConfirmed))))

	_, err := executeCmd(t, env.app, "appt", "check", "a1", "--action", "reschedule", "--role", "doctor")
	assert.ErrorIs(t, err, domain.ErrInvalidSlot)
	_, err = executeCmd(t, env.app, "appt", "act", "a1", "--action", "reschedule", "--role", "doctor")
	assert.ErrorIs(t, err, domain.ErrInvalidSlot)

	out, err := executeCmd(t, env.app, "appt", "act", "a1", "--action", "reschedule", "--role", "doctor", "--at", "2031-01-06T10:30")
	require.NoError(t, err)
	assert.Contains(t, out, "Scheduled")

	got, err := env.appointments.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentScheduled, got.State)
	assert.Equal(t, time.Date(2031, 1, 6, 10, 30, 0, 0, time.UTC), got.ScheduledAt.UTC())
}

func TestAppointmentsCreate_Offline(t *testing.T) {
	env := testApp(t)
	ctx := context.Background()

	out, err := executeCmd(t, env.app, "appt", "create", "--patient", "p1", "--doctor", "d1",
		"--at", "2031-01-06T10:30", "--reason", "tremor review", "--now", "2031-01-01T09:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending")
	assert.Contains(t, out, "offline")

	list, err := env.appointments.List(ctx, repository.AppointmentFilter{SubjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, strings.HasPrefix(list[0].ID, domain.LocalIDPrefix))
	assert.Equal(t, domain.AppointmentPending, list[0].State)
	assert.Equal(t, "d1", list[0].CounterpartID)
	assert.Equal(t, time.Date(2031, 1, 6, 10, 30, 0, 0, time.UTC), list[0].ScheduledAt.UTC())
}

func TestAppointmentsCreate_RejectsPastSlot(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "appt", "create", "--patient", "p1", "--doctor", "d1",
		"--at", "2030-12-31T10:30", "--reason", "tremor review", "--now", "2031-01-01T09:00")
	assert.ErrorIs(t, err, domain.ErrInvalidSlot)

	_, err = executeCmd(t, env.app, "appt", "create", "--patient", "p1", "--at", "2031-01-06T10:30")
	require.Error(t, err)

	list, err := env.appointments.List(context.Background(), repository.AppointmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAppointmentsCheck(t *testing.T) {
	env := testApp(t)
	env.seed(t)

	out, err := executeCmd(t, env.app, "appt", "check", "a1", "--action", "cancel", "--role", "patient")
	require.NoError(t, err)
	assert.Contains(t, out, "Allowed")
	assert.Contains(t, out, "Cancelled")

	got, err := env.appointments.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentPending, got.State, "check must not write")

	_, err = executeCmd(t, env.app, "appt", "check", "a1")
	require.Error(t, err)
}

func TestAppointmentsActions(t *testing.T) {
	env := testApp(t)
	env.seed(t)

	out, err := executeCmd(t, env.app, "appt", "actions", "a1", "--role", "patient")
	require.NoError(t, err)
	assert.Contains(t, out, "cancel")
	assert.NotContains(t, out, "confirm")

	_, err = executeCmd(t, env.app, "appt", "actions", "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRecsList(t *testing.T) {
	env := testApp(t)
	env.seed(t)

	out, err := executeCmd(t, env.app, "recs", "list", "--role", "patient", "--patient", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "Walk 20 minutes")
	assert.NotContains(t, out, "Adjust levodopa timing", "pending AI advice is hidden from patients")

	out, err = executeCmd(t, env.app, "recs", "list", "--role", "doctor", "--pending")
	require.NoError(t, err)
	assert.Contains(t, out, "Review queue")
	assert.Contains(t, out, "Adjust levodopa timing")
	assert.NotContains(t, out, "Walk 20 minutes")
}

func TestRecsReviewAndComplete(t *testing.T) {
	env := testApp(t)
	env.seed(t)

	out, err := executeCmd(t, env.app, "recs", "review", "r2", "--modify", "--comment", "take it with food")
	require.NoError(t, err)
	assert.Contains(t, out, "Modified")
	assert.Contains(t, out, "take it with food")

	out, err = executeCmd(t, env.app, "recs", "complete", "r2")
	require.NoError(t, err)
	assert.Contains(t, out, "Marked")

	got, err := env.recs.GetByID(context.Background(), "r2")
	require.NoError(t, err)
	assert.Equal(t, domain.RecommendationModified, got.State)
	assert.True(t, got.Completed)

	_, err = executeCmd(t, env.app, "recs", "complete", "r2")
	require.Error(t, err)
}

func TestRecsReview_RequiresDecision(t *testing.T) {
	env := testApp(t)
	env.seed(t)

	_, err := executeCmd(t, env.app, "recs", "review", "r2")
	require.Error(t, err)

	_, err = executeCmd(t, env.app, "recs", "review", "r2", "--approve", "--reject")
	require.Error(t, err)
}

func TestSymptomsRecordStatsTrend(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "symptoms", "record", "--patient", "p1",
		"--tremor", "8", "--rigidity", "7", "--bradykinesia", "6", "--balance", "7",
		"--at", "2026-03-02T09:00")
	require.NoError(t, err)
	out, err := executeCmd(t, env.app, "symptoms", "record", "--patient", "p1",
		"--tremor", "3", "--rigidity", "3", "--bradykinesia", "2", "--balance", "4",
		"--at", "2026-03-05 09:00", "--notes", "better week")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded Mar 5 09:00")

	samples, err := env.symptoms.ListBySubject(context.Background(), "p1", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, samples, 2)

	out, err = executeCmd(t, env.app, "symptoms", "stats", "--patient", "p1", "--now", "2026-03-06T00:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Tremor")

	out, err = executeCmd(t, env.app, "symptoms", "trend", "--patient", "p1", "--now", "2026-03-06T00:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Improving")
}

func TestSymptomsRecord_Validation(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "symptoms", "record", "--patient", "p1",
		"--tremor", "11", "--rigidity", "1", "--bradykinesia", "1", "--balance", "1")
	require.Error(t, err)

	_, err = executeCmd(t, env.app, "symptoms", "record", "--tremor", "1")
	require.Error(t, err, "patient and every dimension are required")

	_, err = executeCmd(t, env.app, "symptoms", "trend", "--patient", "p1", "--epsilon", "-1")
	require.Error(t, err)
}

func TestDashboard(t *testing.T) {
	env := testApp(t)
	env.seed(t)

	out, err := executeCmd(t, env.app, "dashboard", "--role", "patient", "--id", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "Patient p1")
	assert.Contains(t, out, "Walk 20 minutes")

	out, err = executeCmd(t, env.app, "dashboard", "--role", "medico", "--id", "d1")
	require.NoError(t, err)
	assert.Contains(t, out, "Doctor d1")
	assert.Contains(t, out, "Adjust levodopa timing")

	_, err = executeCmd(t, env.app, "dashboard")
	require.Error(t, err)
}

func TestImportAndSync(t *testing.T) {
	env := testApp(t)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	snapshot := `{
	  "citas": [{"id": 7, "paciente": {"id": 1}, "doctor": {"id": 2}, "fechaHora": "2026-04-01T10:00:00", "estado": "PROGRAMADA", "motivo": "control"}],
	  "recomendaciones": [{"id": 9, "pacienteId": 1, "titulo": "Stretch daily", "prioridad": "ALTA", "origen": "SISTEMA"}],
	  "sintomas": []
	}`
	require.NoError(t, os.WriteFile(path, []byte(snapshot), 0o600))

	out, err := executeCmd(t, env.app, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Mirror updated")

	got, err := env.appointments.GetByID(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentScheduled, got.State)

	_, err = executeCmd(t, env.app, "sync")
	assert.ErrorIs(t, err, service.ErrOffline)
}

func TestRoleFlag(t *testing.T) {
	f := newRoleFlag(domain.RolePatient)
	assert.Equal(t, "patient", f.String())

	require.NoError(t, f.Set(" Medico "))
	assert.Equal(t, domain.RoleDoctor, f.role)
	require.NoError(t, f.Set("paciente"))
	assert.Equal(t, domain.RolePatient, f.role)
	assert.Error(t, f.Set("admin"))
}

func TestTimeFlag(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	f := newTimeFlag(func() *time.Location { return bogota })
	assert.Nil(t, f.Value())

	require.NoError(t, f.Set("2026-03-05 09:30"))
	require.NotNil(t, f.Value())
	assert.Equal(t, time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC), f.Value().UTC())

	require.NoError(t, f.Set("2026-03-05T09:30:00Z"))
	assert.Equal(t, time.Date(2026, 3, 5, 9, 30, 0, 0, time.UTC), f.Value().UTC())

	assert.Error(t, f.Set("tomorrow"))
}

func TestParseAction(t *testing.T) {
	assert.Equal(t, domain.ActionConfirm, parseAction(" Confirm "))
	assert.Equal(t, domain.ActionMarkCompleted, parseAction("mark-completed"))
}
