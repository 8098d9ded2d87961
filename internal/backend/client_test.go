package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/careflow/internal/importer"
)

type recordingObserver struct {
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) { o.events = append(o.events, e) }

func writeEnvelope(w http.ResponseWriter, status int, success bool, msg string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": success, "message": msg, "data": data})
}

func testClient(url string, obs Observer) Client {
	return NewClient(Config{
		BaseURL:  url,
		Token:    "tkn",
		Timeout:  2 * time.Second,
		Location: time.UTC,
	}, obs)
}

func TestListAppointments_DecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/citas/mis-citas", r.URL.Path)
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		writeEnvelope(w, http.StatusOK, true, "ok", []map[string]any{
			{"id": 1, "fechaHora": "2025-03-15T10:00:00", "estado": "PENDIENTE", "doctor": map[string]any{"id": 4}},
		})
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	got, err := testClient(srv.URL, obs).ListAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", string(got[0].ID))
	assert.Equal(t, "PENDIENTE", got[0].Estado)

	require.Len(t, obs.events, 1)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, http.StatusOK, obs.events[0].Status)
	assert.Equal(t, "/api/citas/mis-citas", obs.events[0].Path)
}

func TestListRecommendations_PatientPath(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writeEnvelope(w, http.StatusOK, true, "", []any{})
	}))
	defer srv.Close()

	c := testClient(srv.URL, NoopObserver{})
	_, err := c.ListRecommendations(context.Background(), "")
	require.NoError(t, err)
	_, err = c.ListRecommendations(context.Background(), "7")
	require.NoError(t, err)
	_, err = c.ListSymptoms(context.Background(), "7")
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/recomendaciones", "/api/recomendaciones/paciente/7", "/api/sintomas/paciente/7"}, paths)
}

func TestUpdateAppointmentState_SendsWireState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/citas/12/estado", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "CONFIRMADA", body["nuevoEstado"])
		writeEnvelope(w, http.StatusOK, true, "Estado actualizado", map[string]any{
			"id": 12, "fechaHora": "2025-03-15T10:00:00", "estado": "CONFIRMADA",
		})
	}))
	defer srv.Close()

	rec, err := testClient(srv.URL, nil).UpdateAppointmentState(context.Background(), "12", "CONFIRMADA")
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMADA", rec.Estado)
}

func TestRescheduleAppointment_FormatsZonelessTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/citas/3/reprogramar", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2025-03-20T09:30:00", body["nuevaFechaHora"])
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{"id": 3, "fechaHora": body["nuevaFechaHora"], "estado": "REPROGRAMADA"})
	}))
	defer srv.Close()

	at := time.Date(2025, 3, 20, 9, 30, 0, 0, time.UTC)
	rec, err := testClient(srv.URL, nil).RescheduleAppointment(context.Background(), "3", at)
	require.NoError(t, err)
	assert.Equal(t, "REPROGRAMADA", rec.Estado)
}

func TestCreateAppointment_PostsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/citas", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "4", body["doctorId"])
		assert.Equal(t, "2030-05-01T09:00:00", body["fechaHora"])
		assert.Equal(t, "control mensual", body["motivo"])
		assert.Equal(t, "", body["notas"])
		writeEnvelope(w, http.StatusCreated, true, "Cita creada", map[string]any{
			"id": 31, "pacienteId": 7, "doctorId": 4, "fechaHora": body["fechaHora"], "estado": "PENDIENTE",
		})
	}))
	defer srv.Close()

	rec, err := testClient(srv.URL, nil).CreateAppointment(context.Background(), importer.NuevaCitaRecord{
		PacienteID: "7", DoctorID: "4", FechaHora: "2030-05-01T09:00:00", Motivo: "control mensual",
	})
	require.NoError(t, err)
	assert.Equal(t, "31", string(rec.ID))
	assert.Equal(t, "PENDIENTE", rec.Estado)
}

func TestRecordSymptom_SelfAndPatientPaths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 6, body["nivelTemblor"])
		assert.Equal(t, "", body["sintomasAdicionales"])
		writeEnvelope(w, http.StatusOK, true, "Síntomas registrados", map[string]any{
			"id": 90, "nivelTemblor": 6, "nivelRigidez": 2, "nivelBradicinesia": 3, "nivelEquilibrio": 1,
			"fechaRegistro": "2025-03-15T08:00:00",
		})
	}))
	defer srv.Close()

	body := importer.NuevoSintomaRecord{NivelTemblor: 6, NivelRigidez: 2, NivelBradicinesia: 3, NivelEquilibrio: 1}
	c := testClient(srv.URL, nil)
	rec, err := c.RecordSymptom(context.Background(), "", body)
	require.NoError(t, err)
	assert.Equal(t, "90", string(rec.ID))
	_, err = c.RecordSymptom(context.Background(), "7", body)
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/sintomas", "/api/sintomas/paciente/7"}, paths)
}

func TestReviewRecommendation_OmitsEmptyComment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "APROBADA", body["estado"])
		_, has := body["comentarioDoctor"]
		assert.False(t, has)
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{"id": 2, "prioridad": "ALTA", "estado": "APROBADA"})
	}))
	defer srv.Close()

	rec, err := testClient(srv.URL, nil).ReviewRecommendation(context.Background(), "2", "APROBADA", "")
	require.NoError(t, err)
	assert.Equal(t, "APROBADA", rec.Estado)
}

func TestCall_SuccessFalseIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, false, "No se puede cancelar con menos de 2 horas", nil)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	_, err := testClient(srv.URL, obs).CancelAppointment(context.Background(), "1")
	require.ErrorIs(t, err, ErrRejected)
	var rej *RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Contains(t, rej.Message, "menos de 2 horas")

	require.Len(t, obs.events, 1)
	assert.False(t, obs.events[0].Success)
	assert.Equal(t, "rejected", obs.events[0].ErrorCode)
}

func TestCall_HTTPErrorIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusForbidden, false, "Acceso denegado", nil)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, nil).CompleteRecommendation(context.Background(), "1")
	var rej *RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, http.StatusForbidden, rej.Status)
	assert.Equal(t, "Acceso denegado", rej.Message)
}

func TestCall_InvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, nil).ListAppointments(context.Background())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestCall_Unavailable(t *testing.T) {
	obs := &recordingObserver{}
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, obs)
	_, err := c.ListAppointments(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	require.Len(t, obs.events, 1)
	assert.Equal(t, "unavailable", obs.events[0].ErrorCode)
}

func TestCall_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		writeEnvelope(w, http.StatusOK, true, "", []any{})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	_, err := c.ListAppointments(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestLogObserver_WritesLine(t *testing.T) {
	var buf bytes.Buffer
	NewLogObserver(&buf).OnCallComplete(CallEvent{Method: "GET", Path: "/api/sintomas", Status: 500, Success: false, ErrorCode: "rejected"})
	assert.Contains(t, buf.String(), "backend_call method=GET path=/api/sintomas http=500")
	assert.Contains(t, buf.String(), "status=err:rejected")
}
