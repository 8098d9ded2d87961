// Package backend talks to the care-coordination REST API. It moves wire
// records only; conversion to domain types happens in the importer.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/alexanderramin/careflow/internal/importer"
)

// Client is the subset of the backend API careflow uses.
type Client interface {
	ListAppointments(ctx context.Context) ([]importer.CitaRecord, error)
	ListRecommendations(ctx context.Context, patientID string) ([]importer.RecomendacionRecord, error)
	ListSymptoms(ctx context.Context, patientID string) ([]importer.SintomaRecord, error)

	CreateAppointment(ctx context.Context, body importer.NuevaCitaRecord) (*importer.CitaRecord, error)
	UpdateAppointmentState(ctx context.Context, id, wireState string) (*importer.CitaRecord, error)
	CancelAppointment(ctx context.Context, id string) (*importer.CitaRecord, error)
	RescheduleAppointment(ctx context.Context, id string, at time.Time) (*importer.CitaRecord, error)

	ReviewRecommendation(ctx context.Context, id, wireState, comment string) (*importer.RecomendacionRecord, error)
	CompleteRecommendation(ctx context.Context, id string) (*importer.RecomendacionRecord, error)

	// RecordSymptom uploads a self-report. An empty patientID reports for the
	// token holder; otherwise a doctor reports for that patient.
	RecordSymptom(ctx context.Context, patientID string, body importer.NuevoSintomaRecord) (*importer.SintomaRecord, error)
}

// Config holds connection settings for the REST client.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	// Location renders outbound date-times, which the backend reads as
	// zone-less local values.
	Location *time.Location
}

// envelope is the response wrapper used by every endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type restClient struct {
	http     *resty.Client
	loc      *time.Location
	observer Observer
}

// NewClient creates a Client backed by resty.
func NewClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	hc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		hc.SetAuthToken(cfg.Token)
	}

	return &restClient{http: hc, loc: loc, observer: observer}
}

func (c *restClient) ListAppointments(ctx context.Context) ([]importer.CitaRecord, error) {
	var out []importer.CitaRecord
	if err := c.call(ctx, http.MethodGet, "/api/citas/mis-citas", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *restClient) ListRecommendations(ctx context.Context, patientID string) ([]importer.RecomendacionRecord, error) {
	path := "/api/recomendaciones"
	params := map[string]string{}
	if patientID != "" {
		path = "/api/recomendaciones/paciente/{id}"
		params["id"] = patientID
	}
	var out []importer.RecomendacionRecord
	if err := c.call(ctx, http.MethodGet, path, params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *restClient) ListSymptoms(ctx context.Context, patientID string) ([]importer.SintomaRecord, error) {
	path := "/api/sintomas"
	params := map[string]string{}
	if patientID != "" {
		path = "/api/sintomas/paciente/{id}"
		params["id"] = patientID
	}
	var out []importer.SintomaRecord
	if err := c.call(ctx, http.MethodGet, path, params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *restClient) CreateAppointment(ctx context.Context, body importer.NuevaCitaRecord) (*importer.CitaRecord, error) {
	var out importer.CitaRecord
	if err := c.call(ctx, http.MethodPost, "/api/citas", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *restClient) UpdateAppointmentState(ctx context.Context, id, wireState string) (*importer.CitaRecord, error) {
	var out importer.CitaRecord
	body := map[string]string{"nuevoEstado": wireState}
	if err := c.call(ctx, http.MethodPut, "/api/citas/{id}/estado", idParam(id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *restClient) CancelAppointment(ctx context.Context, id string) (*importer.CitaRecord, error) {
	var out importer.CitaRecord
	if err := c.call(ctx, http.MethodPut, "/api/citas/{id}/cancelar", idParam(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *restClient) RescheduleAppointment(ctx context.Context, id string, at time.Time) (*importer.CitaRecord, error) {
	var out importer.CitaRecord
	body := map[string]string{"nuevaFechaHora": importer.FormatTime(at, c.loc)}
	if err := c.call(ctx, http.MethodPut, "/api/citas/{id}/reprogramar", idParam(id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *restClient) ReviewRecommendation(ctx context.Context, id, wireState, comment string) (*importer.RecomendacionRecord, error) {
	var out importer.RecomendacionRecord
	body := map[string]string{"estado": wireState}
	if comment != "" {
		body["comentarioDoctor"] = comment
	}
	if err := c.call(ctx, http.MethodPut, "/api/recomendaciones/{id}/revision", idParam(id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *restClient) CompleteRecommendation(ctx context.Context, id string) (*importer.RecomendacionRecord, error) {
	var out importer.RecomendacionRecord
	if err := c.call(ctx, http.MethodPut, "/api/recomendaciones/{id}/completar", idParam(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *restClient) RecordSymptom(ctx context.Context, patientID string, body importer.NuevoSintomaRecord) (*importer.SintomaRecord, error) {
	path := "/api/sintomas"
	params := map[string]string{}
	if patientID != "" {
		path = "/api/sintomas/paciente/{id}"
		params["id"] = patientID
	}
	var out importer.SintomaRecord
	if err := c.call(ctx, http.MethodPost, path, params, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func idParam(id string) map[string]string {
	return map[string]string{"id": id}
}

// call performs one request, unwraps the envelope into out and reports the
// outcome to the observer.
func (c *restClient) call(ctx context.Context, method, path string, params map[string]string, body any, out any) error {
	start := time.Now()
	event := CallEvent{Method: method, Path: path}

	err := c.do(ctx, method, path, params, body, out, &event)

	event.LatencyMs = time.Since(start).Milliseconds()
	event.Success = err == nil
	if err != nil {
		event.ErrorCode = errorCode(err)
	}
	c.observer.OnCallComplete(event)
	return err
}

func (c *restClient) do(ctx context.Context, method, path string, params map[string]string, body any, out any, event *CallEvent) error {
	req := c.http.R().SetContext(ctx).SetPathParams(params)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		if isTimeout(ctx, err) {
			return fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
		}
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrUnavailable, err)
	}
	event.Status = resp.StatusCode()

	var env envelope
	decodeErr := json.Unmarshal(resp.Body(), &env)

	if resp.IsError() {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		return &RejectedError{Status: resp.StatusCode(), Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrInvalidResponse, decodeErr)
	}
	if !env.Success {
		return &RejectedError{Status: resp.StatusCode(), Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrInvalidResponse, err)
	}
	return nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrRejected):
		return "rejected"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	default:
		return "unknown"
	}
}
