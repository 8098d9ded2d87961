package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/careflow/internal/domain"
)

// Backend timestamps are usually zone-less local date-times; zoned values
// are accepted too.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime parses a wire timestamp. Zone-less values are read in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// FormatTime renders t the way the backend expects zone-less date-times.
func FormatTime(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("2006-01-02T15:04:05")
}

func optionalTime(s string, loc *time.Location) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := ParseTime(s, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ConvertAppointment maps a backend appointment onto the domain type.
// Unknown states fail closed.
func ConvertAppointment(rec CitaRecord, loc *time.Location) (domain.Appointment, error) {
	id := string(rec.ID)
	if id == "" {
		return domain.Appointment{}, fmt.Errorf("cita: missing id: %w", domain.ErrMalformedEntity)
	}
	if strings.TrimSpace(rec.Estado) == "" {
		return domain.Appointment{}, fmt.Errorf("cita %s: missing estado: %w", id, domain.ErrMalformedEntity)
	}
	state, ok := ParseAppointmentState(rec.Estado)
	if !ok {
		return domain.Appointment{}, domain.UnknownStateError(domain.EntityAppointment, id, rec.Estado)
	}
	at, err := ParseTime(rec.FechaHora, loc)
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("cita %s: fechaHora: %v: %w", id, err, domain.ErrMalformedEntity)
	}

	a := domain.Appointment{
		ID:            id,
		SubjectID:     partyID(rec.PacienteID, rec.Paciente),
		CounterpartID: partyID(rec.DoctorID, rec.Doctor),
		ScheduledAt:   at,
		State:         state,
		Reason:        strings.TrimSpace(rec.Motivo),
		Notes:         strings.TrimSpace(rec.Notas),
		CreatedAt:     optionalTime(rec.FechaCreacion, loc),
	}
	// Older exports omit fechaCreacion; the booked slot is the earliest
	// time the mirror can vouch for.
	if a.CreatedAt.IsZero() {
		a.CreatedAt = at
	}
	if err := a.Validate(); err != nil {
		return domain.Appointment{}, err
	}
	return a, nil
}

// ConvertRecommendation maps a backend recommendation onto the domain type.
// A record without estado takes the initial state for its origen; a record
// with neither is malformed.
func ConvertRecommendation(rec RecomendacionRecord, loc *time.Location) (domain.Recommendation, error) {
	id := string(rec.ID)
	if id == "" {
		return domain.Recommendation{}, fmt.Errorf("recomendacion: missing id: %w", domain.ErrMalformedEntity)
	}

	var src domain.Source
	if strings.TrimSpace(rec.Origen) != "" {
		s, ok := ParseSource(rec.Origen)
		if !ok {
			return domain.Recommendation{}, domain.UnknownStateError(domain.EntityRecommendation, id, rec.Origen)
		}
		src = s
	}

	var state domain.RecommendationState
	switch {
	case strings.TrimSpace(rec.Estado) != "":
		s, ok := ParseRecommendationState(rec.Estado)
		if !ok {
			return domain.Recommendation{}, domain.UnknownStateError(domain.EntityRecommendation, id, rec.Estado)
		}
		state = s
	case src != "":
		state = domain.InitialRecommendationState(src)
	default:
		return domain.Recommendation{}, fmt.Errorf("recomendacion %s: missing estado and origen: %w", id, domain.ErrMalformedEntity)
	}

	priority, ok := ParsePriority(domain.CoalesceStr(rec.Prioridad, string(domain.PriorityMedium)))
	if !ok {
		return domain.Recommendation{}, domain.UnknownStateError(domain.EntityRecommendation, id, rec.Prioridad)
	}

	r := domain.Recommendation{
		ID:              id,
		SubjectID:       partyID(rec.PacienteID, rec.Paciente),
		Title:           strings.TrimSpace(rec.Titulo),
		Description:     strings.TrimSpace(rec.Descripcion),
		Category:        ParseCategory(rec.Categoria),
		State:           state,
		Priority:        priority,
		Source:          src,
		Completed:       domain.BoolFromPtrWithDefault(false, rec.Completada),
		ReviewerComment: strings.TrimSpace(rec.ComentarioDoctor),
		CreatedAt:       optionalTime(rec.FechaCreacion, loc),
	}
	if err := r.Validate(); err != nil {
		return domain.Recommendation{}, err
	}
	return r, nil
}

// ConvertSymptom maps a backend self-report onto the domain type. Missing
// dimensions become zero and are rejected by range validation.
func ConvertSymptom(rec SintomaRecord, loc *time.Location) (domain.SymptomSample, error) {
	id := string(rec.ID)
	at, err := ParseTime(rec.FechaRegistro, loc)
	if err != nil {
		return domain.SymptomSample{}, fmt.Errorf("sintoma %s: fechaRegistro: %v: %w", id, err, domain.ErrMalformedEntity)
	}
	s := domain.SymptomSample{
		ID:                 id,
		SubjectID:          partyID(rec.PacienteID, rec.Paciente),
		Tremor:             domain.IntFromPtrWithDefault(0, rec.NivelTemblor),
		Rigidity:           domain.IntFromPtrWithDefault(0, rec.NivelRigidez),
		Bradykinesia:       domain.IntFromPtrWithDefault(0, rec.NivelBradicinesia),
		Balance:            domain.IntFromPtrWithDefault(0, rec.NivelEquilibrio),
		AdditionalSymptoms: strings.TrimSpace(rec.SintomasAdicionales),
		Notes:              strings.TrimSpace(rec.Notas),
		RecordedAt:         at,
	}
	if err := s.Validate(); err != nil {
		return domain.SymptomSample{}, err
	}
	return s, nil
}

// ToWireNewAppointment renders a requested appointment as the create body.
func ToWireNewAppointment(a domain.Appointment, loc *time.Location) NuevaCitaRecord {
	return NuevaCitaRecord{
		PacienteID: a.SubjectID,
		DoctorID:   a.CounterpartID,
		FechaHora:  FormatTime(a.ScheduledAt, loc),
		Motivo:     a.Reason,
		Notas:      a.Notes,
	}
}

// ToWireNewSymptom renders a sample as the self-report body. The original
// recording time travels along so uploads from offline sessions keep it.
func ToWireNewSymptom(s domain.SymptomSample, loc *time.Location) NuevoSintomaRecord {
	rec := NuevoSintomaRecord{
		NivelTemblor:        s.Tremor,
		NivelRigidez:        s.Rigidity,
		NivelBradicinesia:   s.Bradykinesia,
		NivelEquilibrio:     s.Balance,
		SintomasAdicionales: s.AdditionalSymptoms,
		Notas:               s.Notes,
	}
	if !s.RecordedAt.IsZero() {
		rec.FechaRegistro = FormatTime(s.RecordedAt, loc)
	}
	return rec
}

// Converted holds the domain records produced from a snapshot.
type Converted struct {
	Appointments    []domain.Appointment
	Recommendations []domain.Recommendation
	Symptoms        []domain.SymptomSample
}

// ConvertSnapshot converts every record in s. It stops at the first record
// that cannot be converted; call ValidateSnapshot first to see them all.
func ConvertSnapshot(s *Snapshot, loc *time.Location) (*Converted, error) {
	out := &Converted{
		Appointments:    make([]domain.Appointment, 0, len(s.Citas)),
		Recommendations: make([]domain.Recommendation, 0, len(s.Recomendaciones)),
		Symptoms:        make([]domain.SymptomSample, 0, len(s.Sintomas)),
	}
	for _, c := range s.Citas {
		a, err := ConvertAppointment(c, loc)
		if err != nil {
			return nil, err
		}
		out.Appointments = append(out.Appointments, a)
	}
	for _, rc := range s.Recomendaciones {
		r, err := ConvertRecommendation(rc, loc)
		if err != nil {
			return nil, err
		}
		out.Recommendations = append(out.Recommendations, r)
	}
	for _, sr := range s.Sintomas {
		sample, err := ConvertSymptom(sr, loc)
		if err != nil {
			return nil, err
		}
		out.Symptoms = append(out.Symptoms, sample)
	}
	return out, nil
}
