// Package importer is the boundary adapter between the backend's JSON
// contract and the domain types. It is the only place where backend records
// are coerced; anything it cannot map fails closed.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// WireID accepts ids sent either as JSON numbers or strings.
type WireID string

func (id *WireID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = WireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = WireID(n.String())
	return nil
}

// PartyRef is a nested patient or doctor reference.
type PartyRef struct {
	ID     WireID `json:"id"`
	Nombre string `json:"nombre,omitempty"`
}

// CitaRecord is an appointment as the backend sends it.
type CitaRecord struct {
	ID            WireID    `json:"id"`
	PacienteID    WireID    `json:"pacienteId,omitempty"`
	Paciente      *PartyRef `json:"paciente,omitempty"`
	DoctorID      WireID    `json:"doctorId,omitempty"`
	Doctor        *PartyRef `json:"doctor,omitempty"`
	FechaHora     string    `json:"fechaHora"`
	Estado        string    `json:"estado"`
	Motivo        string    `json:"motivo,omitempty"`
	Notas         string    `json:"notas,omitempty"`
	FechaCreacion string    `json:"fechaCreacion,omitempty"`
}

// RecomendacionRecord is a recommendation as the backend sends it.
type RecomendacionRecord struct {
	ID               WireID    `json:"id"`
	PacienteID       WireID    `json:"pacienteId,omitempty"`
	Paciente         *PartyRef `json:"paciente,omitempty"`
	Titulo           string    `json:"titulo"`
	Descripcion      string    `json:"descripcion,omitempty"`
	Categoria        string    `json:"categoria,omitempty"`
	Prioridad        string    `json:"prioridad"`
	Estado           string    `json:"estado,omitempty"`
	Origen           string    `json:"origen,omitempty"`
	Completada       *bool     `json:"completada,omitempty"`
	ComentarioDoctor string    `json:"comentarioDoctor,omitempty"`
	FechaCreacion    string    `json:"fechaCreacion,omitempty"`
}

// SintomaRecord is a symptom self-report as the backend sends it.
type SintomaRecord struct {
	ID                  WireID    `json:"id"`
	PacienteID          WireID    `json:"pacienteId,omitempty"`
	Paciente            *PartyRef `json:"paciente,omitempty"`
	NivelTemblor        *int      `json:"nivelTemblor"`
	NivelRigidez        *int      `json:"nivelRigidez"`
	NivelBradicinesia   *int      `json:"nivelBradicinesia"`
	NivelEquilibrio     *int      `json:"nivelEquilibrio"`
	SintomasAdicionales string    `json:"sintomasAdicionales,omitempty"`
	Notas               string    `json:"notas,omitempty"`
	FechaRegistro       string    `json:"fechaRegistro"`
}

// NuevaCitaRecord is the body of an appointment request.
type NuevaCitaRecord struct {
	PacienteID string `json:"pacienteId,omitempty"`
	DoctorID   string `json:"doctorId"`
	FechaHora  string `json:"fechaHora"`
	Motivo     string `json:"motivo"`
	Notas      string `json:"notas"`
}

// NuevoSintomaRecord is the body of a symptom self-report.
type NuevoSintomaRecord struct {
	NivelTemblor        int    `json:"nivelTemblor"`
	NivelRigidez        int    `json:"nivelRigidez"`
	NivelBradicinesia   int    `json:"nivelBradicinesia"`
	NivelEquilibrio     int    `json:"nivelEquilibrio"`
	SintomasAdicionales string `json:"sintomasAdicionales"`
	Notas               string `json:"notas"`
	FechaRegistro       string `json:"fechaRegistro,omitempty"`
}

// Snapshot is a bundle of backend records, as exported to a file or
// assembled from several list calls.
type Snapshot struct {
	Citas           []CitaRecord          `json:"citas"`
	Recomendaciones []RecomendacionRecord `json:"recomendaciones"`
	Sintomas        []SintomaRecord       `json:"sintomas"`
}

// LoadSnapshotFile reads and parses a snapshot JSON file.
func LoadSnapshotFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot file: %w", err)
	}
	return &snap, nil
}

func partyID(flat WireID, nested *PartyRef) string {
	if nested != nil && nested.ID != "" {
		return string(nested.ID)
	}
	return string(flat)
}
