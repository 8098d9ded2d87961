package importer

import (
	"fmt"
	"time"
)

// ValidateSnapshot checks every record and returns all problems found.
// An empty result means ConvertSnapshot will succeed.
func ValidateSnapshot(s *Snapshot, loc *time.Location) []error {
	var errs []error

	seen := make(map[string]bool)
	for i, c := range s.Citas {
		if c.ID != "" {
			if seen[string(c.ID)] {
				errs = append(errs, fmt.Errorf("citas[%d]: duplicate id %q", i, c.ID))
			}
			seen[string(c.ID)] = true
		}
		if _, err := ConvertAppointment(c, loc); err != nil {
			errs = append(errs, fmt.Errorf("citas[%d]: %w", i, err))
		}
	}

	seen = make(map[string]bool)
	for i, r := range s.Recomendaciones {
		if r.ID != "" {
			if seen[string(r.ID)] {
				errs = append(errs, fmt.Errorf("recomendaciones[%d]: duplicate id %q", i, r.ID))
			}
			seen[string(r.ID)] = true
		}
		if _, err := ConvertRecommendation(r, loc); err != nil {
			errs = append(errs, fmt.Errorf("recomendaciones[%d]: %w", i, err))
		}
	}

	for i, sr := range s.Sintomas {
		if _, err := ConvertSymptom(sr, loc); err != nil {
			errs = append(errs, fmt.Errorf("sintomas[%d]: %w", i, err))
		}
	}

	return errs
}
