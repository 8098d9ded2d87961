package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/alexanderramin/careflow/internal/importer"
	"github.com/spf13/pflag"
)

// roleFlag is a pflag.Value that only accepts patient or doctor.
type roleFlag struct {
	role domain.ViewerRole
}

var _ pflag.Value = (*roleFlag)(nil)

func newRoleFlag(def domain.ViewerRole) *roleFlag {
	return &roleFlag{role: def}
}

func (f *roleFlag) String() string { return string(f.role) }
func (f *roleFlag) Type() string   { return "role" }

func (f *roleFlag) Set(s string) error {
	r := domain.ViewerRole(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case "paciente":
		r = domain.RolePatient
	case "medico", "médico":
		r = domain.RoleDoctor
	}
	if !r.IsValid() {
		return fmt.Errorf("must be patient or doctor")
	}
	f.role = r
	return nil
}

// timeFlag is a pflag.Value accepting the same layouts as backend
// timestamps. Zone-less values are read in the configured location.
type timeFlag struct {
	loc func() *time.Location
	t   *time.Time
}

var _ pflag.Value = (*timeFlag)(nil)

func newTimeFlag(loc func() *time.Location) *timeFlag {
	return &timeFlag{loc: loc}
}

func (f *timeFlag) String() string {
	if f.t == nil {
		return ""
	}
	return f.t.Format(time.RFC3339)
}

func (f *timeFlag) Type() string { return "time" }

func (f *timeFlag) Set(s string) error {
	t, err := importer.ParseTime(strings.Replace(s, " ", "T", 1), f.loc())
	if err != nil {
		return fmt.Errorf("want YYYY-MM-DDTHH:MM[:SS] or RFC 3339: %w", err)
	}
	f.t = &t
	return nil
}

// Value returns nil when the flag was not given.
func (f *timeFlag) Value() *time.Time { return f.t }

func parseAppointmentState(s string) (domain.AppointmentState, error) {
	st, ok := importer.ParseAppointmentState(s)
	if !ok {
		return "", domain.UnknownStateError(domain.EntityAppointment, "", s)
	}
	return st, nil
}

func parseAction(s string) domain.Action {
	a := domain.Action(strings.TrimSpace(s))
	if strings.EqualFold(string(a), string(domain.ActionMarkCompleted)) || strings.EqualFold(string(a), "mark-completed") {
		return domain.ActionMarkCompleted
	}
	return domain.Action(strings.ToLower(string(a)))
}
