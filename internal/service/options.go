package service

import (
	"errors"
	"time"

	"github.com/alexanderramin/careflow/internal/workflow"
)

// ErrOffline is returned by use cases that need the backend when none is
// configured.
var ErrOffline = errors.New("backend disabled (offline mode)")

// Options carries the runtime settings shared by the services.
type Options struct {
	Workflow  workflow.Config
	TrendDays int
	Location  *time.Location
	// Offline applies transitions to the mirror only.
	Offline bool
	// ConfirmationGated starts new appointments as PENDING instead of SCHEDULED.
	ConfirmationGated bool
	// Now overrides the clock in tests.
	Now func() time.Time
}

func DefaultOptions() Options {
	return Options{
		Workflow:          workflow.DefaultConfig(),
		TrendDays:         7,
		Location:          time.Local,
		ConfirmationGated: true,
	}
}

func (o Options) now(override *time.Time) time.Time {
	if override != nil {
		return *override
	}
	if o.Now != nil {
		return o.Now()
	}
	return time.Now().In(o.location())
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o Options) trendDays(days int) int {
	if days > 0 {
		return days
	}
	if o.TrendDays > 0 {
		return o.TrendDays
	}
	return 7
}
