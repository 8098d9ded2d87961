package app

import "time"

type DashboardRequest struct {
	ID  string
	Now *time.Time
}

type PatientDashboard struct {
	SubjectID       string
	GeneratedAt     time.Time
	Appointments    *BoardResponse
	Recommendations *FeedResponse
	Symptoms        *SymptomStatsResponse
	Trend           *TrendResponse
}

type DoctorDashboard struct {
	CounterpartID string
	GeneratedAt   time.Time
	Appointments  *BoardResponse
	ReviewQueue   *FeedResponse
}

// SyncResult counts the records written to the mirror by a sync or import.
type SyncResult struct {
	Source          string
	Appointments    int
	Recommendations int
	Symptoms        int
	// Uploaded counts local samples sent to the backend before the pull.
	Uploaded int
	// LocalPending counts locally recorded samples the backend has not seen.
	LocalPending int
}
