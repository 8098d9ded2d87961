package formatter

import (
	"github.com/alexanderramin/careflow/internal/domain"
)

type tone int

const (
	toneMuted tone = iota
	toneGood
	toneWarn
	toneBad
	toneInfo
	toneAccent
)

// label is the display entry for one enumerated value: the pill glyph, the
// short text, its color, and the sentence shown after a change into it.
type label struct {
	glyph   string
	text    string
	tone    tone
	message string
}

var appointmentLabels = map[domain.AppointmentState]label{
	domain.AppointmentPending:     {"○", "Pending", toneWarn, "Waiting for the doctor to confirm."},
	domain.AppointmentConfirmed:   {"●", "Confirmed", toneGood, "The appointment is confirmed."},
	domain.AppointmentScheduled:   {"◆", "Scheduled", toneInfo, "The appointment is on the calendar."},
	domain.AppointmentRescheduled: {"↻", "Rescheduled", toneAccent, "The new time needs confirmation."},
	domain.AppointmentCompleted:   {"✔", "Completed", toneMuted, "The visit took place."},
	domain.AppointmentCancelled:   {"✖", "Cancelled", toneBad, "The appointment was cancelled."},
	domain.AppointmentRejected:    {"⊘", "Rejected", toneBad, "The doctor declined the request."},
}

var recommendationLabels = map[domain.RecommendationState]label{
	domain.RecommendationPendingApproval: {"○", "Pending review", toneWarn, "Waiting for physician review."},
	domain.RecommendationApproved:        {"●", "Approved", toneGood, "Approved and visible to the patient."},
	domain.RecommendationModified:        {"◐", "Modified", toneInfo, "Approved with changes; visible to the patient."},
	domain.RecommendationActive:          {"●", "Active", toneGood, "In effect for the patient."},
	domain.RecommendationRejected:        {"✖", "Rejected", toneBad, "Withheld from the patient."},
}

var priorityLabels = map[domain.Priority]label{
	domain.PriorityLow:    {"▽", "Low", toneMuted, ""},
	domain.PriorityMedium: {"◇", "Medium", toneInfo, ""},
	domain.PriorityHigh:   {"△", "High", toneWarn, ""},
	domain.PriorityUrgent: {"▲", "Urgent", toneBad, ""},
}

var trendLabels = map[domain.Trend]label{
	domain.TrendImproving: {"↓", "Improving", toneGood, "Symptoms are easing."},
	domain.TrendStable:    {"→", "Stable", toneInfo, "No meaningful change."},
	domain.TrendWorsening: {"↑", "Worsening", toneBad, "Symptoms are getting worse."},
}

var actionLabels = map[domain.Action]string{
	domain.ActionConfirm:       "Confirm",
	domain.ActionReject:        "Reject",
	domain.ActionCancel:        "Cancel",
	domain.ActionComplete:      "Mark as attended",
	domain.ActionReschedule:    "Reschedule",
	domain.ActionApprove:       "Approve",
	domain.ActionModify:        "Approve with changes",
	domain.ActionMarkCompleted: "Mark as done",
}

var dimensionLabels = map[domain.SymptomDimension]string{
	domain.DimensionTremor:       "Tremor",
	domain.DimensionRigidity:     "Rigidity",
	domain.DimensionBradykinesia: "Bradykinesia",
	domain.DimensionBalance:      "Balance",
}

func (l label) pill() string {
	return toneStyle(l.tone).Render(l.glyph + " " + l.text)
}

func unknownPill(raw string) string {
	return StyleDim.Render("? " + raw)
}

// AppointmentPill returns the colored state indicator, e.g. "● Confirmed".
func AppointmentPill(s domain.AppointmentState) string {
	if l, ok := appointmentLabels[s]; ok {
		return l.pill()
	}
	return unknownPill(string(s))
}

func AppointmentLabel(s domain.AppointmentState) string {
	if l, ok := appointmentLabels[s]; ok {
		return l.text
	}
	return string(s)
}

// AppointmentMessage is the sentence shown after moving into s.
func AppointmentMessage(s domain.AppointmentState) string {
	return appointmentLabels[s].message
}

func RecommendationPill(s domain.RecommendationState) string {
	if l, ok := recommendationLabels[s]; ok {
		return l.pill()
	}
	return unknownPill(string(s))
}

func RecommendationLabel(s domain.RecommendationState) string {
	if l, ok := recommendationLabels[s]; ok {
		return l.text
	}
	return string(s)
}

func RecommendationMessage(s domain.RecommendationState) string {
	return recommendationLabels[s].message
}

func PriorityBadge(p domain.Priority) string {
	if l, ok := priorityLabels[p]; ok {
		return l.pill()
	}
	return unknownPill(string(p))
}

// TrendIndicator renders the arrow and label for a trend, e.g. "↓ Improving".
func TrendIndicator(t domain.Trend) string {
	if l, ok := trendLabels[t]; ok {
		return l.pill()
	}
	return unknownPill(string(t))
}

func TrendMessage(t domain.Trend) string {
	return trendLabels[t].message
}

func ActionLabel(a domain.Action) string {
	if s, ok := actionLabels[a]; ok {
		return s
	}
	return string(a)
}

func DimensionLabel(d domain.SymptomDimension) string {
	if s, ok := dimensionLabels[d]; ok {
		return s
	}
	return string(d)
}
