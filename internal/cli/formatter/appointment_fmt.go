package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/careflow/internal/app"
	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/alexanderramin/careflow/internal/workflow"
)

// FormatBoard renders the appointment board for one viewer.
func FormatBoard(resp *app.BoardResponse) string {
	var b strings.Builder

	b.WriteString(formatAppointmentStats(resp.Stats))
	b.WriteString("\n")

	if resp.Next != nil {
		next := resp.Next.Appointment
		b.WriteString(Bold("Next: "))
		b.WriteString(fmt.Sprintf("%s  %s  %s\n\n",
			WhenStyled(next.ScheduledAt, resp.GeneratedAt),
			AppointmentPill(next.State),
			Dim(Preview(next.Reason, 40))))
	}

	if len(resp.Items) == 0 {
		b.WriteString(Dim(emptyBoardMessage(resp.Filter)))
		b.WriteString("\n")
		return RenderBox(boardTitle(resp), b.String())
	}

	headers := []string{"ID", "WHEN", "STATE", boardPartyHeader(resp.Role), "REASON", "ACTIONS"}
	rows := make([][]string, 0, len(resp.Items))
	for _, v := range resp.Items {
		a := v.Appointment
		id := a.ID
		if v.Today {
			id = StyleHeader.Render("★ ") + id
		}
		party := a.CounterpartID
		if resp.Role == domain.RoleDoctor {
			party = a.SubjectID
		}
		rows = append(rows, []string{
			id,
			WhenStyled(a.ScheduledAt, resp.GeneratedAt),
			AppointmentPill(a.State),
			party,
			Preview(a.Reason, 32),
			FormatActions(v.Actions),
		})
	}
	b.WriteString(RenderTable(headers, rows))
	return RenderBox(boardTitle(resp), b.String())
}

func boardTitle(resp *app.BoardResponse) string {
	if resp.Filter == "" || resp.Filter == "all" {
		return "Appointments"
	}
	return "Appointments · " + resp.Filter
}

func boardPartyHeader(role domain.ViewerRole) string {
	if role == domain.RoleDoctor {
		return "PATIENT"
	}
	return "DOCTOR"
}

func emptyBoardMessage(filter string) string {
	switch strings.ToLower(filter) {
	case "today":
		return "No appointments today."
	case "pending":
		return "Nothing is waiting for confirmation."
	case "upcoming":
		return "No upcoming appointments."
	}
	return "No appointments found."
}

func formatAppointmentStats(st workflow.AppointmentStats) string {
	parts := []string{
		fmt.Sprintf("%s total", Bold(fmt.Sprint(st.Total))),
		fmt.Sprintf("%s today", StyleHeader.Render(fmt.Sprint(st.Today))),
		fmt.Sprintf("%s pending", StyleYellow.Render(fmt.Sprint(st.Pending))),
		fmt.Sprintf("%s upcoming", StyleGreen.Render(fmt.Sprint(st.Upcoming))),
	}
	line := strings.Join(parts, Dim("  ·  ")) + "\n"

	var states []string
	for _, s := range domain.AppointmentStates {
		if n := st.ByState[s]; n > 0 {
			states = append(states, fmt.Sprintf("%s %d", AppointmentLabel(s), n))
		}
	}
	if len(states) > 0 {
		line += Dim(strings.Join(states, "  ")) + "\n"
	}
	return line
}

// FormatCheck renders a dry-run transition result.
func FormatCheck(res *app.CheckResult) string {
	fields := [][2]string{
		{"Appointment", res.Appointment.ID},
		{"Change", AppointmentPill(res.From) + Dim("  →  ") + AppointmentPill(res.To)},
		{"Lead time", FormatHours(res.HoursUntil)},
	}
	return StyleGreen.Render("✔ Allowed") + "\n" + RenderFields(fields)
}

// FormatTransition renders the outcome of an applied transition.
func FormatTransition(resp *app.TransitionResponse) string {
	mode := "synced with backend"
	if resp.Offline {
		mode = "offline, local mirror only"
	}
	fields := [][2]string{
		{"Appointment", resp.Appointment.ID},
		{"Change", AppointmentPill(resp.From) + Dim("  →  ") + AppointmentPill(resp.To)},
		{"When", resp.Appointment.ScheduledAt.Format("Mon Jan 2 2006 15:04")},
		{"Mode", Dim(mode)},
		{"Log", TruncID(resp.LogID)},
	}
	return RenderFields(fields) + AppointmentMessage(resp.To) + "\n"
}

// FormatBooking renders a newly requested appointment.
func FormatBooking(resp *app.CreateAppointmentResponse) string {
	mode := "synced with backend"
	if resp.Offline {
		mode = "offline, local mirror only"
	}
	a := resp.Appointment
	fields := [][2]string{
		{"Appointment", a.ID},
		{"State", AppointmentPill(a.State)},
		{"When", a.ScheduledAt.Format("Mon Jan 2 2006 15:04")},
		{"Patient", a.SubjectID},
		{"Doctor", a.CounterpartID},
		{"Reason", a.Reason},
		{"Mode", Dim(mode)},
	}
	return RenderFields(fields) + AppointmentMessage(a.State) + "\n"
}

// FormatHistory renders transition log entries oldest first.
func FormatHistory(entries []domain.TransitionRecord) string {
	if len(entries) == 0 {
		return Dim("No recorded changes.") + "\n"
	}
	headers := []string{"WHEN", "FROM", "TO", "ACTION", "BY", "NOTE"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		by := string(e.ActorRole)
		if e.Offline {
			by += Dim(" (offline)")
		}
		rows = append(rows, []string{
			e.OccurredAt.Local().Format("Jan 2 15:04"),
			e.From,
			e.To,
			string(e.Action),
			by,
			Dim(Preview(e.Note, 40)),
		})
	}
	return RenderTable(headers, rows)
}

// FormatActionList renders the actions one viewer may take, with labels.
func FormatActionList(id string, state domain.AppointmentState, actions []domain.Action) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", Bold(id), AppointmentPill(state)))
	if len(actions) == 0 {
		b.WriteString(Dim("No actions available.") + "\n")
		return b.String()
	}
	for _, a := range actions {
		b.WriteString(fmt.Sprintf("  %s  %s\n", StyleBlue.Render(string(a)), Dim(ActionLabel(a))))
	}
	return b.String()
}
