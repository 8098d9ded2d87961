package formatter

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/careflow/internal/app"
)

func FormatPatientDashboard(d *app.PatientDashboard) string {
	var b strings.Builder
	b.WriteString(Header("Patient " + d.SubjectID))
	b.WriteString("\n")
	b.WriteString(FormatBoard(d.Appointments))
	b.WriteString("\n")
	b.WriteString(FormatFeed(d.Recommendations, "Recommendations"))
	b.WriteString("\n")
	b.WriteString(FormatSymptomStats(d.Symptoms))
	b.WriteString("\n")
	b.WriteString(FormatTrend(d.Trend))
	b.WriteString("\n")
	return b.String()
}

func FormatDoctorDashboard(d *app.DoctorDashboard) string {
	var b strings.Builder
	b.WriteString(Header("Doctor " + d.CounterpartID))
	b.WriteString("\n")
	b.WriteString(FormatBoard(d.Appointments))
	b.WriteString("\n")
	b.WriteString(FormatFeed(d.ReviewQueue, "Review queue"))
	b.WriteString("\n")
	return b.String()
}

func FormatSyncResult(res *app.SyncResult) string {
	fields := [][2]string{
		{"Source", res.Source},
		{"Appointments", strconv.Itoa(res.Appointments)},
		{"Recommendations", strconv.Itoa(res.Recommendations)},
		{"Symptom samples", strconv.Itoa(res.Symptoms)},
	}
	if res.Uploaded > 0 {
		fields = append(fields, [2]string{"Uploaded", strconv.Itoa(res.Uploaded) + Dim(" local samples sent")})
	}
	if res.LocalPending > 0 {
		fields = append(fields, [2]string{"Local only", StyleYellow.Render(strconv.Itoa(res.LocalPending)) + Dim(" samples not on the backend")})
	}
	return StyleGreen.Render("✔ Mirror updated") + "\n" + RenderFields(fields)
}
