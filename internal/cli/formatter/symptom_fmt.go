package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/careflow/internal/app"
	"github.com/alexanderramin/careflow/internal/domain"
)

// FormatSample renders one recorded self-report.
func FormatSample(s *domain.SymptomSample) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", Bold("Recorded "+s.RecordedAt.Format("Jan 2 15:04")), TruncID(s.ID)))
	for _, d := range domain.SymptomDimensions {
		b.WriteString(fmt.Sprintf("  %-13s %s\n", DimensionLabel(d), SeverityBar(s.Severity(d))))
	}
	b.WriteString(fmt.Sprintf("  %-13s %s\n", "Overall", SeverityLevelBadge(s.Level())))
	if strings.HasPrefix(s.ID, domain.LocalIDPrefix) {
		b.WriteString(Dim("  Stored locally; the next sync uploads it.") + "\n")
	}
	return b.String()
}

func FormatSymptomStats(resp *app.SymptomStatsResponse) string {
	st := resp.Stats
	title := fmt.Sprintf("Symptoms since %s", resp.Since.Format("Jan 2"))
	if st.Count == 0 {
		return RenderBox(title, Dim("No samples in this window.")+"\n")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s samples  ·  overall %s  %s\n\n",
		Bold(fmt.Sprint(st.Count)), SeverityBar(st.OverallAvg), SeverityLevelBadge(st.Level)))
	for _, d := range domain.SymptomDimensions {
		marker := ""
		if st.Best != st.Worst {
			switch d {
			case st.Worst:
				marker = StyleRed.Render("  worst")
			case st.Best:
				marker = StyleGreen.Render("  best")
			}
		}
		b.WriteString(fmt.Sprintf("%-13s %s%s\n", DimensionLabel(d), SeverityBar(st.Avg(d)), marker))
	}
	if st.Latest != nil {
		b.WriteString("\n" + Dim("Latest: "+st.Latest.RecordedAt.Format("Mon Jan 2 15:04")))
		if st.Latest.Notes != "" {
			b.WriteString(Dim("  " + Preview(st.Latest.Notes, 50)))
		}
		b.WriteString("\n")
	}
	return RenderBox(title, b.String())
}

func FormatTrend(resp *app.TrendResponse) string {
	r := resp.Result
	var b strings.Builder
	b.WriteString(TrendIndicator(r.Trend) + "  " + Dim(TrendMessage(r.Trend)) + "\n\n")
	if resp.Count < 2 {
		b.WriteString(Dim("At least two samples are needed to compare.") + "\n")
	} else {
		fields := [][2]string{
			{"Earlier half", fmt.Sprintf("%.2f avg over %d samples", r.Leading.Aggregate(), r.Leading.Count)},
			{"Later half", fmt.Sprintf("%.2f avg over %d samples", r.Trailing.Aggregate(), r.Trailing.Count)},
			{"Change", fmt.Sprintf("%+.2f (threshold ±%.2f)", r.Delta, resp.Epsilon)},
		}
		b.WriteString(RenderFields(fields))
	}
	return RenderBox(fmt.Sprintf("Trend since %s", resp.Since.Format(time.DateOnly)), b.String())
}
