package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/careflow/internal/app"
	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/alexanderramin/careflow/internal/workflow"
)

func FormatFeed(resp *app.FeedResponse, title string) string {
	var b strings.Builder
	b.WriteString(formatRecommendationStats(resp.Stats, resp.Role))
	b.WriteString("\n")

	if len(resp.Items) == 0 {
		msg := "No recommendations yet."
		if resp.Role == domain.RoleDoctor {
			msg = "Nothing waiting for review."
		}
		b.WriteString(Dim(msg) + "\n")
		return RenderBox(title, b.String())
	}

	headers := []string{"ID", "PRIORITY", "STATE", "TITLE", "DONE", "ACTIONS"}
	rows := make([][]string, 0, len(resp.Items))
	for _, v := range resp.Items {
		r := v.Recommendation
		done := Dim("·")
		if r.Completed {
			done = StyleGreen.Render("✔")
		}
		title := Preview(r.Title, 36)
		if r.Source == domain.SourceAI {
			title += StylePurple.Render(" [AI]")
		}
		rows = append(rows, []string{
			r.ID,
			PriorityBadge(r.Priority),
			RecommendationPill(r.State),
			title,
			done,
			FormatActions(v.Actions),
		})
	}
	b.WriteString(RenderTable(headers, rows))
	return RenderBox(title, b.String())
}

func formatRecommendationStats(st workflow.RecommendationStats, role domain.ViewerRole) string {
	var b strings.Builder
	if role == domain.RoleDoctor {
		b.WriteString(fmt.Sprintf("%s total  ·  %s to review  ·  %s rejected\n",
			Bold(fmt.Sprint(st.Total)),
			StyleYellow.Render(fmt.Sprint(st.PendingReview)),
			StyleRed.Render(fmt.Sprint(st.Rejected))))
	}
	b.WriteString(fmt.Sprintf("%s outstanding", Bold(fmt.Sprint(st.Outstanding))))
	if st.UrgentOutstanding > 0 {
		b.WriteString(StyleRed.Render(fmt.Sprintf(" (%d urgent)", st.UrgentOutstanding)))
	}
	b.WriteString("  ·  ")
	b.WriteString(RenderProgress(st.CompletionPct/100, 20))
	b.WriteString(" done\n")
	return b.String()
}

func FormatReview(resp *app.ReviewResponse) string {
	r := resp.Recommendation
	fields := [][2]string{
		{"Recommendation", r.ID + "  " + Preview(r.Title, 40)},
		{"Change", RecommendationPill(resp.From) + Dim("  →  ") + RecommendationPill(resp.To)},
	}
	if r.ReviewerComment != "" {
		fields = append(fields, [2]string{"Comment", r.ReviewerComment})
	}
	if resp.Offline {
		fields = append(fields, [2]string{"Mode", Dim("offline, local mirror only")})
	}
	return RenderFields(fields) + RecommendationMessage(resp.To) + "\n"
}

func FormatCompleted(r *domain.Recommendation) string {
	return StyleGreen.Render("✔ ") + fmt.Sprintf("Marked %s as done: %s\n", Bold(r.ID), Preview(r.Title, 50))
}
