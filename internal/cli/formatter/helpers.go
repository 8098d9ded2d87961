package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly day distance from now.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := calendarDays(t, now)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// calendarDays counts midnights between now and t in now's location.
func calendarDays(t, now time.Time) int {
	t = t.In(now.Location())
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// WhenStyled renders an appointment time with urgency coloring: red inside
// a day, yellow inside three.
func WhenStyled(t, now time.Time) string {
	stamp := t.In(now.Location()).Format("Mon Jan 2 15:04")
	style := StyleFg
	switch hours := t.Sub(now).Hours(); {
	case hours < 0:
		style = StyleDim
	case hours < 24:
		style = StyleRed
	case hours < 72:
		style = StyleYellow
	}
	return style.Render(stamp) + " " + Dim("("+RelativeDateFrom(t, now)+")")
}

// HumanTimestampFrom returns a short relative timestamp for past events.
func HumanTimestampFrom(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.In(now.Location()).Format("Jan 2, 2006 15:04")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.In(now.Location()).Format("Jan 2, 2006 15:04")
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatActions lists action keys with their labels, or a dash when none.
func FormatActions(actions []domain.Action) string {
	if len(actions) == 0 {
		return Dim("--")
	}
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		parts = append(parts, string(a))
	}
	return StyleBlue.Render(strings.Join(parts, ", "))
}

// FormatHours renders a signed lead time such as "36.5h" or "-2.0h".
func FormatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}

// Preview shortens free text for table cells.
func Preview(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if max > 3 && len([]rune(s)) > max {
		return string([]rune(s)[:max-3]) + "..."
	}
	return s
}
