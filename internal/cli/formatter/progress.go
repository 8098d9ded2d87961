package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/careflow/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a completion bar like [████░░░░] 45%.
// Green above 66%, yellow from 33%, red below.
func RenderProgress(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// SeverityBar renders a 1-10 severity as ten cells colored by level, e.g.
// "███████░░░  7/10". Out-of-range values are clamped for display only.
func SeverityBar(value int) string {
	shown := value
	if shown < 0 {
		shown = 0
	}
	if shown > domain.MaxSeverity {
		shown = domain.MaxSeverity
	}
	bar := strings.Repeat(filledBlock, shown) + strings.Repeat(emptyBlock, domain.MaxSeverity-shown)
	style := StyleDim
	if value >= domain.MinSeverity {
		style = SeverityStyle(domain.SeverityLevelFor(value))
	}
	return fmt.Sprintf("%s %2d/%d", style.Render(bar), value, domain.MaxSeverity)
}

// SeverityLevelBadge renders MILD / MODERATE / SEVERE in its color.
func SeverityLevelBadge(level domain.SeverityLevel) string {
	if level == "" {
		return Dim("no data")
	}
	return SeverityStyle(level).Render(string(level))
}
