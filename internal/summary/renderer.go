package summary

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fakeyudi/pulse/internal/metrics"
)

// Renderer serializes a Summary to bytes.
type Renderer interface {
	Render(s *Summary) ([]byte, error)
}

// JSONRenderer renders the persisted form: two-space indented JSON with a
// trailing newline.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(s *Summary) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// MarkdownRenderer renders a human-readable daily report.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(s *Summary) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Digital Pulse — %s\n\n", s.Timestamp)

	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- Screen time: %s\n", FormatDuration(s.TotalDurationSec))
	fmt.Fprintf(&sb, "- Pickups: %g\n", s.Pickups)
	fmt.Fprintf(&sb, "- Entropy: %.2f bits (%s)\n", s.Entropy, metrics.Level(s.Entropy))
	sb.WriteString("\n")

	sb.WriteString("## Apps\n\n")
	apps := RankApps(s.Apps)
	if len(apps) == 0 {
		sb.WriteString("_No app usage recorded._\n")
	} else {
		sb.WriteString("| App | Time | Share |\n|---|---|---|\n")
		for _, a := range apps {
			fmt.Fprintf(&sb, "| %s | %s | %.1f%% |\n", a.Name, FormatDuration(a.Seconds), a.Share(s.TotalDurationSec)*100)
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Hourly Distribution\n\n")
	sb.WriteString("| Hour | Value |\n|---|---|\n")
	for hour, v := range s.HourlyDistribution {
		fmt.Fprintf(&sb, "| %02d:00 | %g |\n", hour, v)
	}
	sb.WriteString("\n")

	sb.WriteString("## Flow\n\n")
	if len(s.Flow) == 0 {
		sb.WriteString("_No transitions recorded._\n")
	} else {
		for _, e := range s.Flow {
			fmt.Fprintf(&sb, "- %s → %s (%g)\n", e.Source, e.Target, e.Value)
		}
	}

	return []byte(sb.String()), nil
}

// AppUsage is one app's entry in a ranked listing.
type AppUsage struct {
	Name    string
	Seconds float64
}

// Share returns the app's fraction of total, or 0 when total is 0.
func (a AppUsage) Share(total float64) float64 {
	if total == 0 {
		return 0
	}
	return a.Seconds / total
}

// RankApps lists apps by descending time, ties broken by name.
func RankApps(u metrics.UsageRecord) []AppUsage {
	apps := make([]AppUsage, 0, len(u))
	for name, secs := range u {
		apps = append(apps, AppUsage{Name: name, Seconds: secs})
	}
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].Seconds != apps[j].Seconds {
			return apps[i].Seconds > apps[j].Seconds
		}
		return apps[i].Name < apps[j].Name
	})
	return apps
}
