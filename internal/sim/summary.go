package sim

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"})

	labelStyle = lipgloss.NewStyle().
			Width(14).
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#AAAAAA"})

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"})

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"}).
			Padding(0, 1)
)

// Summary renders the result as a boxed table for the terminal.
func (r Result) Summary(outputDir string) string {
	rows := [][2]string{
		{"frames", fmt.Sprint(r.Frames)},
		{"steps", fmt.Sprint(r.Steps)},
		{"sim time", r.SimTime.String()},
		{"wall time", r.Wall.Round(time.Millisecond).String()},
		{"final force", fmt.Sprintf("%.6f", r.FinalForce)},
	}
	if outputDir != "" {
		rows = append(rows,
			[2]string{"csv rows", fmt.Sprint(r.Rows)},
			[2]string{"output", outputDir})
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, titleStyle.Render("windflag run"))
	for _, row := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(row[0]), valueStyle.Render(row[1])))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
