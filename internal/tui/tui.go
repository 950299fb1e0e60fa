// Package tui provides a Bubble Tea TUI for viewing a daily summary.
package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/pulse/internal/metrics"
	"github.com/fakeyudi/pulse/internal/summary"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("46")).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("46")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	peakBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	levelStyles = map[string]lipgloss.Style{
		"focused":    lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true),
		"balanced":   lipgloss.NewStyle().Foreground(lipgloss.Color("178")).Bold(true),
		"fragmented": lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabSummary tabID = iota
	tabApps
	tabHourly
	tabFlow
	tabCount
)

var tabNames = [tabCount]string{"Summary", "Apps", "Hourly", "Flow"}

// barWidth is the widest bar drawn in the Apps and Hourly tabs.
const barWidth = 40

// ── Model ────────────────────

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	summary   *summary.Summary
	filename  string
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
	byName    bool // Apps tab ordering: false = by time, true = by name
}

// New creates a new TUI model for the given summary and source filename.
func New(s *summary.Summary, filename string) Model {
	return Model{
		summary:  s,
		filename: filepath.Base(filename),
	}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3", "4":
			m.activeTab = tabID(msg.String()[0] - '1')
		case "s":
			if m.activeTab == tabApps {
				m.byName = !m.byName
				if m.ready {
					m.viewports[tabApps].SetContent(m.renderTab(tabApps))
					m.viewports[tabApps].GotoTop()
				}
			}
		}
		if !m.ready {
			return m, nil
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  DIGITAL_PULSE  " + m.filename)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  1-4 jump  q quit"
	if m.activeTab == tabApps {
		order := "by time"
		if m.byName {
			order = "by name"
		}
		hint += "  s sort (" + order + ")"
	}
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(hint + strings.Repeat(" ", pad) + pct)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Model) renderTab(t tabID) string {
	switch t {
	case tabSummary:
		return m.renderSummary()
	case tabApps:
		return m.renderApps()
	case tabHourly:
		return m.renderHourly()
	case tabFlow:
		return m.renderFlow()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func (m *Model) renderSummary() string {
	s := m.summary
	var sb strings.Builder
	sb.WriteString(heading("Daily Summary"))

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-14s", label)) + "  " + value + "\n")
	}
	level := metrics.Level(s.Entropy)
	row("Generated:", s.Timestamp)
	row("Screen time:", summary.FormatDuration(s.TotalDurationSec))
	row("Pickups:", fmt.Sprintf("%g", s.Pickups))
	row("Entropy:", fmt.Sprintf("%.2f bits  %s", s.Entropy, levelStyles[level].Render(strings.ToUpper(level))))

	sb.WriteString("\n")
	sb.WriteString(heading("Counts"))
	row("Apps:", fmt.Sprintf("%d", len(s.Apps)))
	row("Flow edges:", fmt.Sprintf("%d", len(s.Flow)))
	if peak, ok := peakHour(s.HourlyDistribution); ok {
		row("Peak hour:", fmt.Sprintf("%02d:00", peak))
	}
	return sb.String()
}

func (m *Model) renderApps() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Apps (%d)", len(m.summary.Apps))))

	apps := summary.RankApps(m.summary.Apps)
	if len(apps) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	if m.byName {
		sort.Slice(apps, func(i, j int) bool { return apps[i].Name < apps[j].Name })
	}

	var longest float64
	nameWidth := 0
	for _, a := range apps {
		if a.Seconds > longest {
			longest = a.Seconds
		}
		if len(a.Name) > nameWidth {
			nameWidth = len(a.Name)
		}
	}
	for _, a := range apps {
		share := a.Share(m.summary.TotalDurationSec) * 100
		sb.WriteString(fmt.Sprintf("  %-*s  %s  %s %5.1f%%\n",
			nameWidth, a.Name,
			barStyle.Render(bar(a.Seconds, longest)),
			summary.FormatDuration(a.Seconds),
			share,
		))
	}
	return sb.String()
}

func (m *Model) renderHourly() string {
	var sb strings.Builder
	sb.WriteString(heading("Hourly Distribution"))

	hours := m.summary.HourlyDistribution
	if len(hours) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	var top float64
	for _, v := range hours {
		if v > top {
			top = v
		}
	}
	peak, hasPeak := peakHour(hours)
	for hour, v := range hours {
		style := barStyle
		if hasPeak && hour == peak {
			style = peakBarStyle
		}
		sb.WriteString(fmt.Sprintf("  %02d:00  %s %g\n", hour, style.Render(bar(v, top)), v))
	}
	return sb.String()
}

func (m *Model) renderFlow() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Flow (%d)", len(m.summary.Flow))))
	if len(m.summary.Flow) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for _, e := range m.summary.Flow {
		sb.WriteString(fmt.Sprintf("  %s %s %s  %s\n",
			e.Source, dimStyle.Render("→"), e.Target, labelStyle.Render(fmt.Sprintf("%g", e.Value))))
	}
	return sb.String()
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// bar draws v as a run of blocks scaled against top.
func bar(v, top float64) string {
	if top <= 0 || v <= 0 {
		return strings.Repeat(" ", barWidth)
	}
	n := int(v / top * barWidth)
	if n < 1 {
		n = 1
	}
	return strings.Repeat("█", n) + strings.Repeat(" ", barWidth-n)
}

// peakHour returns the first hour with the largest non-zero value.
func peakHour(hours []float64) (int, bool) {
	peak, top := -1, 0.0
	for h, v := range hours {
		if v > top {
			peak, top = h, v
		}
	}
	return peak, peak >= 0
}

// Run starts the TUI for the given summary.
func Run(s *summary.Summary, filename string) error {
	p := tea.NewProgram(New(s, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
