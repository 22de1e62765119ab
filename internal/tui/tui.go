// Package tui renders a live dashboard of watched source files and the
// configuration currently in effect for each, refreshed on every
// ConfigChangedEvent observed on the bus.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SourceRow is one line of the dashboard: a watched source file and the
// configuration path currently resolved for it.
type SourceRow struct {
	SourcePath string
	ConfigPath string // empty when falling back to the default configuration
}

// Snapshot is the data the dashboard renders on each tick.
type Snapshot struct {
	Sources          []SourceRow
	WatchedDirs      int
	CacheEntries     int
	LastChangeAt     time.Time
	LastChangeSource string
	LastError        string
	Uptime           time.Duration
}

// StatusProvider supplies a fresh Snapshot on every tick.
type StatusProvider func() Snapshot

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type model struct {
	provider StatusProvider
	snap     Snapshot
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tickMsg:
		m.snap = m.provider()
		return m, tickCmd()
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("configwatchd"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Watched directories: %d    Cache entries: %d\n\n",
		m.snap.WatchedDirs, m.snap.CacheEntries)

	if len(m.snap.Sources) == 0 {
		b.WriteString(dimStyle.Render("(no sources registered)"))
		b.WriteString("\n")
	} else {
		for _, row := range m.snap.Sources {
			configPath := row.ConfigPath
			if configPath == "" {
				configPath = dimStyle.Render("(default configuration)")
			}
			fmt.Fprintf(&b, "%-50s -> %s\n", row.SourcePath, configPath)
		}
	}

	b.WriteString("\n")
	if m.snap.LastError != "" {
		b.WriteString(errorStyle.Render("last error: " + m.snap.LastError))
		b.WriteString("\n")
	}
	if !m.snap.LastChangeAt.IsZero() {
		fmt.Fprintf(&b, "last change: %s (%s ago)\n",
			m.snap.LastChangeSource, time.Since(m.snap.LastChangeAt).Truncate(time.Second))
	}
	fmt.Fprintf(&b, "uptime: %s\n\nPress q to quit.\n", m.snap.Uptime.Truncate(time.Second))

	return b.String()
}

// Run blocks until ctx is cancelled or the program exits (q / ctrl+c).
func Run(ctx context.Context, provider StatusProvider) error {
	defer bestEffortResetTTY()

	m := model{provider: provider, snap: provider()}
	p := tea.NewProgram(m)

	done := make(chan error, 1)
	go func() {
		_, err := p.Run()
		done <- err
	}()

	select {
	case <-ctx.Done():
		p.Quit()
		return ctx.Err()
	case err := <-done:
		return err
	}
}
