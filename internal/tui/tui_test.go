package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestView_DisplaysSourcesAndConfigPaths(t *testing.T) {
	m := model{
		snap: Snapshot{
			Sources: []SourceRow{
				{SourcePath: "/project/hello.js", ConfigPath: "/project/quick-lint-js.config"},
				{SourcePath: "/project/vendor/lib.js", ConfigPath: ""},
			},
			WatchedDirs:  3,
			CacheEntries: 1,
			Uptime:       10 * time.Second,
		},
	}
	view := m.View()

	for _, want := range []string{
		"/project/hello.js",
		"/project/quick-lint-js.config",
		"/project/vendor/lib.js",
		"Watched directories: 3",
		"Cache entries: 1",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q, got:\n%s", want, view)
		}
	}
}

func TestView_NoSources(t *testing.T) {
	m := model{snap: Snapshot{}}
	view := m.View()
	if !strings.Contains(view, "no sources registered") {
		t.Errorf("expected placeholder text for empty source list, got:\n%s", view)
	}
}

func TestTUI_HeadlessNonTTY(t *testing.T) {
	provider := func() Snapshot {
		return Snapshot{
			Sources: []SourceRow{
				{SourcePath: "/a.js", ConfigPath: "/quick-lint-js.config"},
			},
			WatchedDirs: 1,
			Uptime:      5 * time.Second,
		}
	}

	m := model{provider: provider, snap: provider()}

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected Init to return a cmd")
	}

	updated, quitCmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if updated == nil {
		t.Fatal("expected non-nil model after Update")
	}
	if quitCmd == nil {
		t.Fatal("expected quit command on 'q' key")
	}

	m2 := model{provider: provider, snap: Snapshot{}}
	updated2, tickCmd := m2.Update(tickMsg(time.Now()))
	if tickCmd == nil {
		t.Fatal("expected tick cmd after tick message")
	}
	updatedModel := updated2.(model)
	if len(updatedModel.snap.Sources) != 1 {
		t.Fatal("expected snapshot to be refreshed from provider")
	}

	view := m.View()
	if view == "" {
		t.Fatal("expected non-empty view output in headless mode")
	}

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(cancelCtx, provider)
	if err != nil && err != context.Canceled {
		t.Fatalf("expected clean exit or context.Canceled, got: %v", err)
	}
}
