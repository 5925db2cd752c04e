package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/infblueocean/briefd/internal/signal"
	"github.com/infblueocean/briefd/internal/store"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestEnterStartsRun(t *testing.T) {
	var requested string
	run := func(product string) tea.Cmd {
		requested = product
		return func() tea.Msg { return nil }
	}

	a := NewApp(run, nil)
	a.input.SetValue("  notion ")

	model, cmd := a.Update(keyMsg("enter"))
	a = model.(App)

	if !a.loading {
		t.Error("expected loading state after enter")
	}
	if cmd == nil {
		t.Error("expected a command to be issued")
	}
	if requested != "notion" {
		t.Errorf("requested product = %q, want trimmed %q", requested, "notion")
	}
}

func TestEnterIgnoresEmptyInput(t *testing.T) {
	a := NewApp(func(string) tea.Cmd { return nil }, nil)
	a.input.SetValue("   ")

	model, _ := a.Update(keyMsg("enter"))
	a = model.(App)
	if a.loading {
		t.Error("empty input must not start a run")
	}
}

func TestReportReadyTriggersTrendLoad(t *testing.T) {
	var trendFor string
	loadTrend := func(product string) tea.Cmd {
		trendFor = product
		return func() tea.Msg { return nil }
	}

	a := NewApp(nil, loadTrend)
	a.loading = true

	report := signal.Report{SignalCount: 7, Summary: signal.Summary{Total: 7}}
	model, cmd := a.Update(ReportReady{Product: "notion", Report: report})
	a = model.(App)

	if a.loading {
		t.Error("loading should clear when the report arrives")
	}
	if a.report == nil || a.report.SignalCount != 7 {
		t.Errorf("report = %+v", a.report)
	}
	if cmd == nil || trendFor != "notion" {
		t.Errorf("expected trend load for notion, got %q", trendFor)
	}
}

func TestReportError(t *testing.T) {
	a := NewApp(nil, nil)
	a.loading = true

	model, _ := a.Update(ReportReady{Product: "notion", Err: errors.New("oracle down")})
	a = model.(App)

	if a.loading || a.report != nil {
		t.Errorf("error should end loading without a report: %+v", a)
	}
	if a.err == nil {
		t.Error("error not retained")
	}
	if !strings.Contains(a.View(), "oracle down") {
		t.Error("error not rendered")
	}
}

func TestReportView(t *testing.T) {
	a := NewApp(nil, nil)
	a.product = "notion"
	a.report = &signal.Report{
		Themes: []signal.Theme{{
			Name:               "Sync reliability",
			Frequency:          9,
			EmotionalIntensity: 8,
			EvidenceQuotes:     []string{"it ate my notes again"},
		}},
		EmergingRisks: []signal.Theme{{Name: "AI autocomplete backlash"}},
		Opportunities: []string{"wish it had offline tables"},
		Summary:       signal.Summary{Total: 120, NegativeRate: 41.7},
	}
	a.trend = &store.Trend{PFIChange: -2.5}

	view := a.View()
	for _, want := range []string{
		"Sync reliability",
		"it ate my notes again",
		"AI autocomplete backlash",
		"wish it had offline tables",
		"120 signals",
		"improving",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestNewAnalysisKey(t *testing.T) {
	a := NewApp(nil, nil)
	a.report = &signal.Report{}
	a.trend = &store.Trend{}

	model, _ := a.Update(keyMsg("n"))
	a = model.(App)

	if a.report != nil || a.trend != nil {
		t.Error("n should reset to the input screen")
	}
}

func TestQuitKeys(t *testing.T) {
	a := NewApp(nil, nil)
	a.report = &signal.Report{}

	if _, cmd := a.Update(keyMsg("q")); cmd == nil {
		t.Error("q on report screen should quit")
	}

	fresh := NewApp(nil, nil)
	if _, cmd := fresh.Update(keyMsg("esc")); cmd == nil {
		t.Error("esc on input screen should quit")
	}
}
