package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/infblueocean/briefd/internal/signal"
	"github.com/infblueocean/briefd/internal/store"
)

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT hold the pipeline or the store. It receives
// results via messages produced by the injected command functions.
type App struct {
	runReport func(product string) tea.Cmd
	loadTrend func(product string) tea.Cmd

	input   textinput.Model
	spin    spinner.Model
	product string
	report  *signal.Report
	trend   *store.Trend
	err     error
	width   int
	height  int
	loading bool
}

// NewApp creates a new App with the given command functions.
// runReport: returns a Cmd that runs the pipeline for a product
// loadTrend: returns a Cmd that reads snapshot history for a product
func NewApp(runReport, loadTrend func(product string) tea.Cmd) App {
	ti := textinput.New()
	ti.Placeholder = "product name, e.g. notion"
	ti.CharLimit = 64
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ThemeMeta

	return App{
		runReport: runReport,
		loadTrend: loadTrend,
		input:     ti,
		spin:      sp,
	}
}

// Init starts the cursor blink.
func (a App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case ReportReady:
		a.loading = false
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		report := msg.Report
		a.report = &report
		a.err = nil
		if a.loadTrend != nil {
			return a, a.loadTrend(msg.Product)
		}
		return a, nil

	case TrendLoaded:
		// A missing trend is normal for first-week products; only real
		// errors surface.
		if msg.Err == nil {
			a.trend = msg.Trend
		}
		return a, nil
	}

	if !a.loading && a.report == nil {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	}

	if a.loading {
		return a, nil
	}

	if a.report != nil {
		switch msg.String() {
		case "q", "esc":
			return a, tea.Quit
		case "n":
			a.report = nil
			a.trend = nil
			a.err = nil
			a.input.SetValue("")
			a.input.Focus()
			return a, textinput.Blink
		}
		return a, nil
	}

	switch msg.String() {
	case "esc":
		return a, tea.Quit
	case "enter":
		product := strings.TrimSpace(a.input.Value())
		if product == "" || a.runReport == nil {
			return a, nil
		}
		a.product = product
		a.loading = true
		a.err = nil
		return a, tea.Batch(a.spin.Tick, a.runReport(product))
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// View renders the current screen.
func (a App) View() string {
	var b strings.Builder

	switch {
	case a.loading:
		b.WriteString(TitleBar.Render("briefd"))
		b.WriteString("\n\n")
		b.WriteString(ThemeMeta.Render(fmt.Sprintf("%s analyzing %s, this can take a minute", a.spin.View(), a.product)))
		b.WriteString("\n")

	case a.report != nil:
		b.WriteString(a.renderReport())

	default:
		b.WriteString(TitleBar.Render("briefd"))
		b.WriteString("\n")
		b.WriteString(InputPrompt.Render("Which product should I listen for?"))
		b.WriteString("\n")
		b.WriteString("  " + a.input.View())
		b.WriteString("\n")
		if a.err != nil {
			b.WriteString(ErrorStyle.Render("error: " + a.err.Error()))
			b.WriteString("\n")
		}
		b.WriteString(a.statusBar("enter", "analyze", "esc", "quit"))
	}

	return b.String()
}

func (a App) renderReport() string {
	r := a.report
	var b strings.Builder

	b.WriteString(TitleBar.Render("briefd " + a.product))
	b.WriteString("\n")
	b.WriteString(SummaryLine.Render(fmt.Sprintf(
		"%d signals, %.1f%% negative, %d performance, %d mobile",
		r.Summary.Total, r.Summary.NegativeRate,
		r.Summary.PerformanceCount, r.Summary.MobileCount)))
	b.WriteString("\n")

	if a.trend != nil {
		style := TrendDown
		arrow := "improving"
		if a.trend.PFIChange > 0 {
			style = TrendUp
			arrow = "worsening"
		}
		b.WriteString(ThemeMeta.Render("friction trend: ") +
			style.Render(fmt.Sprintf("%+.1f (%s)", a.trend.PFIChange, arrow)))
		b.WriteString("\n")
	}

	b.WriteString(SectionHeader.Render("Friction themes"))
	b.WriteString("\n")
	if len(r.Themes) == 0 {
		b.WriteString(ThemeMeta.Render("none synthesized"))
		b.WriteString("\n")
	}
	for i, th := range r.Themes {
		b.WriteString(ThemeName.Render(fmt.Sprintf("%d. %s", i+1, th.Name)))
		b.WriteString("\n")
		b.WriteString(ThemeMeta.Render(fmt.Sprintf(
			"freq %d, intensity %d/10, impact %.1f, %s",
			th.Frequency, th.EmotionalIntensity, th.BusinessImpactScore, th.PrimarySegment)))
		b.WriteString("\n")
		for qi, q := range th.EvidenceQuotes {
			if qi >= 2 {
				break
			}
			b.WriteString(Quote.Render("\"" + q + "\""))
			b.WriteString("\n")
		}
	}

	if len(r.EmergingRisks) > 0 {
		b.WriteString(SectionHeader.Render("Emerging risks"))
		b.WriteString("\n")
		for _, th := range r.EmergingRisks {
			b.WriteString(RiskBadge.Render("!") + ThemeName.Render(th.Name))
			b.WriteString("\n")
		}
	}

	if len(r.Opportunities) > 0 {
		b.WriteString(SectionHeader.Render("Opportunities"))
		b.WriteString("\n")
		for _, op := range r.Opportunities {
			b.WriteString(OpportunityItem.Render("+ " + op))
			b.WriteString("\n")
		}
	}

	b.WriteString(a.statusBar("n", "new analysis", "q", "quit"))
	return b.String()
}

func (a App) statusBar(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, StatusBarKey.Render(pairs[i])+" "+StatusBarText.Render(pairs[i+1]))
	}
	return StatusBar.Render(strings.Join(parts, "  "))
}
