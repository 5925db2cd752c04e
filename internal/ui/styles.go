package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorWarn      = lipgloss.Color("178") // Amber
	colorDanger    = lipgloss.Color("196") // Red
	colorSuccess   = lipgloss.Color("78")  // Green
)

// TitleBar style for the product header.
var TitleBar = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// SectionHeader style for report section labels.
var SectionHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	MarginTop(1).
	Padding(0, 1)

// ThemeName style for a friction theme headline.
var ThemeName = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// ThemeMeta style for frequency/intensity/impact annotations.
var ThemeMeta = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// Quote style for evidence quotes.
var Quote = lipgloss.NewStyle().
	Foreground(colorMuted).
	Italic(true).
	Padding(0, 3)

// RiskBadge style for emerging risk markers.
var RiskBadge = lipgloss.NewStyle().
	Foreground(colorDanger).
	Bold(true).
	Padding(0, 1)

// OpportunityItem style for aspirational signals.
var OpportunityItem = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Padding(0, 1)

// TrendUp style for worsening friction deltas.
var TrendUp = lipgloss.NewStyle().
	Foreground(colorDanger).
	Bold(true)

// TrendDown style for improving friction deltas.
var TrendDown = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// SummaryLine style for the rollup numbers.
var SummaryLine = lipgloss.NewStyle().
	Foreground(colorWarn).
	Padding(0, 1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorDanger).
	Bold(true).
	Padding(0, 1)

// InputPrompt style for the product name prompt.
var InputPrompt = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true).
	Padding(1, 1, 0, 1)
