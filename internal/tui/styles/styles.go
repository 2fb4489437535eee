package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Indigo    = lipgloss.Color("#6366F1")
	Sakura    = lipgloss.Color("#F472B6")
	SlateDark = lipgloss.Color("#1F2937")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Green     = lipgloss.Color("#10B981")
	Red       = lipgloss.Color("#EF4444")
	Amber     = lipgloss.Color("#F59E0B")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Indigo)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Indigo)

	ScoreStyle = lipgloss.NewStyle().
			Foreground(Amber)

	GenreStyle = lipgloss.NewStyle().
			Foreground(Sakura)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateDark).
				Bold(true)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	SectionHeaderStyle = lipgloss.NewStyle().
				Foreground(Indigo).
				Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateDark)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(SlateDark).
			Background(Indigo).
			Padding(0, 1)
)

// SpinnerFrames are the loading animation frames
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Truncate shortens s to max runes with an ellipsis
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
