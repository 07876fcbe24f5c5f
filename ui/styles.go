package ui

import "github.com/charmbracelet/lipgloss"

var (
	normalDim = lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"}
	gray      = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}
	midGray   = lipgloss.AdaptiveColor{Light: "#B2B2B2", Dark: "#4A4A4A"}
	darkGray  = lipgloss.AdaptiveColor{Light: "#DDDADA", Dark: "#3C3C3C"}
	brightRed = lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}
	green     = lipgloss.Color("#04B575")
	emerald   = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	cream     = lipgloss.AdaptiveColor{Light: "#FFFDF5", Dark: "#FFFDF5"}
)

var (
	logoStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(emerald).
			Bold(true)

	errorTitleStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(brightRed).
			Padding(0, 1)

	subtleStyle   = lipgloss.NewStyle().Foreground(gray).Render
	dimStyle      = lipgloss.NewStyle().Foreground(normalDim).Render
	greenFg       = lipgloss.NewStyle().Foreground(green).Render
	headerStyle   = lipgloss.NewStyle().Foreground(emerald).Bold(true).Render
	selectedStyle = lipgloss.NewStyle().Foreground(emerald).Bold(true)

	tabStyle = lipgloss.NewStyle().
			Foreground(gray).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(emerald).
			Padding(0, 1).
			Bold(true)

	arabicStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 0)

	latinStyle   = lipgloss.NewStyle().Italic(true).Foreground(emerald)
	meaningStyle = lipgloss.NewStyle()
	labelStyle   = lipgloss.NewStyle().Foreground(gray).Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(emerald).
			Padding(0, 2).
			Bold(true)

	busyButtonStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(midGray).
			Padding(0, 2).
			Bold(true)

	userBubbleStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(emerald).
			Padding(0, 1)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(emerald).
				Bold(true).
				Render

	userLabelStyle = lipgloss.NewStyle().
			Foreground(gray).
			Bold(true).
			Render

	inputBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(darkGray).
				Padding(0, 1)
)

func logoView() string {
	return logoStyle.Render(" Doa ")
}
