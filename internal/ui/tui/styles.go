package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
const (
	colorPrimary = "#7D56F4"
	colorSuccess = "#04B575"
	colorError   = "#FF5F87"
	colorInfo    = "#626262"
	colorWarn    = "#F2B134"
	colorText    = "#FAFAFA"
	colorBorder  = "#874BFD"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary)).
			MarginBottom(1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo)).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorText)).
			Background(lipgloss.Color(colorPrimary)).
			Padding(0, 2)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo))

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorText)).
			Background(lipgloss.Color(colorBorder)).
			Padding(0, 1).
			MarginRight(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorInfo)).
			Padding(0, 1)

	selectedCardStyle = cardStyle.
				BorderForeground(lipgloss.Color(colorBorder))

	placeholderStyle = lipgloss.NewStyle().
				Border(lipgloss.HiddenBorder()).
				Padding(0, 1)

	headlineStyle = lipgloss.NewStyle().Bold(true)

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorWarn))

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color(colorSuccess)).
			PaddingLeft(1)

	currentPageStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(colorText)).
				Background(lipgloss.Color(colorPrimary))

	toastStyles = map[string]lipgloss.Style{
		"success": lipgloss.NewStyle().Foreground(lipgloss.Color(colorSuccess)),
		"error":   lipgloss.NewStyle().Foreground(lipgloss.Color(colorError)),
		"info":    lipgloss.NewStyle().Foreground(lipgloss.Color(colorText)),
	}
)
