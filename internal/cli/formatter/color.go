package formatter

import (
	"strings"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ModuleStatusStyle returns the style used for a module workflow state.
func ModuleStatusStyle(status domain.ModuleStatus) lipgloss.Style {
	switch status {
	case domain.ModuleAuthorized:
		return StyleGreen
	case domain.ModuleDone:
		return StyleBlue
	case domain.ModuleUnderReview:
		return StyleYellow
	default:
		return StyleDim
	}
}

// ModuleStatusPill returns a colored indicator such as "● UNDER REVIEW".
func ModuleStatusPill(status domain.ModuleStatus) string {
	label := strings.ToUpper(strings.ReplaceAll(string(status), "_", " "))
	if label == "" {
		label = "TODO"
	}
	return ModuleStatusStyle(status).Render("● " + label)
}

// RoleBadge renders a partner role.
func RoleBadge(role domain.PartnerRole) string {
	switch role {
	case domain.RoleCoordinator:
		return StyleHeader.Render("coordinator")
	case domain.RolePartner:
		return StylePurple.Render("partner")
	default:
		return StyleDim.Render(string(role))
	}
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
