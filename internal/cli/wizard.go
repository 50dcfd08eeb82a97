package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/grantplan/internal/cli/formatter"
	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Prompter asks the user for decisions a flag did not settle.
type Prompter interface {
	// MapPartners returns template partner id -> organization id. Partners
	// left out of the result are copied as standalone partners.
	MapPartners(partners []domain.Partner, orgs []*domain.Organization) (map[string]string, error)
	Confirm(title string) (bool, error)
}

// errAborted is returned when the user cancels a form.
var errAborted = errors.New("aborted")

// grantplanHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func grantplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// huhPrompter renders Prompter questions as huh forms on the terminal.
type huhPrompter struct{}

// NewHuhPrompter returns the terminal Prompter.
func NewHuhPrompter() Prompter {
	return huhPrompter{}
}

func (huhPrompter) MapPartners(partners []domain.Partner, orgs []*domain.Organization) (map[string]string, error) {
	if len(partners) == 0 {
		return map[string]string{}, nil
	}

	options := make([]huh.Option[string], 0, len(orgs)+1)
	options = append(options, huh.NewOption("Keep as a standalone copy", ""))
	for _, o := range orgs {
		label := o.Name
		if o.Nation != "" {
			label = fmt.Sprintf("%s (%s)", o.Name, o.Nation)
		}
		options = append(options, huh.NewOption(label, o.ID))
	}

	choices := make([]string, len(partners))
	groups := make([]*huh.Group, 0, len(partners))
	for i, p := range partners {
		groups = append(groups, huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Organization for %s", p.Name)).
				Description(fmt.Sprintf("template %s", p.Role)).
				Options(options...).
				Value(&choices[i]),
		))
	}

	if err := huh.NewForm(groups...).WithTheme(grantplanHuhTheme()).WithShowHelp(false).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, errAborted
		}
		return nil, err
	}

	mapping := make(map[string]string, len(partners))
	for i, p := range partners {
		if choices[i] != "" {
			mapping[p.ID] = choices[i]
		}
	}
	return mapping, nil
}

func (huhPrompter) Confirm(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(grantplanHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
