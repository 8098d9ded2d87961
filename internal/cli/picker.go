package cli

import (
	"errors"

	"github.com/alexanderramin/careflow/internal/cli/formatter"
	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var errNoActions = errors.New("no actions available")

// careflowHuhTheme styles prompts with the formatter palette.
func careflowHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func actionOptions(actions []domain.Action) []huh.Option[domain.Action] {
	options := make([]huh.Option[domain.Action], 0, len(actions))
	for _, a := range actions {
		options = append(options, huh.NewOption(formatter.ActionLabel(a), a))
	}
	return options
}

// newActionForm builds the action select, writing the choice into choice.
func newActionForm(title string, actions []domain.Action, choice *domain.Action) *huh.Form {
	if len(actions) > 0 {
		*choice = actions[0]
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[domain.Action]().
				Title(title).
				Options(actionOptions(actions)...).
				Value(choice),
		),
	).WithTheme(careflowHuhTheme()).WithShowHelp(false)
}

// huhPickAction shows a select of the available actions.
func huhPickAction(title string, actions []domain.Action) (domain.Action, error) {
	if len(actions) == 0 {
		return "", errNoActions
	}
	var choice domain.Action
	if err := newActionForm(title, actions, &choice).Run(); err != nil {
		return "", err
	}
	return choice, nil
}

func newInputForm(title, placeholder string, value *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder(placeholder).
				Value(value),
		),
	).WithTheme(careflowHuhTheme()).WithShowHelp(false)
}

// huhInput asks for one line of free text.
func huhInput(title, placeholder string, value *string) error {
	return newInputForm(title, placeholder, value).Run()
}
