package menu

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/caedis/vsmod-updater/internal/terminal"
)

var (
	// ErrAborted is returned when the user leaves a prompt with Esc or Ctrl+C.
	ErrAborted = errors.New("prompt aborted")
	// ErrNoTerminal means the menu was opened without an interactive terminal.
	ErrNoTerminal = errors.New("the interactive menu needs a terminal; use a subcommand such as 'vsmd update' instead")
)

// Option is one selectable entry of a Select prompt.
type Option struct {
	Label string
	Value string
}

// UI is the set of prompts the menu needs.
type UI interface {
	Select(title string, options []Option, current *string) error
	Confirm(title string, value *bool) error
	Input(title string, value *string, validate func(string) error) error
	Note(title, body string) error
}

// HuhUI implements UI with charmbracelet/huh forms.
type HuhUI struct {
	isTerminal func() bool
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

func NewHuhUI() *HuhUI {
	return &HuhUI{isTerminal: terminal.IsInteractive}
}

func (ui *HuhUI) runForm(form *huh.Form) error {
	checker := ui.isTerminal
	if checker == nil {
		checker = terminal.IsInteractive
	}
	if !checker() {
		return ErrNoTerminal
	}

	form.WithProgramOptions(tea.WithOutput(os.Stderr))
	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

func (ui *HuhUI) Select(title string, options []Option, current *string) error {
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o.Label, o.Value)
	}
	return ui.runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(opts...).
				Value(current),
		),
	))
}

func (ui *HuhUI) Confirm(title string, value *bool) error {
	return ui.runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(value),
		),
	))
}

func (ui *HuhUI) Input(title string, value *string, validate func(string) error) error {
	input := huh.NewInput().
		Title(title).
		Value(value)
	if validate != nil {
		input = input.Validate(validate)
	}
	return ui.runForm(huh.NewForm(huh.NewGroup(input)))
}

func (ui *HuhUI) Note(title, body string) error {
	return ui.runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(title).
				Description(body),
		),
	))
}
