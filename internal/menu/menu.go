// Package menu is the interactive main loop shown when vsmd runs without a
// subcommand: run a pass or edit one setting at a time, until Exit.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/caedis/vsmod-updater/internal/config"
	"github.com/caedis/vsmod-updater/internal/logging"
)

const (
	actionUpdate = "update"
	actionDryRun = "dry-run"
	actionExit   = "exit"
)

// PassFunc runs one update pass with cfg.
type PassFunc func(ctx context.Context, cfg *config.Config, dryRun bool) error

type Menu struct {
	UI     UI
	Config *config.Config
	Pass   PassFunc
	// Out receives the header; defaults to os.Stdout.
	Out io.Writer
}

// Run loops until the user picks Exit or aborts the main prompt. Edits are
// saved to the config file immediately. A failed pass is reported and the
// menu shown again.
func (m *Menu) Run(ctx context.Context) error {
	out := m.Out
	if out == nil {
		out = os.Stdout
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(out, Header(m.Config))

		choice := actionUpdate
		if err := m.UI.Select("What would you like to do?", m.options(), &choice); err != nil {
			if errors.Is(err, ErrAborted) {
				return nil
			}
			return err
		}

		switch choice {
		case actionExit:
			return nil
		case actionUpdate, actionDryRun:
			err := m.Pass(ctx, m.Config, choice == actionDryRun)
			if errors.Is(err, context.Canceled) {
				return err
			}
			if err != nil {
				logging.Errorf("Update failed: %v\n", err)
			}
		default:
			if err := m.edit(choice); err != nil && !errors.Is(err, ErrAborted) {
				return err
			}
		}
	}
}

func (m *Menu) options() []Option {
	opts := []Option{
		{Label: "Update mods", Value: actionUpdate},
		{Label: "Check for updates without downloading", Value: actionDryRun},
	}
	for _, f := range config.Fields() {
		value, _ := m.Config.Get(f.Key)
		opts = append(opts, Option{
			Label: fmt.Sprintf("Change %s (%s)", f.Key, displayValue(value)),
			Value: f.Key,
		})
	}
	return append(opts, Option{Label: "Exit", Value: actionExit})
}

func (m *Menu) edit(key string) error {
	field, ok := config.LookupField(key)
	if !ok {
		return fmt.Errorf("%w %q", config.ErrUnknownKey, key)
	}
	value, _ := m.Config.Get(field.Key)
	title := fmt.Sprintf("%s: %s", field.Key, field.Description)

	switch field.Type {
	case config.FieldBool:
		b := value == "true"
		if err := m.UI.Confirm(title, &b); err != nil {
			return err
		}
		value = strconv.FormatBool(b)
	case config.FieldEnum:
		opts := make([]Option, len(field.Options))
		for i, o := range field.Options {
			opts[i] = Option{Label: o, Value: o}
		}
		if err := m.UI.Select(title, opts, &value); err != nil {
			return err
		}
	default:
		if field.Type == config.FieldList {
			title += " (comma separated)"
		}
		if err := m.UI.Input(title, &value, validator(field)); err != nil {
			return err
		}
	}

	if err := m.Config.Set(field.Key, value); err != nil {
		return m.UI.Note("Setting not saved", err.Error())
	}
	logging.Successf("%s set to %s\n", field.Key, displayValue(value))
	return nil
}

func validator(field config.FieldDef) func(string) error {
	if field.Type != config.FieldText {
		return nil
	}
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be blank", field.Key)
		}
		return nil
	}
}

func displayValue(v string) string {
	if v == "" {
		return "none"
	}
	return v
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// Header renders the menu banner with the current settings.
func Header(cfg *config.Config) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Vintage Story Mod Updater"))
	for _, key := range config.Keys() {
		value, _ := cfg.Get(key)
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render(fmt.Sprintf("%-21s", key)))
		sb.WriteString(" ")
		sb.WriteString(valueStyle.Render(displayValue(value)))
	}
	return boxStyle.Render(sb.String())
}
