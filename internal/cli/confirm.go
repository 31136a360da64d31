package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// errNeedsYes is returned when a destructive command cannot prompt.
var errNeedsYes = errors.New("refusing to delete without confirmation: pass --yes in a non-interactive session")

// gantryHuhTheme returns a huh theme matching the formatter palette.
func gantryHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// confirmForm asks a yes/no question, defaulting to No.
func confirmForm(title, description string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Delete").
				Negative("Keep").
				Value(result),
		),
	).WithTheme(gantryHuhTheme()).WithShowHelp(false)
}

// confirm gates a destructive command. yes skips the prompt; without a
// terminal the command fails instead of prompting.
func (a *App) confirm(title, description string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !a.interactive() {
		return false, errNeedsYes
	}
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	var ok bool
	if err := confirmForm(title, description, &ok).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirming: %w", err)
	}
	return ok, nil
}

func printCancelled(w io.Writer) {
	fmt.Fprintln(w, formatter.Dim("Cancelled."))
}
