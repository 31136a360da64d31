package cli

import (
	"time"

	"github.com/alexanderramin/gantry/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and terminal facts used by CLI commands.
type App struct {
	Schedules service.ScheduleService

	// Interactive reports whether a person is at the terminal. Nil means
	// never, which makes prompts fail closed.
	Interactive func() bool
	// Confirm overrides the huh confirmation form.
	Confirm func(title string) (bool, error)
	// Now overrides the clock used for relative timestamps.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.Interactive != nil && a.Interactive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "gantry" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "gantry",
		Short:         "Work breakdown schedules for design, fabrication and installation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Read by main before the App is built; declared here so cobra accepts it.
	root.PersistentFlags().String(ConfigFlag, "", "Config file (JSON)")

	root.AddCommand(
		newShowCmd(app),
		newGanttCmd(app),
		newViewCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newListCmd(app),
		newDropScheduleCmd(app),
		newSettingsCmd(app),
		newGroupCmd(app),
		newRowCmd(app),
	)

	return root
}
