package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/alexanderramin/gantry/internal/importer"
	"github.com/alexanderramin/gantry/internal/service"
	"github.com/spf13/cobra"
)

var (
	weekendModes = []domain.WeekendMode{domain.WeekendInclude, domain.WeekendExclude}
	scales       = []gantt.Scale{gantt.ScaleAuto, gantt.ScaleDay, gantt.ScaleWeek, gantt.ScaleMonth}
	formats      = []importer.Format{importer.FormatJSON, importer.FormatYAML}
)

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show the schedule tree with row numbers and group totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := app.Schedules.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSchedule(args[0], doc))
			return nil
		},
	}
}

func newGanttCmd(app *App) *cobra.Command {
	var scale gantt.Scale
	var width int

	cmd := &cobra.Command{
		Use:   "gantt PROJECT",
		Short: "Draw the schedule as a Gantt chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := app.Schedules.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderGantt(doc, scale, width))
			return nil
		},
	}

	enumVar(cmd, &scale, gantt.ScaleAuto, "scale", "Tick scale", scales...)
	cmd.Flags().IntVar(&width, "width", 100, "Total line width in columns")

	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import PROJECT FILE",
		Short: "Replace a project's schedule with a JSON or YAML document",
		Long: "Reads FILE (.json, .yaml or .yml), repairs whatever it can and stores the\n" +
			"result without re-chaining dates. Problems that were repaired are listed.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := importer.LoadDocument(args[1])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[1], err)
			}
			res, err := app.Schedules.Import(cmd.Context(), args[0], raw)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d groups and %d rows into %s\n",
				len(res.Document.Groups), len(res.Document.Rows), args[0])
			fmt.Fprint(out, formatter.FormatRepairs(res.Repairs))
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var format importer.Format
	var output string

	cmd := &cobra.Command{
		Use:   "export PROJECT",
		Short: "Write the normalized schedule as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := app.Schedules.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := importer.Encode(importer.FromDocument(doc), format)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], output)
			return nil
		},
	}

	enumVar(cmd, &format, importer.FormatJSON, "format", "Output format", formats...)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored schedules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := app.Schedules.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatScheduleList(summaries, app.now()))
			return nil
		},
	}
}

func newDropScheduleCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "drop-schedule PROJECT",
		Short: "Delete a project's stored schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := app.confirm(
				fmt.Sprintf("Delete the schedule of %s?", args[0]),
				"Every group and row is removed. This cannot be undone.", yes)
			if err != nil {
				return err
			}
			if !ok {
				printCancelled(cmd.OutOrStdout())
				return nil
			}
			if err := app.Schedules.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("schedule %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted schedule %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newSettingsCmd(app *App) *cobra.Command {
	var mode domain.WeekendMode
	var anchor string

	cmd := &cobra.Command{
		Use:   "settings PROJECT",
		Short: "Show or change the anchor date and weekend mode",
		Long: "Without flags, prints the settings. --mode re-derives every task's end from\n" +
			"its duration and re-chains the schedule; --anchor moves the first row and\n" +
			"everything after it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var edits []service.Edit
			if cmd.Flags().Changed("mode") {
				edits = append(edits, service.SetWeekendMode(mode))
			}
			if cmd.Flags().Changed("anchor") {
				edits = append(edits, service.SetAnchorDate(anchor))
			}

			var doc domain.Document
			if len(edits) == 0 {
				loaded, err := app.Schedules.Load(ctx, args[0])
				if err != nil {
					return err
				}
				doc = loaded
			}
			for _, edit := range edits {
				res, err := app.Schedules.Apply(ctx, args[0], edit)
				if err != nil {
					return err
				}
				doc = res.Document
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSettings(args[0], doc))
			return nil
		},
	}

	enumVar(cmd, &mode, domain.WeekendExclude, "mode", "Weekend mode", weekendModes...)
	cmd.Flags().StringVar(&anchor, "anchor", "", "Anchor date (YYYY-MM-DD)")

	return cmd
}

// rowSummary is the one-line description of a row used in confirmations.
func rowSummary(doc domain.Document, id string) string {
	i := doc.RowByID(id)
	if i < 0 {
		return id
	}
	r := doc.Rows[i]
	name := r.Name
	if name == "" {
		name = id
	}
	return fmt.Sprintf("#%d %s (%s)", rowNumber(doc, id), name, formatter.RowSpan(r))
}
