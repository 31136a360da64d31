package cli

import (
	"fmt"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/hierarchy"
	"github.com/alexanderramin/gantry/internal/scheduler"
	"github.com/alexanderramin/gantry/internal/service"
	"github.com/spf13/cobra"
)

var (
	rowKinds  = []domain.RowKind{domain.RowTask, domain.RowEvent}
	rowFields = []domain.RowField{
		domain.FieldName, domain.FieldNote, domain.FieldDuration,
		domain.FieldStartDate, domain.FieldEndDate,
	}
)

// rowNumber is the 1-based canonical position shown by show and gantt.
func rowNumber(doc domain.Document, id string) int {
	return hierarchy.IndexOf(doc, id) + 1
}

func newRowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "row",
		Short: "Add, edit, move and delete rows",
	}

	cmd.AddCommand(
		newRowAddCmd(app),
		newRowSetCmd(app),
		newRowRemoveCmd(app),
		newRowMoveCmd(app),
		newRowDropCmd(app),
		newRowRetypeCmd(app),
	)

	return cmd
}

func newRowAddCmd(app *App) *cobra.Command {
	var group, name, note, id string
	var kind domain.RowKind
	var duration int

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add a row as the last row of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if duration < 0 {
				return fmt.Errorf("--duration cannot be negative")
			}
			res, err := app.Schedules.Apply(cmd.Context(), args[0], service.AddRow(scheduler.RowDraft{
				ID:           id,
				Kind:         kind,
				Name:         name,
				ParentID:     group,
				DurationDays: duration,
				Note:         note,
			}))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", kind, rowSummary(res.Document, res.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "Parent group ID (a stage root such as stage:design works too)")
	enumVar(cmd, &kind, domain.RowTask, "kind", "Row kind", rowKinds...)
	cmd.Flags().StringVar(&name, "name", "", "Row name")
	cmd.Flags().IntVar(&duration, "duration", 1, "Duration in schedule days (tasks only)")
	cmd.Flags().StringVar(&note, "note", "", "Free-text note")
	cmd.Flags().StringVar(&id, "id", "", "Row ID (generated when empty or taken)")
	_ = cmd.MarkFlagRequired("group")

	return cmd
}

func newRowSetCmd(app *App) *cobra.Command {
	validField, completeField := argEnum(2, rowFields...)

	return &cobra.Command{
		Use:   "set PROJECT ID FIELD VALUE",
		Short: "Edit one row field and re-chain the rows after it",
		Long: "FIELD is one of name, note, duration_days, start_date or end_date.\n" +
			"Date edits keep the row where you put it and push every later row.",
		Args:              cobra.MatchAll(cobra.ExactArgs(4), validField),
		ValidArgsFunction: completeField,
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := parseEnum(args[2], rowFields...)
			if err != nil {
				return err
			}
			res, err := app.Schedules.Apply(cmd.Context(), args[0], service.SetRowField(args[1], field, args[3]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", rowSummary(res.Document, args[1]))
			return nil
		},
	}
}

func newRowRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm PROJECT ID",
		Aliases: []string{"delete"},
		Short:   "Delete a row and pull the rows after it forward",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := app.Schedules.Load(ctx, args[0])
			if err != nil {
				return err
			}
			if doc.RowByID(args[1]) < 0 {
				return fmt.Errorf("row %s: %w", args[1], domain.ErrNotFound)
			}
			ok, err := app.confirm(fmt.Sprintf("Delete row %s?", rowSummary(doc, args[1])), "", yes)
			if err != nil {
				return err
			}
			if !ok {
				printCancelled(cmd.OutOrStdout())
				return nil
			}
			if _, err := app.Schedules.Apply(ctx, args[0], service.DeleteRow(args[1])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted row %s\n", args[1])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newRowMoveCmd(app *App) *cobra.Command {
	validDir, completeDir := argEnum(2, directions...)

	return &cobra.Command{
		Use:               "move PROJECT ID up|down",
		Short:             "Swap a row with its previous or next sibling",
		Args:              cobra.MatchAll(cobra.ExactArgs(3), validDir),
		ValidArgsFunction: completeDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := parseEnum(args[2], directions...)
			if err != nil {
				return err
			}
			res, err := app.Schedules.Apply(cmd.Context(), args[0], service.MoveRow(args[1], dir))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved row %s %s, now %s\n", args[1], dir, rowSummary(res.Document, args[1]))
			return nil
		},
	}
}

func newRowDropCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "drop PROJECT ID TARGET_ID",
		Short: "Move a row into a group, or directly after another row",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Schedules.Apply(cmd.Context(), args[0], service.DropRow(args[1], args[2]))
			if err != nil {
				return err
			}
			doc := res.Document
			where := "after row " + args[2]
			if doc.GroupByID(args[2]) >= 0 {
				where = "into group " + groupName(doc, args[2])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dropped row %s %s, now %s\n", args[1], where, rowSummary(doc, args[1]))
			return nil
		},
	}
}

func newRowRetypeCmd(app *App) *cobra.Command {
	validKind, completeKind := argEnum(2, rowKinds...)

	return &cobra.Command{
		Use:               "retype PROJECT ID task|event",
		Short:             "Turn a task into an event or back",
		Args:              cobra.MatchAll(cobra.ExactArgs(3), validKind),
		ValidArgsFunction: completeKind,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseEnum(args[2], rowKinds...)
			if err != nil {
				return err
			}
			res, err := app.Schedules.Apply(cmd.Context(), args[0], service.RetypeRow(args[1], kind))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Row %s is now %s %s\n", args[1], article(kind), rowSummary(res.Document, args[1]))
			return nil
		},
	}
}

func article(kind domain.RowKind) string {
	if kind == domain.RowEvent {
		return "an event"
	}
	return "a task"
}
