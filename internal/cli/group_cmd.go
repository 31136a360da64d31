package cli

import (
	"fmt"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/scheduler"
	"github.com/alexanderramin/gantry/internal/service"
	"github.com/spf13/cobra"
)

var directions = []domain.Direction{domain.MoveUp, domain.MoveDown}

func newGroupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Add, rename, move and delete groups",
	}

	cmd.AddCommand(
		newGroupAddCmd(app),
		newGroupRenameCmd(app),
		newGroupRemoveCmd(app),
		newGroupMoveCmd(app),
		newGroupReparentCmd(app),
	)

	return cmd
}

// groupName looks up a group's display name, falling back to its id.
func groupName(doc domain.Document, id string) string {
	if i := doc.GroupByID(id); i >= 0 && doc.Groups[i].Name != "" {
		return doc.Groups[i].Name
	}
	return id
}

func newGroupAddCmd(app *App) *cobra.Command {
	var name, parent, id string
	var stage domain.Stage

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add a group as the last child of a stage or another group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Schedules.Apply(cmd.Context(), args[0], service.AddGroup(scheduler.GroupDraft{
				ID:       id,
				Name:     name,
				Stage:    stage,
				ParentID: parent,
			}))
			if err != nil {
				return err
			}
			g := res.Document.Groups[res.Document.GroupByID(res.ID)]
			fmt.Fprintf(cmd.OutOrStdout(), "Added group %s [%s] to %s\n", g.Name, res.ID, g.Stage.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Group name")
	enumVar(cmd, &stage, domain.StageDesign, "stage", "Stage, used when --parent is not set", domain.Stages...)
	cmd.Flags().StringVar(&parent, "parent", "", "Parent group ID (the stage root when empty)")
	cmd.Flags().StringVar(&id, "id", "", "Group ID (generated when empty or taken)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newGroupRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename PROJECT ID NAME",
		Short: "Rename a group",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Schedules.Apply(cmd.Context(), args[0], service.RenameGroup(args[1], args[2]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed group %s to %s\n", args[1], groupName(res.Document, args[1]))
			return nil
		},
	}
}

func newGroupRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm PROJECT ID",
		Aliases: []string{"delete"},
		Short:   "Delete a group with its subgroups and rows",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := app.Schedules.Load(ctx, args[0])
			if err != nil {
				return err
			}
			if doc.GroupByID(args[1]) < 0 {
				return fmt.Errorf("group %s: %w", args[1], domain.ErrNotFound)
			}
			ok, err := app.confirm(
				fmt.Sprintf("Delete group %s?", groupName(doc, args[1])),
				"Its subgroups and rows are deleted with it.", yes)
			if err != nil {
				return err
			}
			if !ok {
				printCancelled(cmd.OutOrStdout())
				return nil
			}
			res, err := app.Schedules.Apply(ctx, args[0], service.DeleteGroup(args[1]))
			if err != nil {
				return err
			}
			if res.Document.GroupByID(args[1]) >= 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Group %s is a stage root and was kept\n", args[1])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %s (%d rows remain)\n", args[1], len(res.Document.Rows))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newGroupMoveCmd(app *App) *cobra.Command {
	validDir, completeDir := argEnum(2, directions...)

	return &cobra.Command{
		Use:               "move PROJECT ID up|down",
		Short:             "Swap a group with its previous or next sibling",
		Args:              cobra.MatchAll(cobra.ExactArgs(3), validDir),
		ValidArgsFunction: completeDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := parseEnum(args[2], directions...)
			if err != nil {
				return err
			}
			if _, err := app.Schedules.Apply(cmd.Context(), args[0], service.MoveGroup(args[1], dir)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved group %s %s\n", args[1], dir)
			return nil
		},
	}
}

func newGroupReparentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reparent PROJECT ID PARENT_ID",
		Short: "Move a group with its subtree under another group or stage root",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Schedules.Apply(cmd.Context(), args[0], service.ReparentGroup(args[1], args[2]))
			if err != nil {
				return err
			}
			doc := res.Document
			g := doc.Groups[doc.GroupByID(args[1])]
			if g.ParentID() != args[2] {
				fmt.Fprintf(cmd.OutOrStdout(), "Group %s cannot move under %s; nothing changed\n", args[1], args[2])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved group %s under %s (%s)\n", args[1], groupName(doc, args[2]), g.Stage.Label())
			return nil
		},
	}
}
