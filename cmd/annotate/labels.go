package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"annotate/internal/label"
)

// NewLabelsCmd groups taxonomy commands.
func NewLabelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Edit a project's label taxonomy",
	}

	add := &cobra.Command{
		Use:   "add PROJECT ID NAME",
		Short: "Add a label",
		Args:  cobra.ExactArgs(3),
		RunE:  labelsAddHandler,
	}
	add.Flags().String("color", "", "label color, e.g. #e06c75")
	add.Flags().String("shortcut", "", "single key that toggles the label")
	add.Flags().String("description", "", "when the label applies")

	cmd.AddCommand(
		&cobra.Command{
			Use:     "list PROJECT",
			Aliases: []string{"ls"},
			Short:   "List labels",
			Args:    cobra.ExactArgs(1),
			RunE:    labelsListHandler,
		},
		add,
		&cobra.Command{
			Use:     "remove PROJECT ID",
			Aliases: []string{"rm"},
			Short:   "Remove a label; existing annotations keep its id",
			Args:    cobra.ExactArgs(2),
			RunE:    labelsRemoveHandler,
		},
	)
	return cmd
}

func labelsListHandler(cmd *cobra.Command, args []string) error {
	m, _, err := loadManager()
	if err != nil {
		return err
	}
	if !m.Exists(args[0]) {
		return fmt.Errorf("project %s not found", args[0])
	}
	set, err := m.LoadLabels(args[0])
	if err != nil {
		return err
	}
	rows := make([][]string, 0, set.Len())
	for _, l := range set.Labels() {
		rows = append(rows, []string{l.ID, l.Name, l.Shortcut, l.Color, l.Description})
	}
	renderTable(cmd.OutOrStdout(), []string{"ID", "NAME", "KEY", "COLOR", "DESCRIPTION"}, rows)

	for key, ids := range set.ShortcutConflicts() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: shortcut %q is bound to %v; the first one wins\n", key, ids)
	}
	return nil
}

func labelsAddHandler(cmd *cobra.Command, args []string) error {
	m, _, err := loadManager()
	if err != nil {
		return err
	}
	projectName := args[0]
	if !m.Exists(projectName) {
		return fmt.Errorf("project %s not found", projectName)
	}
	set, err := m.LoadLabels(projectName)
	if err != nil {
		return err
	}
	l := label.Label{ID: args[1], Name: args[2]}
	l.Color, _ = cmd.Flags().GetString("color")
	l.Shortcut, _ = cmd.Flags().GetString("shortcut")
	l.Description, _ = cmd.Flags().GetString("description")

	if err := m.SaveLabels(projectName, append(set.Labels(), l)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", l.ID, projectName)
	return nil
}

func labelsRemoveHandler(cmd *cobra.Command, args []string) error {
	m, _, err := loadManager()
	if err != nil {
		return err
	}
	projectName, id := args[0], args[1]
	set, err := m.LoadLabels(projectName)
	if err != nil {
		return err
	}
	if _, ok := set.Get(id); !ok {
		return fmt.Errorf("label %s not found in %s", id, projectName)
	}
	labels := slices.DeleteFunc(set.Labels(), func(l label.Label) bool { return l.ID == id })
	if err := m.SaveLabels(projectName, labels); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s from %s\n", id, projectName)
	return nil
}
