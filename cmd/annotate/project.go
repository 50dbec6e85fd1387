package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"annotate/internal/annotation"
	"annotate/internal/project"
)

// NewProjectCmd groups project management commands.
func NewProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage annotation projects",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List projects",
			Args:    cobra.NoArgs,
			RunE:    projectListHandler,
		},
		&cobra.Command{
			Use:   "create NAME",
			Short: "Create a project with a starter taxonomy",
			Args:  cobra.ExactArgs(1),
			RunE:  projectCreateHandler,
		},
		&cobra.Command{
			Use:     "delete NAME",
			Aliases: []string{"rm"},
			Short:   "Delete a project and its annotations",
			Args:    cobra.ExactArgs(1),
			RunE:    projectDeleteHandler,
		},
	)
	return cmd
}

func projectListHandler(cmd *cobra.Command, _ []string) error {
	m, _, err := loadManager()
	if err != nil {
		return err
	}
	infos, err := m.ListProjects()
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{info.Name, strconv.Itoa(info.TextCount), strconv.Itoa(info.LabelCount)})
	}
	renderTable(cmd.OutOrStdout(), []string{"NAME", "TEXTS", "LABELS"}, rows)
	return nil
}

func projectCreateHandler(cmd *cobra.Command, args []string) error {
	m, _, err := loadManager()
	if err != nil {
		return err
	}
	if err := m.CreateProject(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", m.ProjectDir(args[0]))
	return nil
}

func projectDeleteHandler(cmd *cobra.Command, args []string) error {
	m, cfg, err := loadManager()
	if err != nil {
		return err
	}
	name := project.Normalize(args[0])
	if err := m.DeleteProject(name); err != nil {
		return err
	}
	store, err := annotation.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	n, err := store.DeleteProject(ctx, name)
	if err != nil {
		return fmt.Errorf("delete annotations: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s (%d annotations)\n", name, n)
	return nil
}
