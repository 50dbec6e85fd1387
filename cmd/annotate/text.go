package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"annotate/internal/project"
)

// NewTextCmd groups text commands.
func NewTextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Manage the texts of a project",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "import PROJECT FILE...",
			Short: "Copy files into a project",
			Args:  cobra.MinimumNArgs(2),
			RunE:  textImportHandler,
		},
		&cobra.Command{
			Use:     "list PROJECT",
			Aliases: []string{"ls"},
			Short:   "List texts with their segment counts",
			Args:    cobra.ExactArgs(1),
			RunE:    textListHandler,
		},
	)
	return cmd
}

func textImportHandler(cmd *cobra.Command, args []string) error {
	m, _, err := loadManager()
	if err != nil {
		return err
	}
	for _, src := range args[1:] {
		name, err := m.ImportText(args[0], src)
		if err != nil {
			return fmt.Errorf("import %s: %w", src, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", name)
	}
	return nil
}

func textListHandler(cmd *cobra.Command, args []string) error {
	m, cfg, err := loadManager()
	if err != nil {
		return err
	}
	mode, err := project.ParseMode(cfg.Workspace.Segmenter)
	if err != nil {
		return err
	}
	texts, err := m.ListTexts(args[0])
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(texts))
	for _, t := range texts {
		body, err := m.LoadText(args[0], t)
		if err != nil {
			return err
		}
		rows = append(rows, []string{t, strconv.Itoa(len(project.Split(body, mode))), strconv.Itoa(len(body))})
	}
	renderTable(cmd.OutOrStdout(), []string{"TEXT", "SEGMENTS", "BYTES"}, rows)
	return nil
}
