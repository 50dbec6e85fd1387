// Command annotate is a terminal workspace for labeling text segments.
// Without arguments it opens the TUI; subcommands manage projects, label
// taxonomies and texts.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"annotate/internal/annotation"
	"annotate/internal/config"
	"annotate/internal/guidelines"
	"annotate/internal/logging"
	"annotate/internal/project"
	"annotate/internal/telemetry"
	"annotate/internal/ui"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "annotate",
		Short:         "Label text segments from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runTUI,
	}
	root.AddCommand(
		NewProjectCmd(),
		NewLabelsCmd(),
		NewTextCmd(),
	)
	return root
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rec, err := telemetry.New(ctx, cfg.Telemetry)
	if err != nil {
		log.Warn("telemetry disabled", zap.Error(err))
		rec = telemetry.Disabled()
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rec.Shutdown(sctx); err != nil {
			log.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	store, err := annotation.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	projects := project.NewManager(cfg.ProjectsDir)
	app := ui.NewAppModel(ui.Deps{
		Config:      cfg,
		Projects:    projects,
		Guidelines:  guidelines.NewStore(projects),
		Annotations: store,
		Telemetry:   rec,
		Log:         log,
		Context:     ctx,
		WatchLabels: true,
	})
	defer app.Close()

	log.Info("starting", zap.String("projects", cfg.ProjectsDir), zap.String("database", cfg.Database))
	p := tea.NewProgram(app.AsTeaModel(), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// loadManager returns the project manager for the configured projects dir.
func loadManager() (*project.Manager, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	return project.NewManager(cfg.ProjectsDir), cfg, nil
}
