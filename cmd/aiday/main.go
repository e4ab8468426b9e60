// aiday is an interactive planner for customer AI Day workshops. It
// gathers event context, runs Gemini-backed clarification and deep
// research, and exports the refined plan as Markdown or PDF.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aiday/internal/config"
	"aiday/internal/export"
	"aiday/internal/gateway"
	"aiday/internal/logging"
	"aiday/internal/prompts"
	"aiday/internal/speech"
	"aiday/internal/wizard"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
		outputDir  string
		model      string
	)

	root := &cobra.Command{
		Use:     "aiday",
		Short:   "Plan an executive AI Day workshop",
		Long:    "aiday walks through a four phase wizard: context gathering, AI clarification, deep research, and plan refinement with Markdown and PDF export.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = config.DefaultPath()
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			if model != "" {
				cfg.Model = model
			}
			if verbose {
				cfg.Logging.Verbose = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runWizard(cmd.Context(), cfg)
		},
	}

	root.Flags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.aiday/config.yaml)")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.Flags().StringVarP(&outputDir, "output", "o", "", "directory for exported plans")
	root.Flags().StringVarP(&model, "model", "m", "", "Gemini model to use")

	return root
}

func runWizard(ctx context.Context, cfg config.Config) error {
	// Logs go to a file while the TUI owns the terminal.
	log, err := logging.NewFile(cfg.Logging.File, cfg.Logging.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	store := prompts.NewStore()
	if cfg.PromptsFile != "" {
		override, err := config.LoadPromptOverrides(cfg.PromptsFile)
		if err != nil {
			return err
		}
		store.Apply(override)
	}

	gw, err := gateway.New(ctx, gateway.ClientConfig{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("initialize gateway: %w", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.PromptsFile != "" {
		go func() {
			if err := config.WatchPrompts(watchCtx, cfg.PromptsFile, store, log); err != nil && watchCtx.Err() == nil {
				log.Warn("prompt watcher stopped", zap.Error(err))
			}
		}()
	}

	machine := wizard.New(gw, store, log)
	saver := export.DirSaver{Dir: cfg.OutputDir}
	model := newWizardModel(machine, store, saver, speech.Unsupported{}, log)

	log.Info("starting wizard",
		zap.String("model", cfg.Model),
		zap.String("session_id", machine.SessionID()),
		zap.String("version", version))

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("wizard terminated: %w", err)
	}
	return nil
}
