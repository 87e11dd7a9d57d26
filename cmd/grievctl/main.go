package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/programme-lv/grievance/conf"
	"github.com/programme-lv/grievance/grievance"
	"github.com/programme-lv/grievance/logger"
	"github.com/programme-lv/grievance/publish"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	var rootCmd = &cobra.Command{
		Use:           "grievctl",
		Short:         "File grievances from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("GRIEVANCE_CONFIG"), "Path to a TOML config file")

	var message, severity, date string

	var submitCmd = &cobra.Command{
		Use:   "submit",
		Short: "Validate and submit one grievance",
		RunE: func(cmd *cobra.Command, args []string) error {
			workflow, ctx, err := setupWorkflow(cmd.Context(), configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runSubmit(ctx, cmd.OutOrStdout(), workflow, grievance.Draft{
				Grievance: message,
				Severity:  grievance.Severity(severity),
				Date:      date,
			})
		},
	}
	submitCmd.Flags().StringVarP(&message, "message", "m", "", "Grievance text (10 to 500 characters)")
	submitCmd.Flags().StringVarP(&severity, "severity", "s", "", "Severity level [minor, moderate, severe]")
	submitCmd.Flags().StringVarP(&date, "date", "d", "", "Date of the incident, defaults to today (UTC)")

	var logFile string

	var tuiCmd = &cobra.Command{
		Use:   "tui",
		Short: "Fill in grievances in an interactive form",
		RunE: func(cmd *cobra.Command, args []string) error {
			var logOut io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}

			workflow, ctx, err := setupWorkflow(cmd.Context(), configPath, logOut)
			if err != nil {
				return err
			}
			p := tea.NewProgram(newFormModel(ctx, workflow), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}
	tuiCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the form is open")

	rootCmd.AddCommand(submitCmd, tuiCmd)
	return rootCmd
}

// setupWorkflow loads the configuration and returns a workflow wired to the
// configured transport, plus a context that carries the logger.
func setupWorkflow(ctx context.Context, configPath string, logOut io.Writer) (*grievance.Workflow, context.Context, error) {
	cfg, err := conf.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	level, _ := logger.ParseLevel(cfg.Log.Level)
	log, err := logger.New(logOut, level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	ctx = logger.WithLogger(ctx, log)

	sender, err := publish.FromConfig(ctx, cfg.Publish, logOut)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sender: %w", err)
	}
	return grievance.NewWorkflow(sender), ctx, nil
}
