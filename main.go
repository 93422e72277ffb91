package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/calendar/internal/config"
	"github.com/sadopc/calendar/internal/logging"
	"github.com/sadopc/calendar/internal/notify"
	"github.com/sadopc/calendar/internal/service"
	"github.com/sadopc/calendar/internal/store"
	"github.com/sadopc/calendar/internal/tui"
)

var (
	cfgFile string
	route   string
)

func newRootCmd() *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "A terminal calendar and to-do list",
		Long: `calendar keeps a to-do list organised by due date.

Pick a day on the month grid to see its tasks, then add, edit,
complete or delete them. Tasks are stored in a local SQLite file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(".env"); err != nil {
				return err
			}
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ~/.config/calendar/config.yaml)")
	flags.String("db", "", "database path (default is ~/.config/calendar/calendar.db)")
	flags.String("log-file", "", "log file path (default is ~/.cache/calendar/calendar.log)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	cmd.Flags().StringVar(&route, "route", "", `screen to open, e.g. "dailyTasks/19797"`)

	if err := config.BindFlags(v, flags); err != nil {
		panic(err)
	}
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, logFile, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logFile.Close()

	s, err := store.New(cfg.Database)
	if err != nil {
		logger.Error("open database", "path", cfg.Database, "err", err)
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()
	logger.Info("database opened", "path", cfg.Database)

	channels := notify.NewRegistry(logger)
	if err := channels.Register(notify.TaskReminderChannel()); err != nil {
		return err
	}

	svc := service.New(s, service.Options{
		GraceWindow: cfg.GraceWindow,
		Logger:      logger,
	})
	defer svc.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := tui.NewApp(ctx, svc, s, tui.Options{Logger: logger, Route: route})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		return err
	}
	logger.Info("bye")
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
