// Package commands implements the tasktime command line client. It talks to
// the tracker backend directly and computes everything locally.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/backend"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/config"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/logger"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/service"
)

// ActivityService is what the commands need from service.ActivityService
type ActivityService interface {
	Location() *time.Location
	Now() time.Time
	TagSummary(ctx context.Context, w activity.Window) ([]activity.TagActivitySummary, error)
	TaskSummary(ctx context.Context, w activity.Window) ([]activity.TaskActiveTimeResult, error)
	ListTasks(ctx context.Context, tagIDs []int64) ([]service.TaskStatus, error)
	Intervals(ctx context.Context, id int64, w activity.Window) (*service.TaskIntervals, error)
	Daily(ctx context.Context, id int64, from, to time.Time) ([]activity.DayActivity, error)
	StartTask(ctx context.Context, id int64) error
	StopTask(ctx context.Context, id int64) error
}

var _ ActivityService = (*service.ActivityService)(nil)

// Options are the global flags shared by every command
type Options struct {
	BackendURL string
	Timezone   string
	Output     string
	Debug      bool
}

// ServiceFactory builds the service a command runs against
type ServiceFactory func(opts *Options) (ActivityService, func(), error)

// NewRootCmd creates the tasktime root command wired to the real backend
func NewRootCmd() *cobra.Command {
	return newRootCmd(newBackendService)
}

func newRootCmd(factory ServiceFactory) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "tasktime",
		Short:         "Time tracking reports for the tracker backend",
		Long:          "Summaries of active time per tag and per task, task intervals and daily totals.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.Output {
			case outputTable, outputJSON:
				return nil
			default:
				return fmt.Errorf("--output must be %q or %q", outputTable, outputJSON)
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.BackendURL, "backend", "", "Tracker backend URL (default $BACKEND_URL)")
	flags.StringVar(&opts.Timezone, "tz", "", "IANA time zone for local times and days (default $TIMESTAMP_TIMEZONE)")
	flags.StringVarP(&opts.Output, "output", "o", outputTable, "Output format: table or json")
	flags.BoolVar(&opts.Debug, "debug", false, "Log backend requests to stderr")

	cmd.AddCommand(newSummaryCmd(opts, factory))
	cmd.AddCommand(newIntervalsCmd(opts, factory))
	cmd.AddCommand(newDailyCmd(opts, factory))
	cmd.AddCommand(newStatusCmd(opts, factory))
	cmd.AddCommand(newRecordCmd(opts, factory, activity.Start))
	cmd.AddCommand(newRecordCmd(opts, factory, activity.Stop))

	return cmd
}

// newBackendService reads the environment configuration, applies flag overrides
// and connects an uncached service to the backend.
func newBackendService(opts *Options) (ActivityService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	loc := cfg.Location
	if opts.Timezone != "" {
		loc, err = time.LoadLocation(opts.Timezone)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --tz: %w", err)
		}
	}
	backendURL := cfg.BackendURL
	if opts.BackendURL != "" {
		backendURL = opts.BackendURL
	}

	zapLogger, err := logger.NewConsoleLogger(opts.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize logger: %w", err)
	}
	cleanup := func() { _ = logger.Sync(zapLogger) }

	client, err := backend.NewClient(backendURL, cfg.BackendTimeout, zapLogger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("create backend client: %w", err)
	}
	zapLogger.Debug("cli_backend_configured", zap.String("backend_url", backendURL), zap.String("timezone", loc.String()))

	return service.NewActivityService(client, loc, service.WithLogger(zapLogger)), cleanup, nil
}

// withService runs fn against a service built by factory and releases it afterwards
func withService(cmd *cobra.Command, opts *Options, factory ServiceFactory, fn func(ctx context.Context, svc ActivityService) error) error {
	svc, cleanup, err := factory(opts)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return fn(cmd.Context(), svc)
}
