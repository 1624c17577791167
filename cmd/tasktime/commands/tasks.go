package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
)

func newIntervalsCmd(opts *Options, factory ServiceFactory) *cobra.Command {
	var wf windowFlags
	var taskID int64
	cmd := &cobra.Command{
		Use:   "intervals",
		Short: "Activity intervals of one task that overlap a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts, factory, func(ctx context.Context, svc ActivityService) error {
				loc := svc.Location()
				w, err := wf.window(loc, svc.Now())
				if err != nil {
					return err
				}
				detail, err := svc.Intervals(ctx, taskID, w)
				if err != nil {
					return err
				}
				if opts.Output == outputJSON {
					return writeJSON(cmd.OutOrStdout(), detail)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", detail.TaskName, detail.TaskID)
				rows := make([][]string, 0, len(detail.Intervals))
				for _, iv := range detail.Intervals {
					end, duration := "running", ""
					if iv.End != nil {
						end = formatTime(*iv.End, loc)
						duration = activity.FormatDuration(iv.End.Sub(iv.Start).Milliseconds())
					}
					rows = append(rows, []string{formatTime(iv.Start, loc), end, duration})
				}
				return writeTable(cmd.OutOrStdout(), []string{"START", "END", "DURATION"}, rows)
			})
		},
	}
	cmd.Flags().Int64Var(&taskID, "task", 0, "Task ID (required)")
	_ = cmd.MarkFlagRequired("task")
	wf.register(cmd)
	return cmd
}

func newDailyCmd(opts *Options, factory ServiceFactory) *cobra.Command {
	var taskID int64
	var from, to string
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Active minutes of one task per calendar day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts, factory, func(ctx context.Context, svc ActivityService) error {
				loc := svc.Location()
				first, last, err := dayRange(from, to, loc, svc.Now())
				if err != nil {
					return err
				}
				days, err := svc.Daily(ctx, taskID, first, last)
				if err != nil {
					return err
				}
				if opts.Output == outputJSON {
					return writeJSON(cmd.OutOrStdout(), days)
				}
				rows := make([][]string, 0, len(days))
				for _, d := range days {
					rows = append(rows, []string{d.Date, strconv.FormatInt(d.Minutes, 10)})
				}
				return writeTable(cmd.OutOrStdout(), []string{"DATE", "MINUTES"}, rows)
			})
		},
	}
	cmd.Flags().Int64Var(&taskID, "task", 0, "Task ID (required)")
	_ = cmd.MarkFlagRequired("task")
	cmd.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD (default yesterday)")
	cmd.Flags().StringVar(&to, "to", "", "Last day, YYYY-MM-DD (default today)")
	return cmd
}

func dayRange(from, to string, loc *time.Location, now time.Time) (time.Time, time.Time, error) {
	first, last, err := activity.ParseDayRange(from, to, loc, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--%w", err)
	}
	return first, last, nil
}

func newStatusCmd(opts *Options, factory ServiceFactory) *cobra.Command {
	var tagIDs []int64
	cmd := &cobra.Command{
		Use:   "status",
		Short: "List tasks with their tags and whether they are running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts, factory, func(ctx context.Context, svc ActivityService) error {
				tasks, err := svc.ListTasks(ctx, tagIDs)
				if err != nil {
					return err
				}
				if opts.Output == outputJSON {
					return writeJSON(cmd.OutOrStdout(), tasks)
				}
				rows := make([][]string, 0, len(tasks))
				for _, t := range tasks {
					names := make([]string, len(t.Tags))
					for i, tag := range t.Tags {
						names[i] = tag.Name
					}
					state := "stopped"
					if t.IsActive {
						state = "active"
					}
					rows = append(rows, []string{strconv.FormatInt(t.ID, 10), t.Name, strings.Join(names, ","), state})
				}
				return writeTable(cmd.OutOrStdout(), []string{"ID", "TASK", "TAGS", "STATE"}, rows)
			})
		},
	}
	cmd.Flags().Int64SliceVar(&tagIDs, "tags", nil, "Only tasks carrying all of these tag IDs")
	return cmd
}

// newRecordCmd builds the start or stop command
func newRecordCmd(opts *Options, factory ServiceFactory, typ activity.EventType) *cobra.Command {
	return &cobra.Command{
		Use:   typ.String() + " <task-id>",
		Short: fmt.Sprintf("Record a %s event for a task", strings.ToUpper(typ.String())),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid task ID %q", args[0])
			}
			return withService(cmd, opts, factory, func(ctx context.Context, svc ActivityService) error {
				if typ == activity.Start {
					err = svc.StartTask(ctx, id)
				} else {
					err = svc.StopTask(ctx, id)
				}
				if err != nil {
					return err
				}
				if opts.Output == outputJSON {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"task_id": id, "type": typ.String(), "is_active": typ == activity.Start})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d: %s recorded\n", id, typ.String())
				return nil
			})
		},
	}
}
