package commands

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
)

func newSummaryCmd(opts *Options, factory ServiceFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Active time per tag or per task over a window",
	}
	cmd.AddCommand(newTagSummaryCmd(opts, factory))
	cmd.AddCommand(newTaskSummaryCmd(opts, factory))
	return cmd
}

func newTagSummaryCmd(opts *Options, factory ServiceFactory) *cobra.Command {
	var wf windowFlags
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Active time per tag, overlaps between tasks of a tag counted once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts, factory, func(ctx context.Context, svc ActivityService) error {
				w, err := wf.window(svc.Location(), svc.Now())
				if err != nil {
					return err
				}
				summaries, err := svc.TagSummary(ctx, w)
				if err != nil {
					return err
				}
				if opts.Output == outputJSON {
					return writeJSON(cmd.OutOrStdout(), summaries)
				}
				rows := make([][]string, 0, len(summaries))
				for _, s := range summaries {
					rows = append(rows, []string{strconv.FormatInt(s.TagID, 10), s.TagName, activity.FormatDuration(s.ActiveTimeMs)})
				}
				return writeTable(cmd.OutOrStdout(), []string{"ID", "TAG", "ACTIVE"}, rows)
			})
		},
	}
	wf.register(cmd)
	return cmd
}

func newTaskSummaryCmd(opts *Options, factory ServiceFactory) *cobra.Command {
	var wf windowFlags
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Active time per task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts, factory, func(ctx context.Context, svc ActivityService) error {
				w, err := wf.window(svc.Location(), svc.Now())
				if err != nil {
					return err
				}
				results, err := svc.TaskSummary(ctx, w)
				if err != nil {
					return err
				}
				if opts.Output == outputJSON {
					return writeJSON(cmd.OutOrStdout(), results)
				}
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					rows = append(rows, []string{strconv.FormatInt(r.TaskID, 10), r.TaskName, activity.FormatDuration(r.ActiveTimeMs)})
				}
				return writeTable(cmd.OutOrStdout(), []string{"ID", "TASK", "ACTIVE"}, rows)
			})
		},
	}
	wf.register(cmd)
	return cmd
}
