package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// windowFlags are the --start/--end pair of window-based commands
type windowFlags struct {
	start string
	end   string
}

func (f *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "Window start, RFC3339 or YYYY-MM-DD[THH:MM[:SS]] (default start of today)")
	cmd.Flags().StringVar(&f.end, "end", "", "Window end, same formats as --start (default now)")
}

// window resolves the flags the same way the HTTP API resolves start/end
func (f *windowFlags) window(loc *time.Location, now time.Time) (activity.Window, error) {
	w, err := activity.ParseWindow(f.start, f.end, loc, now)
	if err != nil {
		return activity.Window{}, fmt.Errorf("--%w", err)
	}
	if err := w.Validate(); err != nil {
		return activity.Window{}, err
	}
	return w, nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeTable prints a header and rows aligned in columns
func writeTable(out io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func formatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02 15:04:05")
}
