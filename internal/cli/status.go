package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/watch2give/streakd/internal/store"
	"github.com/watch2give/streakd/internal/streak"
)

// StatusOptions holds flags for the status command.
type StatusOptions struct {
	*RootOptions
	Database string
	Vendor   string
}

// statusResult is the JSON payload for the status command.
type statusResult struct {
	Count        int    `json:"count"`
	Max          int    `json:"max"`
	LastActivity string `json:"last_activity,omitempty"`
	UpdatedToday bool   `json:"updated_today"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatusOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current streak",
		Long: `Show the persisted streak without recording activity.

A read-only query: unlike record, it never advances, resets, or
initializes the streak.

Example:
  streakd status --db ./streakd.db --vendor stall-17`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Vendor, "vendor", "default", "vendor key")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runStatus(opts *StatusOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result := statusResult{Max: streak.MaxCount}
	rec, err := st.LoadStreak(ctx, opts.Vendor)
	switch {
	case err == nil:
		result.Count = rec.Count
		result.LastActivity = rec.LastActivity.Format("2006-01-02 15:04:05 MST")
		result.UpdatedToday = rec.UpdatedToday
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrMalformedRecord):
		// No usable record: count reads as 0.
	default:
		return WrapExitError(ExitCommandError, "failed to load streak", err)
	}

	return printResult(cmd.OutOrStdout(), opts.Format, result, func(w io.Writer) {
		fmt.Fprintf(w, "Streak: %s %d/%d\n", flames(result.Count), result.Count, result.Max)
		if result.LastActivity != "" {
			fmt.Fprintf(w, "Last activity: %s\n", result.LastActivity)
		}
		if result.UpdatedToday {
			fmt.Fprintln(w, "Already counted for the current cycle.")
		}
	})
}

// flames renders the dashboard's five-flame indicator: lit flames for the
// current count, dim ones for the remainder.
func flames(count int) string {
	lit := color.New(color.FgRed).SprintFunc()
	dim := color.New(color.FgHiBlack).SprintFunc()

	out := ""
	for i := 0; i < streak.MaxCount; i++ {
		if i < count {
			out += lit("▲")
		} else {
			out += dim("△")
		}
	}
	return out
}
