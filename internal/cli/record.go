package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/watch2give/streakd/internal/store"
	"github.com/watch2give/streakd/internal/streak"
	"github.com/watch2give/streakd/internal/tracker"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	Database string
	Vendor   string
}

// recordResult is the JSON payload for the record command.
type recordResult struct {
	Count   int      `json:"count"`
	Effects []string `json:"effects,omitempty"`
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record one activity event now",
		Long: `Record a single activity event against the streak record.

Loads the record, evaluates the streak transition at the current
instant, and prints the resulting count and any effects.

Example:
  streakd record --db ./streakd.db --vendor stall-17`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Vendor, "vendor", "default", "vendor key")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRecord(opts *RecordOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tr := tracker.New(st, tracker.WallClock{}, opts.Vendor)

	// Collect the effects the session-start evaluation publishes; for a
	// one-shot invocation that evaluation is the activity event.
	effectCh, _ := tr.Subscribe(ctx)
	tr.Start(ctx)

	var effects []string
	for {
		select {
		case e := <-effectCh:
			effects = append(effects, e.String())
			continue
		default:
		}
		break
	}

	result := recordResult{Count: tr.Count(), Effects: effects}
	return printResult(cmd.OutOrStdout(), opts.Format, result, func(w io.Writer) {
		fmt.Fprintf(w, "streak: %d/%d\n", result.Count, streak.MaxCount)
		for _, e := range result.Effects {
			fmt.Fprintf(w, "  %s\n", e)
		}
	})
}
