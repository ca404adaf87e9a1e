package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/watch2give/streakd/internal/store"
	"github.com/watch2give/streakd/internal/token"
	"github.com/watch2give/streakd/internal/tracker"
)

// SubmitOptions holds flags for the submit command.
type SubmitOptions struct {
	*RootOptions
	Database string
	Vendor   string
	Token    string
	Action   string
	Photos   int
}

// submitResult is the JSON payload for the submit command.
type submitResult struct {
	SubmissionID string   `json:"submission_id"`
	Action       string   `json:"action"`
	Count        int      `json:"count"`
	Effects      []string `json:"effects,omitempty"`
}

// NewSubmitCommand creates the submit command.
func NewSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SubmitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a token action",
		Long: `Submit a token action (Redeem, Stake, or Restock) and record
the resulting activity event.

Restock requires at least one proof photo (--photos).

Example:
  streakd submit --db ./streakd.db --token TKN-7 --action Redeem
  streakd submit --db ./streakd.db --token TKN-7 --action Restock --photos 2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Vendor, "vendor", "default", "vendor key")
	cmd.Flags().StringVar(&opts.Token, "token", "", "token text (required)")
	cmd.Flags().StringVar(&opts.Action, "action", "", "action: Redeem|Stake|Restock (required)")
	cmd.Flags().IntVar(&opts.Photos, "photos", 0, "number of proof photos attached")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("action")

	return cmd
}

func runSubmit(opts *SubmitOptions, cmd *cobra.Command) error {
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
	tr.Start(ctx)

	svc := token.NewService(st, tr, tracker.WallClock{}, opts.Vendor, nil)
	res, err := svc.Submit(ctx, opts.Token, token.Action(opts.Action), opts.Photos)
	if err != nil {
		var verr *token.ValidationError
		if errors.As(err, &verr) {
			return WrapExitError(ExitFailure, "submission rejected", verr)
		}
		return WrapExitError(ExitFailure, "submission failed", err)
	}

	effects := make([]string, 0, len(res.Effects))
	for _, e := range res.Effects {
		effects = append(effects, e.String())
	}
	result := submitResult{
		SubmissionID: res.Submission.ID,
		Action:       string(res.Submission.Action),
		Count:        res.StreakCount,
		Effects:      effects,
	}
	return printResult(cmd.OutOrStdout(), opts.Format, result, func(w io.Writer) {
		fmt.Fprintf(w, "%s done: token successfully processed\n", result.Action)
		fmt.Fprintf(w, "streak: %d\n", result.Count)
		for _, e := range result.Effects {
			fmt.Fprintf(w, "  %s\n", e)
		}
	})
}
