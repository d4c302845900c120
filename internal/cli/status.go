package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/kronos/internal/observer"
)

// StatusOptions holds flags for the status command.
type StatusOptions struct {
	*RootOptions
	At string // RFC 3339 instant; empty means "now"
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatusOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current celestial state",
		Long: `Compute and print the celestial state for one instant.

By default the current UTC time is used; --at computes the state for an
arbitrary instant instead, which is handy for checking upcoming events.

Example:
  kronos status
  kronos status --at 2026-12-24T18:00:00Z --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.At, "at", "", "compute state for this RFC 3339 instant instead of now")

	return cmd
}

func runStatus(opts *StatusOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	instant, err := resolveInstant(opts.At)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --at instant", err)
	}

	snap, err := observer.ComputeSnapshot(instant)
	if err != nil {
		_ = formatter.Error("E_CALC", err.Error())
		return WrapExitError(ExitFailure, "state calculation failed", err)
	}

	return formatter.Success(newStatusReport(snap))
}

func resolveInstant(at string) (time.Time, error) {
	if at == "" {
		now, err := observer.SystemClock{}.Now()
		if err != nil {
			return time.Time{}, err
		}
		return now, nil
	}
	return time.Parse(time.RFC3339, at)
}

// statusReport is the presentation shape of a snapshot, shared by the text
// and JSON renderers.
type statusReport struct {
	ObservedAt        string  `json:"observed_at"`
	PhaseFraction     float64 `json:"phase_fraction"`
	PhaseName         string  `json:"phase_name"`
	NextFullMoon      string  `json:"next_full_moon"`
	NextNewMoon       string  `json:"next_new_moon"`
	SaturnPosition    float64 `json:"saturn_position_degrees"`
	SaturnSign        string  `json:"saturn_sign"`
	NextMilestone     string  `json:"next_milestone"`
	NextMilestoneKind string  `json:"next_milestone_kind"`
	NextMilestoneSign string  `json:"next_milestone_sign"`
}

func newStatusReport(snap observer.Snapshot) statusReport {
	return statusReport{
		ObservedAt:        snap.ObservedAt.Format(time.RFC3339),
		PhaseFraction:     snap.Lunar.Fraction,
		PhaseName:         string(snap.Lunar.Name),
		NextFullMoon:      snap.Lunar.NextFull.Format(time.RFC3339),
		NextNewMoon:       snap.Lunar.NextNew.Format(time.RFC3339),
		SaturnPosition:    snap.Saturn.CyclePositionDegrees,
		SaturnSign:        snap.Saturn.Sign,
		NextMilestone:     snap.Saturn.NextMilestone.Format(time.RFC3339),
		NextMilestoneKind: string(snap.Saturn.NextMilestoneKind),
		NextMilestoneSign: snap.Saturn.NextMilestoneSign,
	}
}

// String renders the human-readable status block.
func (r statusReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Observed:        %s\n", r.ObservedAt)
	fmt.Fprintf(&b, "Moon phase:      %s (fraction %.4f)\n", r.PhaseName, r.PhaseFraction)
	fmt.Fprintf(&b, "Next full moon:  %s\n", r.NextFullMoon)
	fmt.Fprintf(&b, "Next new moon:   %s\n", r.NextNewMoon)
	fmt.Fprintf(&b, "Saturn position: %.4f deg (%s)\n", r.SaturnPosition, r.SaturnSign)
	fmt.Fprintf(&b, "Next milestone:  %s %s at %s", r.NextMilestoneKind, r.NextMilestoneSign, r.NextMilestone)
	return b.String()
}
