package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/kronos/internal/store"
)

// AlertsOptions holds flags for the alerts command.
type AlertsOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// NewAlertsCommand creates the alerts command.
func NewAlertsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AlertsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List journaled alerts",
		Long: `List alerts recorded by the observer loop, newest first.

Example:
  kronos alerts --db ./kronos.db
  kronos alerts --db ./kronos.db --limit 10 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlerts(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of alerts to list (0 = all)")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runAlerts(opts *AlertsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		wrapped := WrapExitError(ExitCommandError, "failed to open database", err)
		_ = formatter.Error("E_STORE", wrapped.Error())
		return wrapped
	}
	defer st.Close()

	records, err := st.ListAlerts(cmd.Context(), opts.Limit)
	if err != nil {
		wrapped := WrapExitError(ExitFailure, "failed to list alerts", err)
		_ = formatter.Error("E_STORE", wrapped.Error())
		return wrapped
	}

	return formatter.Success(newAlertList(records))
}

type alertEntry struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	FiredAt string `json:"fired_at"`
}

type alertList struct {
	Alerts []alertEntry `json:"alerts"`
	Count  int          `json:"count"`
}

func newAlertList(records []store.AlertRecord) alertList {
	entries := make([]alertEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, alertEntry{
			ID:      rec.ID,
			Kind:    string(rec.Kind),
			Message: rec.Message,
			FiredAt: rec.FiredAt,
		})
	}
	return alertList{Alerts: entries, Count: len(entries)}
}

func (l alertList) String() string {
	if l.Count == 0 {
		return "No alerts recorded."
	}
	var b strings.Builder
	for i, a := range l.Alerts {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s  %-25s %s  (%s)", a.FiredAt, a.Kind, a.Message, a.ID)
	}
	return b.String()
}
