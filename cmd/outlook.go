package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/cedolino/internal/msgraph"
	"github.com/Tiliavir/cedolino/internal/timecalc"
)

var (
	outlookSyncFrom   string
	outlookSyncTo     string
	outlookSyncDate   string
	outlookSyncDryRun bool
	outlookSyncTZ     string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import work and standby events from the Outlook calendar",
	Long: `Import Outlook calendar events into the work entries. Events carrying
the configured work category become work intervals; events carrying the standby
category mark their days as standby days. Other events are ignored, and
intervals that already exist are not added twice.`,
	Args: cobra.NoArgs,
	RunE: runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned operations without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (default: config outlook.timezone)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// syncRange resolves the inclusive date range of a sync from the flags.
func syncRange(date, from, to string, now time.Time) (time.Time, time.Time, error) {
	today := timecalc.DateOnly(now)
	switch {
	case date != "":
		d, err := timecalc.ParseDate(date)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --date: %w", err)
		}
		return d, d, nil
	case from != "" || to != "":
		if from == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--from is required when --to is specified")
		}
		f, err := timecalc.ParseDate(from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
		}
		t := today
		if to != "" {
			if t, err = timecalc.ParseDate(to); err != nil {
				return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
			}
		}
		if t.Before(f) {
			return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", to, from)
		}
		return f, t, nil
	}
	return today, today, nil
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	from, to, err := syncRange(outlookSyncDate, outlookSyncFrom, outlookSyncTo, time.Now())
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	oc := a.cfg.Outlook
	timezone := oc.Timezone
	if outlookSyncTZ != "" {
		timezone = outlookSyncTZ
	}
	loc := time.UTC
	if timezone != "" {
		if loc, err = time.LoadLocation(timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", timezone, err)
		}
	}

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Syncing Outlook events (%s → %s)%s...\n\n", from.Format("2006-01-02"), to.Format("2006-01-02"), dryTag)

	client, err := msgraph.Authenticate(ctx, msgraph.AuthOptions{
		TenantID:  oc.TenantID,
		ClientID:  oc.ClientID,
		TokenPath: msgraph.TokenPath(a.cfg.DataDir),
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	// calendarView is half-open; ask up to the midnight after the last day.
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	end := time.Date(to.Year(), to.Month(), to.Day()+1, 0, 0, 0, 0, loc)
	events, err := client.GetCalendarView(ctx, start, end, timezone)
	if err != nil {
		return fmt.Errorf("failed to fetch calendar events: %w", err)
	}
	a.log.Info("fetched calendar events", zap.Int("count", len(events)))

	result, err := msgraph.SyncEvents(ctx, events, msgraph.SyncOptions{
		Store:           a.entries,
		From:            from,
		To:              to,
		DryRun:          outlookSyncDryRun,
		Timezone:        timezone,
		WorkCategory:    oc.WorkCategory,
		StandbyCategory: oc.StandbyCategory,
		Out:             os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("sync error: %w", err)
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d imported\n", result.Imported)
	fmt.Printf("  %d skipped\n", result.Skipped)
	fmt.Printf("  %d ignored\n", result.Ignored)
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
		return fmt.Errorf("%d events could not be imported", result.Errors)
	}
	return nil
}
