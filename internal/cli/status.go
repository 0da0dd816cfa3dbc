package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stride-coach/stride/internal/domain"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show momentum, streak, and focus habit",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, user, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	summary, err := d.Coach.Summarize(user, today())
	if err != nil {
		return err
	}

	if summary.Record == nil {
		fmt.Println("No check-ins yet. Run `stride checkin` to start.")
		return nil
	}

	rec := summary.Record
	fmt.Printf("As of %s\n", rec.Date)
	fmt.Printf("  Momentum:    %d (%s)\n", rec.MomentumScore, rec.TrendMessage)
	fmt.Printf("  Streak:      %d day(s), best %d, savers %d\n",
		rec.CurrentStreak, rec.LifetimeStreak, rec.StreakSavers)
	fmt.Printf("  Consistency: %d%%\n", summary.Consistency)
	fmt.Printf("  Check-ins:   %d total\n", rec.TotalRealCheckIns)

	if f := summary.Focus; f != nil {
		fmt.Printf("\nFocus habit: %s (level %d", f.Label, f.Level)
		if f.Kind == domain.HabitMovement && f.Target > 0 {
			fmt.Printf(", %d min/day", f.Target)
		}
		fmt.Printf(")\n  %d consecutive day(s)\n", f.ConsecutiveDays)
	} else {
		fmt.Println("\nNo focus habit set. Run `stride focus <habit>` to choose one.")
	}

	if summary.Eligibility.Eligible {
		fmt.Println("\nYou're ready to level up — run `stride levelup`.")
	}
	if summary.ShowCommitment {
		fmt.Println("\nA weekly commitment is waiting — run `stride commitment`.")
	}

	toasts, err := d.Coach.Toasts().Pending(user, 10)
	if err == nil && len(toasts) > 0 {
		fmt.Println()
		for _, toast := range toasts {
			fmt.Printf("  [%s] %s\n", toast.Type, toast.Message)
			_ = d.Coach.Toasts().MarkShown(user, toast.ID)
		}
	}
	return nil
}
