package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stride-coach/stride/internal/domain"
)

func init() {
	historyCmd.Flags().IntVar(&historyDays, "days", 14, "Number of days to show")
	rootCmd.AddCommand(historyCmd)
}

var historyDays int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent daily records",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	d, user, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	to := today()
	from, err := domain.AddDays(to, -(historyDays - 1))
	if err != nil {
		return err
	}

	records, err := d.Coach.History(user, from, to)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No records in range.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tMOMENTUM\tDELTA\tSTREAK\tTYPE")
	for _, rec := range records {
		kind := string(rec.CheckinType)
		if rec.Missed {
			kind = "missed"
		}
		fmt.Fprintf(w, "%s\t%d\t%+d\t%d\t%s\n",
			rec.Date,
			rec.MomentumScore,
			rec.MomentumDelta,
			rec.CurrentStreak,
			kind,
		)
	}
	return w.Flush()
}
