package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stride-coach/stride/internal/app/coach"
	"github.com/stride-coach/stride/internal/domain"
)

func init() {
	checkinCmd.Flags().StringVar(&checkinDate, "date", "", "Check-in date (YYYY-MM-DD, default today)")
	checkinCmd.Flags().IntVar(&gradeProtein, "protein", domain.GradeOff, "Protein grade (0/50/80/100)")
	checkinCmd.Flags().IntVar(&gradeHydration, "hydration", domain.GradeOff, "Hydration grade (0/50/80/100)")
	checkinCmd.Flags().IntVar(&gradeSleep, "sleep", domain.GradeOff, "Sleep grade (0/50/80/100)")
	checkinCmd.Flags().IntVar(&gradeMovement, "movement", domain.GradeOff, "Movement grade (0/50/80/100)")
	checkinCmd.Flags().IntVar(&gradeEnergy, "energy", domain.GradeOff, "Energy balance grade (0/50/80/100)")
	checkinCmd.Flags().IntVar(&gradeEating, "eating", domain.GradeOff, "Eating pattern grade (0/50/80/100)")
	checkinCmd.Flags().BoolVar(&primaryDone, "primary-done", false, "Focus habit completed today")
	checkinCmd.Flags().BoolVar(&exerciseDone, "exercise", false, "Exercise target hit today")
	rootCmd.AddCommand(checkinCmd)
}

var (
	checkinDate    string
	gradeProtein   int
	gradeHydration int
	gradeSleep     int
	gradeMovement  int
	gradeEnergy    int
	gradeEating    int
	primaryDone    bool
	exerciseDone   bool
)

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Submit today's check-in",
	Long:  `Grade each behavior for the day and record it against your streak.`,
	RunE:  runCheckin,
}

func runCheckin(cmd *cobra.Command, args []string) error {
	d, user, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	date := checkinDate
	if date == "" {
		date = today()
	}

	req := coach.CheckinRequest{
		Date: date,
		BehaviorGrades: []domain.BehaviorGrade{
			{Name: domain.BehaviorProtein, Grade: gradeProtein},
			{Name: domain.BehaviorHydration, Grade: gradeHydration},
			{Name: domain.BehaviorSleep, Grade: gradeSleep},
			{Name: domain.BehaviorMovement, Grade: gradeMovement},
			{Name: domain.BehaviorEnergyBalance, Grade: gradeEnergy},
			{Name: domain.BehaviorEatingPattern, Grade: gradeEating},
		},
		PrimaryDone:       primaryDone,
		ExerciseCompleted: exerciseDone,
	}

	result, err := d.Coach.Submit(cmd.Context(), user, req)
	if err != nil {
		return err
	}

	rec := result.Record
	fmt.Printf("Checked in for %s\n", rec.Date)
	fmt.Printf("  Momentum:    %d (%+d, %s)\n", rec.MomentumScore, rec.MomentumDelta, rec.TrendMessage)
	fmt.Printf("  Streak:      %d day(s), best %d\n", rec.CurrentStreak, rec.LifetimeStreak)
	fmt.Printf("  Consistency: %d%%\n", result.Consistency)
	if result.GapDaysFilled > 0 {
		fmt.Printf("  Filled %d missed day(s)\n", result.GapDaysFilled)
	}
	if result.SaverConsumed {
		fmt.Printf("  A streak saver bridged yesterday's miss (%d left)\n", rec.StreakSavers)
	}
	if result.Reward != nil {
		fmt.Printf("\n  %s\n  %s\n", result.Reward.Title, result.Reward.Message)
	}
	if result.ShowCommitment {
		fmt.Println("\n  A weekly commitment is waiting — run `stride commitment`.")
	}
	return nil
}
