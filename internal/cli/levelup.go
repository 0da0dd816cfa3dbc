package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stride-coach/stride/internal/app/coach"
	"github.com/stride-coach/stride/internal/domain"
)

func init() {
	levelupAcceptCmd.Flags().StringVar(&levelupKey, "habit", "", "New habit key (default: keep current)")
	levelupAcceptCmd.Flags().StringVar(&levelupLabel, "label", "", "Display label for the new level")
	levelupAcceptCmd.Flags().StringVar(&levelupKind, "kind", "", "Habit kind for the new level")
	levelupAcceptCmd.Flags().IntVar(&levelupTarget, "target", 0, "New numeric target")
	levelupDeclineCmd.Flags().StringVar(&levelupReason, "reason", "", "Why you're declining")
	levelupDeclineCmd.Flags().StringVar(&levelupNext, "next", string(domain.StickCurrent),
		"Follow-up: stick_current, increase_some_days, or try_different")
	levelupCmd.AddCommand(levelupAcceptCmd, levelupDeclineCmd)
	rootCmd.AddCommand(levelupCmd)
}

var (
	levelupKey    string
	levelupLabel  string
	levelupKind   string
	levelupTarget int
	levelupReason string
	levelupNext   string
)

var levelupCmd = &cobra.Command{
	Use:   "levelup",
	Short: "Check level-up eligibility for your focus habit",
	RunE:  runLevelupStatus,
}

func runLevelupStatus(cmd *cobra.Command, args []string) error {
	d, user, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	elig, err := d.Coach.LevelUpStatus(user, today())
	if err != nil {
		return err
	}

	switch elig.Outcome {
	case domain.EligibilityEligible:
		fmt.Printf("You hit your focus habit %d of the last 7 days — ready to level up!\n", elig.HitDays)
		fmt.Println("Accept with `stride levelup accept --target <n>`.")
	case domain.EligibilityTooNew:
		fmt.Println("Your account is too new for a level-up. Keep checking in.")
	case domain.EligibilityNotEnoughHits:
		fmt.Printf("%d of the last 7 days — keep going, you need 5.\n", elig.HitDays)
	case domain.EligibilityCooldown:
		fmt.Println("You leveled up recently. Prove the new target first.")
	case domain.EligibilityNoFocus:
		fmt.Println("No focus habit set. Run `stride focus <habit>` first.")
	}
	return nil
}

var levelupAcceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Accept the level-up",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, user, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		focus, err := d.Coach.AcceptLevelUp(user, today(), coach.LevelUpRequest{
			HabitKey: levelupKey,
			Label:    levelupLabel,
			Kind:     domain.HabitKind(levelupKind),
			Target:   levelupTarget,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Level %d: %s", focus.Level, focus.Label)
		if focus.Target > 0 {
			fmt.Printf(" (target %d)", focus.Target)
		}
		fmt.Println()
		return nil
	},
}

var levelupDeclineCmd = &cobra.Command{
	Use:   "decline",
	Short: "Decline the level-up",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, user, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		next := domain.DeclineNextStep(levelupNext)
		if err := d.Coach.DeclineLevelUp(user, today(), levelupReason, next); err != nil {
			return err
		}
		if next == domain.TryDifferent {
			fmt.Println("Current habit archived. Pick a new one with `stride focus <habit>`.")
		} else {
			fmt.Println("Noted. Keep at it.")
		}
		return nil
	},
}
