package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stride-coach/stride/internal/app/coach"
	"github.com/stride-coach/stride/internal/domain"
)

func init() {
	focusCmd.Flags().StringVar(&focusLabel, "label", "", "Display label (default: the habit key)")
	focusCmd.Flags().StringVar(&focusKind, "kind", "", "Habit kind (movement, hydration, protein, sleep, eating_pattern, custom)")
	focusCmd.Flags().IntVar(&focusTarget, "target", 0, "Numeric target (minutes/day for movement)")
	rootCmd.AddCommand(focusCmd)
}

var (
	focusLabel  string
	focusKind   string
	focusTarget int
)

var focusCmd = &cobra.Command{
	Use:   "focus <habit-key>",
	Short: "Choose the habit you're actively building",
	Args:  cobra.ExactArgs(1),
	RunE:  runFocus,
}

func runFocus(cmd *cobra.Command, args []string) error {
	d, user, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	label := focusLabel
	if label == "" {
		label = args[0]
	}

	focus, err := d.Coach.SetFocus(user, today(), coach.FocusRequest{
		HabitKey: args[0],
		Label:    label,
		Kind:     domain.HabitKind(focusKind),
		Target:   focusTarget,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Focus habit set: %s (level %d)\n", focus.Label, focus.Level)
	return nil
}
