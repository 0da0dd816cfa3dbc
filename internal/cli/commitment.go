package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	commitmentDeclineCmd.Flags().StringVar(&declineReason, "reason", "", "Why you're declining")
	commitmentDeclineCmd.Flags().StringVar(&declineAlt, "alternative", "", "A smaller commitment to offer instead")
	commitmentCmd.AddCommand(commitmentOfferCmd, commitmentAcceptCmd, commitmentDeclineCmd)
	rootCmd.AddCommand(commitmentCmd)
}

var (
	declineReason string
	declineAlt    string
)

var commitmentCmd = &cobra.Command{
	Use:   "commitment",
	Short: "Show or act on the weekly commitment",
	RunE:  runCommitmentShow,
}

func runCommitmentShow(cmd *cobra.Command, args []string) error {
	d, user, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	show, c, err := d.Coach.Progression().ShowCommitment(d.Coach.DB().Store, user, today())
	if err != nil {
		return err
	}

	if c == nil {
		fmt.Println("No commitment yet.")
		if show {
			fmt.Println("One is ready — run `stride commitment offer`.")
		}
		return nil
	}

	fmt.Printf("Commitment: %s\n", c.HabitOffered)
	fmt.Printf("  State: %s\n", c.State)
	if c.Accepted {
		fmt.Printf("  Accepted %s, runs through %s\n", c.AcceptedAt, c.ExpiresAt)
	}
	if show {
		fmt.Println("  A new offer is due — run `stride commitment offer`.")
	}
	return nil
}

var commitmentOfferCmd = &cobra.Command{
	Use:   "offer",
	Short: "Offer this week's commitment",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, user, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		c, err := d.Coach.OfferCommitment(user, today())
		if err != nil {
			return err
		}
		fmt.Printf("Offered: %s\nAccept with `stride commitment accept`.\n", c.HabitOffered)
		return nil
	},
}

var commitmentAcceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Accept the offered commitment",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, user, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		c, err := d.Coach.AcceptCommitment(user, today())
		if err != nil {
			return err
		}
		fmt.Printf("Committed to %s through %s.\n", c.HabitOffered, c.ExpiresAt)
		return nil
	},
}

var commitmentDeclineCmd = &cobra.Command{
	Use:   "decline",
	Short: "Decline the offered commitment",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, user, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		c, err := d.Coach.DeclineCommitment(user, declineReason, declineAlt)
		if err != nil {
			return err
		}
		if c.AlternativeOffered != "" {
			fmt.Printf("Noted. How about: %s\nAccept with `stride commitment accept`.\n", c.AlternativeOffered)
		} else {
			fmt.Println("Noted. No commitment this week.")
		}
		return nil
	},
}
