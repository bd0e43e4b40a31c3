package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewActivityCmd создаёт группу команд для работы с занятиями.
func NewActivityCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"activities"},
		Short:   "Manage activity rosters",
	}

	cmd.AddCommand(
		newActivityListCmd(clientFn, outputFn),
		newActivityShowCmd(clientFn, outputFn),
		newActivitySignupCmd(clientFn, outputFn),
		newActivityRemoveCmd(clientFn, outputFn),
	)

	return cmd
}

func newActivityListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			activities, err := clientFn().ListActivities()
			if err != nil {
				return err
			}

			headers := []string{"NAME", "SCHEDULE", "PARTICIPANTS", "FREE"}
			rows := make([][]string, len(activities))
			for i, a := range activities {
				rows[i] = []string{
					a.Name,
					a.Schedule,
					fmt.Sprintf("%d/%d", len(a.Participants), a.MaxParticipants),
					strconv.Itoa(a.FreeSpots()),
				}
			}

			outputFn().Print(headers, rows, activities)
			return nil
		},
	}
}

func newActivityShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show an activity and its participants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			activity, err := clientFn().GetActivity(args[0])
			if err != nil {
				return err
			}

			out := outputFn()
			rows := make([][]string, len(activity.Participants))
			for i, email := range activity.Participants {
				rows[i] = []string{strconv.Itoa(i + 1), email}
			}

			if !out.jsonMode {
				out.Success(fmt.Sprintf("%s: %s (%s), %d/%d",
					activity.Name,
					activity.Description,
					activity.Schedule,
					len(activity.Participants),
					activity.MaxParticipants,
				))
			}
			out.Print([]string{"#", "EMAIL"}, rows, activity)
			return nil
		},
	}
}

func newActivitySignupCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "signup NAME",
		Short: "Sign up a student for an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := clientFn().SignUp(args[0], strings.TrimSpace(email))
			if err != nil {
				return err
			}
			outputFn().Message(msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Student email (required)")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newActivityRemoveCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a student from an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := clientFn().Remove(args[0], strings.TrimSpace(email))
			if err != nil {
				return err
			}
			outputFn().Message(msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Student email (required)")
	cmd.MarkFlagRequired("email")

	return cmd
}
