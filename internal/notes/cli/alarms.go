package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"notekeeper/internal/notes/domain/entities"
)

// ErrInvalidAlarmTime возвращается, когда --at не в формате RFC 3339.
var ErrInvalidAlarmTime = fmt.Errorf("%w: alarm time must be RFC 3339", entities.ErrValidation)

func (r *runner) alarmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alarm",
		Short: "Attach or clear note alarms",
	}
	cmd.AddCommand(r.alarmSetCommand(), r.alarmClearCommand())
	return cmd
}

func (r *runner) alarmSetCommand() *cobra.Command {
	var (
		at    string
		every string
	)

	cmd := &cobra.Command{
		Use:   "set NOTE_ID --at TIME [--every PATTERN]",
		Short: "Set the alarm of a note, replacing the previous one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := r.note(args[0])
			if err != nil {
				return err
			}
			when, err := time.Parse(time.RFC3339, at)
			if err != nil {
				return fmt.Errorf("%w: %q", ErrInvalidAlarmTime, at)
			}
			alarm, err := entities.NewAlarm(when, every != "", every)
			if err != nil {
				return err
			}
			if err := r.ws.SetAlarm(cmd.Context(), n, alarm); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Alarm of note %d set to %s\n", n.ID, describeAlarm(alarm))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "alarm time, RFC 3339")
	cmd.Flags().StringVar(&every, "every", "", "recurrence pattern, makes the alarm recurring")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func (r *runner) alarmClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear NOTE_ID",
		Short: "Remove the alarm of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := r.note(args[0])
			if err != nil {
				return err
			}
			return r.ws.ClearAlarm(cmd.Context(), n)
		},
	}
}
