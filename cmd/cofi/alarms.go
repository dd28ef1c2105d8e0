package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaboelnuevo/cofi-app/client"
	"github.com/gaboelnuevo/cofi-app/internal/session"
)

// byAlarm is a client method that acts on one alarm.
type byAlarm func(c *client.Client, ctx context.Context, id string) (*client.Response, error)

func (a *cli) alarmCommands() []*cobra.Command {
	return []*cobra.Command{
		a.newSetAlarmCmd(),
		a.newFriendsAlarmsCmd(),
		a.newAlarmCmd("alarm", "Show an alarm", (*client.Client).GetAlarmByID),
		a.newUpdateAlarmCmd(),
		a.newAlarmCmd("remove-alarm", "Delete an alarm", (*client.Client).RemoveAlarmByID),
		a.newAlarmCmd("turn-off-alarm", "Turn an alarm off", (*client.Client).TurnOffAlarmByID),
		a.newAlarmCmd("alarm-signature", "Compute an alarm's signature", (*client.Client).CalcAlarmSignature),
		a.newCurrentAlarmCmd(),
		a.newSendVoiceNoteCmd(),
		a.newVoiceNoteCmd(),
		a.newVoiceNotesCmd(),
		a.newMarkListenedCmd(),
	}
}

func (a *cli) newSetAlarmCmd() *cobra.Command {
	var data, at, label string
	cmd := &cobra.Command{
		Use:   "set-alarm",
		Short: "Create an alarm",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := jsonBody(data)
			if err != nil {
				return err
			}
			if at != "" {
				body["time"] = at
			}
			if label != "" {
				body["label"] = label
			}
			_, err = a.call(cmd, "set-alarm", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.SetAlarm(ctx, body)
			})
			return err
		},
	}
	cmd.Flags().StringVar(&at, "time", "", "Alarm time, HH:MM")
	cmd.Flags().StringVar(&label, "label", "", "Alarm label")
	cmd.Flags().StringVar(&data, "data", "", "Full alarm body as JSON; --time and --label override it")
	return cmd
}

func (a *cli) newFriendsAlarmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "friends-alarms",
		Short: "List friends' alarms",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.call(cmd, "friends-alarms", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.GetFriendsAlarms(ctx)
			})
			return err
		},
	}
}

func (a *cli) newAlarmCmd(use, short string, fn byAlarm) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.call(cmd, use, func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return fn(s.Client, ctx, id)
			})
			return err
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Alarm id (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func (a *cli) newUpdateAlarmCmd() *cobra.Command {
	var id, data string
	cmd := &cobra.Command{
		Use:   "update-alarm",
		Short: "Patch an alarm",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := jsonBody(data)
			if err != nil {
				return err
			}
			_, err = a.call(cmd, "update-alarm", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.UpdateAlarmByID(ctx, id, body)
			})
			return err
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Alarm id (required)")
	cmd.Flags().StringVar(&data, "data", "", `Fields to change as JSON, e.g. {"time":"07:00"} (required)`)
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func (a *cli) newCurrentAlarmCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "current-alarm",
		Short: "Show a user's current alarm",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.call(cmd, "current-alarm", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.GetCurrentAlarm(ctx, userID)
			})
			return err
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "User id (default: me)")
	return cmd
}

func (a *cli) newSendVoiceNoteCmd() *cobra.Command {
	var alarmID, url string
	cmd := &cobra.Command{
		Use:   "send-voice-note",
		Short: "Send a voice note to a friend's alarm",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"alarmId": alarmID, "url": url}
			_, err := a.call(cmd, "send-voice-note", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.SendVoiceNote(ctx, body)
			})
			return err
		},
	}
	cmd.Flags().StringVar(&alarmID, "alarm-id", "", "Alarm id (required)")
	cmd.Flags().StringVar(&url, "url", "", "Uploaded audio URL (required)")
	_ = cmd.MarkFlagRequired("alarm-id")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func (a *cli) newVoiceNoteCmd() *cobra.Command {
	var alarmID, noteID string
	cmd := &cobra.Command{
		Use:   "voice-note",
		Short: "Show one voice note",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.call(cmd, "voice-note", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.GetVoiceNote(ctx, alarmID, noteID)
			})
			return err
		},
	}
	cmd.Flags().StringVar(&alarmID, "alarm-id", "", "Alarm id (required)")
	cmd.Flags().StringVar(&noteID, "id", "", "Voice note id (required)")
	_ = cmd.MarkFlagRequired("alarm-id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func (a *cli) newVoiceNotesCmd() *cobra.Command {
	var alarmID, filter string
	cmd := &cobra.Command{
		Use:   "voice-notes",
		Short: "List an alarm's voice notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := client.Filter{}
			if filter != "" {
				if err := json.Unmarshal([]byte(filter), &f); err != nil {
					return fmt.Errorf("--filter is not a JSON object: %w", err)
				}
			}
			_, err := a.call(cmd, "voice-notes", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.GetVoiceNotes(ctx, alarmID, f)
			})
			return err
		},
	}
	cmd.Flags().StringVar(&alarmID, "alarm-id", "", "Alarm id (required)")
	cmd.Flags().StringVar(&filter, "filter", "", `Extra filter as JSON, e.g. {"where":{"listened":false}}`)
	_ = cmd.MarkFlagRequired("alarm-id")
	return cmd
}

func (a *cli) newMarkListenedCmd() *cobra.Command {
	var alarmID, noteID string
	cmd := &cobra.Command{
		Use:   "mark-listened",
		Short: "Mark a voice note as listened",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.call(cmd, "mark-listened", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.MarkVoiceNoteAsListened(ctx, alarmID, noteID)
			})
			return err
		},
	}
	cmd.Flags().StringVar(&alarmID, "alarm-id", "", "Alarm id (required)")
	cmd.Flags().StringVar(&noteID, "id", "", "Voice note id (required)")
	_ = cmd.MarkFlagRequired("alarm-id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
