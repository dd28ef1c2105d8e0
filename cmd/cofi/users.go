package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gaboelnuevo/cofi-app/client"
	"github.com/gaboelnuevo/cofi-app/internal/session"
)

func (a *cli) userCommands() []*cobra.Command {
	return []*cobra.Command{
		a.newLoginCmd(),
		a.newRegisterCmd(),
		a.newRegisterDeviceCmd(),
		a.newLogoutCmd(),
		a.newUpdateProfileCmd(),
		a.newResetPasswordCmd(),
		a.newProfileCmd(),
		a.newSearchUsersCmd(),
		a.newAvatarCmd(),
		a.newNotificationsCmd(),
		a.newNotificationCmd(),
	}
}

func (a *cli) newLoginCmd() *cobra.Command {
	var creds client.Credentials
	var save bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in; with --save the returned token is kept for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if creds.Email == "" && creds.Username == "" {
				return fmt.Errorf("one of --email or --username is required")
			}
			sess, err := session.Open(a.cfg, log.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			res, err := a.callWith(cmd, sess, "login", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.UserLogin(ctx, creds)
			})
			if err != nil || !save {
				return err
			}
			var tok struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(res.Data, &tok); err != nil || tok.ID == "" {
				return fmt.Errorf("login response carries no token id")
			}
			if err := sess.Store.Set(cmd.Context(), sess.Key, tok.ID); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			log.Info().Str("token_store", a.cfg.TokenStore).Msg("token saved")
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&creds.Username, "username", "", "Account username (instead of --email)")
	cmd.Flags().StringVar(&creds.Password, "password", "", "Account password (required)")
	cmd.Flags().BoolVar(&save, "save", false, "Store the token in the token store")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *cli) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := session.Open(a.cfg, log.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			_, callErr := a.callWith(cmd, sess, "logout", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.UserLogout(ctx)
			})
			// the token is dropped whatever the backend said
			if err := sess.Store.Remove(cmd.Context(), sess.Key); err != nil {
				return fmt.Errorf("remove token: %w", err)
			}
			return callErr
		},
	}
}

func (a *cli) newRegisterCmd() *cobra.Command {
	var email, username, name, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"email": email, "password": password}
			if username != "" {
				body["username"] = username
			}
			if name != "" {
				body["name"] = name
			}
			_, err := a.call(cmd, "register", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.UserRegister(ctx, body)
			})
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *cli) newRegisterDeviceCmd() *cobra.Command {
	var dev client.DeviceRegistration
	cmd := &cobra.Command{
		Use:   "register-device",
		Short: "Register this device for push notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dev.DeviceID == "" {
				dev.DeviceID = uuid.NewString()
				log.Debug().Str("device_id", dev.DeviceID).Msg("generated device id")
			}
			_, err := a.call(cmd, "register-device", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.RegisterDevice(ctx, dev)
			})
			return err
		},
	}
	cmd.Flags().StringVar(&dev.DeviceID, "device-id", "", "Device id (random UUID when empty)")
	cmd.Flags().StringVar(&dev.Platform, "platform", "cli", "Platform name")
	cmd.Flags().StringVar(&dev.PushID, "push-id", "", "Push notification id")
	return cmd
}

func (a *cli) newUpdateProfileCmd() *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "update-profile",
		Short: "Patch the signed-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := jsonBody(data)
			if err != nil {
				return err
			}
			_, err = a.call(cmd, "update-profile", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.UpdateProfile(ctx, body)
			})
			return err
		},
	}
	cmd.Flags().StringVar(&data, "data", "", `Fields to change as JSON, e.g. {"name":"Ana"} (required)`)
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func (a *cli) newResetPasswordCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Request a password reset email",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.call(cmd, "reset-password", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.ResetPassword(ctx, map[string]string{"email": email})
			})
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *cli) newProfileCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show a user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.call(cmd, "profile", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.GetUserProfile(ctx, id)
			})
			return err
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "User id (default: me)")
	return cmd
}

func (a *cli) newSearchUsersCmd() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "search-users",
		Short: "Search users by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.call(cmd, "search-users", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.SearchUsers(ctx, query)
			})
			return err
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "Text to search for (required)")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}

func (a *cli) newAvatarCmd() *cobra.Command {
	var id, size string
	var redirect bool
	cmd := &cobra.Command{
		Use:   "avatar",
		Short: "Fetch a user's avatar",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.call(cmd, "avatar", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.GetUserAvatar(ctx, id, redirect, size)
			})
			return err
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "User id (default: me)")
	cmd.Flags().StringVar(&size, "size", "small", "small, medium or large")
	cmd.Flags().BoolVar(&redirect, "redirect", false, "Follow the redirect to the image")
	return cmd
}

func (a *cli) newNotificationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notifications",
		Short: "List notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.call(cmd, "notifications", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.GetNotifications(ctx)
			})
			return err
		},
	}
}

func (a *cli) newNotificationCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "notification",
		Short: "Show one notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.call(cmd, "notification", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.GetNotificationByID(ctx, id)
			})
			return err
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Notification id (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
