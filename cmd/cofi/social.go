package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gaboelnuevo/cofi-app/client"
	"github.com/gaboelnuevo/cofi-app/internal/session"
)

// byID is a client method that acts on one user.
type byID func(c *client.Client, ctx context.Context, id string) (*client.Response, error)

func (a *cli) socialCommands() []*cobra.Command {
	return []*cobra.Command{
		a.newFriendRequestsCmd(),
		a.newUserCmd("friends", "List a user's friends", false, (*client.Client).GetUserFriends),
		a.newUserCmd("add-friend", "Send or accept a friend request", true, (*client.Client).AddFriendByID),
		a.newUserCmd("unfriend", "Remove a friend", true, (*client.Client).RemoveFriendByID),
		a.newUserCmd("block", "Block a user", true, (*client.Client).BlockUserByID),
		a.newUserCmd("unblock", "Unblock a user", true, (*client.Client).UnblockUserByID),
		a.newUserCmd("check-friendship", "Show the friendship status with a user", true, (*client.Client).CheckFriendship),
	}
}

func (a *cli) newFriendRequestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "friend-requests",
		Short: "List pending friend requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.call(cmd, "friend-requests", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.GetFriendsRequests(ctx)
			})
			return err
		},
	}
}

func (a *cli) newUserCmd(use, short string, required bool, fn byID) *cobra.Command {
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
	if required {
		cmd.Flags().StringVar(&id, "id", "", "User id (required)")
		_ = cmd.MarkFlagRequired("id")
	} else {
		cmd.Flags().StringVar(&id, "id", "", "User id (default: me)")
	}
	return cmd
}
