package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gaboelnuevo/cofi-app/client"
	"github.com/gaboelnuevo/cofi-app/internal/session"
	"github.com/gaboelnuevo/cofi-app/screen"
)

func (a *cli) newCoffeesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coffees",
		Short: "List the coffee catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.call(cmd, "coffees", func(ctx context.Context, s *session.Session) (*client.Response, error) {
				return s.Client.GetCoffees(ctx)
			})
			return err
		},
	}
}

func (a *cli) newExploraCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "explora",
		Short: "Open the explore screen and print its card deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := session.Open(a.cfg, log.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			e := screen.NewExplora(sess.Client, screen.WithLogger(log.Logger))
			e.Mount(cmd.Context())
			defer e.Unmount()
			select {
			case <-e.Done():
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}

			st := e.State()
			if st.Error {
				return fmt.Errorf("explora: could not load coffees")
			}
			view := screen.Render(st)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			if len(view.Deck) == 0 {
				fmt.Fprintln(out, "no coffees to explore")
				return nil
			}
			return screen.WriteText(out, view)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the rendered view as JSON")
	return cmd
}
