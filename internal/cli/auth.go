package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/zen/internal/stats"
)

func newLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in with Google",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ev, err := app.Identity.SignIn(ctx)
			if err != nil {
				return err
			}
			app.bridge.HandleEvent(ctx, ev)
			s, ok := app.bridge.Current()
			if !ok {
				return errNotConnected
			}
			fmt.Fprintf(app.Out, "Welcome back, %s! You've successfully signed in.\n", s.User.DisplayName())
			return nil
		},
	}
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored Google session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.bridge.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "You've been successfully signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context())
			if err != nil {
				return err
			}
			u := s.User
			fmt.Fprintf(app.Out, "%s (#%d)\n", u.DisplayName(), u.ID)
			fmt.Fprintf(app.Out, "email:    %s\n", u.Email)
			fmt.Fprintf(app.Out, "username: %s\n", u.Username)
			if u.CreatedAt != nil {
				fmt.Fprintf(app.Out, "member since: %s\n", stats.FormatDate(u.CreatedAt.Time))
			}
			if exp := s.Expiry(); !exp.IsZero() {
				fmt.Fprintf(app.Out, "session expires: %s\n", exp.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}
