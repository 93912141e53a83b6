package cli

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/zen/internal/model"
	"github.com/sandeepkv93/zen/internal/stats"
)

var ErrInvalidInvite = errors.New("invalid invitation link")

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Browse projects",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.authorized(cmd.Context())
			if err != nil {
				return err
			}
			projects, err := client.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(app.Out, "No projects yet.")
				return nil
			}
			for _, p := range projects {
				progress := "-"
				if p.Progress != nil {
					progress = stats.FormatPercent(*p.Progress)
				}
				due := "-"
				if p.DueDate != nil {
					due = stats.FormatDate(p.DueDate.Time)
				}
				fmt.Fprintf(app.Out, "#%-4d %-24s %-12s %-6s %s\n", p.ID, p.Name, strings.ReplaceAll(p.Status, "_", " "), progress, due)
			}
			return nil
		},
	})
	return cmd
}

func newTeamsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Browse teams and their members",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.authorized(cmd.Context())
			if err != nil {
				return err
			}
			teams, err := client.ListTeams(cmd.Context())
			if err != nil {
				return err
			}
			if len(teams) == 0 {
				fmt.Fprintln(app.Out, "No teams yet.")
				return nil
			}
			for _, t := range teams {
				desc := ""
				if t.Description != nil {
					desc = *t.Description
				}
				fmt.Fprintf(app.Out, "#%-4d %-24s %s\n", t.ID, t.Name, desc)
			}
			return nil
		},
	}, &cobra.Command{
		Use:   "members <team-id>",
		Short: "List the members of a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid team id %q", args[0])
			}
			client, _, err := app.authorized(cmd.Context())
			if err != nil {
				return err
			}
			members, err := client.GetTeamMembers(cmd.Context(), teamID)
			if err != nil {
				return err
			}
			for _, m := range members {
				fmt.Fprintf(app.Out, "%-24s %-8s %s\n", m.User.DisplayName(), m.Role, m.User.Email)
			}
			return nil
		},
	})
	return cmd
}

// ParseInvite reads the team and role from an invitation link such as
// https://host/join?team_id=3&role=member.
func ParseInvite(raw string) (int64, string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return 0, "", ErrInvalidInvite
	}
	q := u.Query()
	teamID, err := strconv.ParseInt(q.Get("team_id"), 10, 64)
	role := strings.TrimSpace(q.Get("role"))
	if err != nil || teamID <= 0 || role == "" {
		return 0, "", ErrInvalidInvite
	}
	return teamID, role, nil
}

func newJoinCmd(app *App) *cobra.Command {
	var teamID int64
	var role string
	cmd := &cobra.Command{
		Use:   "join [invite-url]",
		Short: "Join a team from an invitation link",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				id, r, err := ParseInvite(args[0])
				if err != nil {
					return err
				}
				teamID, role = id, r
			}
			if teamID <= 0 || strings.TrimSpace(role) == "" {
				return ErrInvalidInvite
			}
			client, s, err := app.authorized(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.JoinTeam(cmd.Context(), teamID, s.User.ID, role); err != nil {
				log.Printf("zen: join team %d: %v", teamID, err)
				return errJoinFailed
			}
			fmt.Fprintln(app.Out, "You have been successfully added to the team!")
			return nil
		},
	}
	cmd.Flags().Int64Var(&teamID, "team", 0, "team id")
	cmd.Flags().StringVar(&role, "role", "", "role to join with (member, admin, viewer)")
	return cmd
}

func printDashboardTask(app *App, t model.DashboardTask) {
	due := "-"
	if t.DueDate != nil {
		due = stats.FormatDate(t.DueDate.Time)
	}
	flag := ""
	if t.IsOverdue {
		flag = " (overdue)"
	}
	fmt.Fprintf(app.Out, "  #%-5d %-7s %-28s %s%s\n", t.ID, t.Priority, t.Title, due, flag)
}
