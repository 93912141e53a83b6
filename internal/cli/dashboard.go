package cli

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/zen/internal/model"
	"github.com/sandeepkv93/zen/internal/report"
	"github.com/sandeepkv93/zen/internal/stats"
)

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show calendar events",
	}

	var month string
	events := &cobra.Command{
		Use:   "events",
		Short: "List the service's calendar events for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := app.Now()
			if month != "" {
				m, err := time.ParseInLocation("2006-01", month, time.Local)
				if err != nil {
					return fmt.Errorf("month must be YYYY-MM, got %q", month)
				}
				ref = m
			}
			client, s, err := app.authorized(cmd.Context())
			if err != nil {
				return err
			}
			from, to := stats.MonthRange(ref)
			list, err := client.ListCalendarEvents(cmd.Context(), s.User.ID, from, to)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "%s\n", from.Format("January 2006"))
			if len(list) == 0 {
				fmt.Fprintln(app.Out, "No events.")
				return nil
			}
			for _, ev := range list {
				fmt.Fprintf(app.Out, "  %s  %s-%s  %s\n",
					ev.StartTime.Format(time.DateOnly),
					ev.StartTime.Format("15:04"),
					ev.EndTime.Format("15:04"),
					ev.Title)
			}
			return nil
		},
	}
	events.Flags().StringVar(&month, "month", "", "month to show (YYYY-MM), defaults to the current month")

	cmd.AddCommand(events, newGoogleCalendarCmd(app))
	return cmd
}

func newDashboardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show member and sprint dashboards",
	}

	var teamID int64
	member := &cobra.Command{
		Use:   "member",
		Short: "Show your dashboard, optionally scoped to a team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, s, err := app.authorized(cmd.Context())
			if err != nil {
				return err
			}
			var team *int64
			if teamID > 0 {
				team = &teamID
			}
			resp, err := client.MemberDashboard(cmd.Context(), s.User.ID, team)
			if err != nil {
				return err
			}
			d := resp.MemberDashboard
			ps := d.PersonalStats
			fmt.Fprintf(app.Out, "%s\n", s.User.DisplayName())
			fmt.Fprintf(app.Out, "tasks:       %d/%d completed (%s)\n", ps.CompletedTasks, ps.TotalTasks, stats.FormatPercent(ps.CompletionRate))
			fmt.Fprintf(app.Out, "in progress: %d\n", ps.InProgressTasks)
			fmt.Fprintf(app.Out, "overdue:     %d\n", ps.OverdueTasks)
			fmt.Fprintf(app.Out, "avg time:    %s\n", stats.FormatHours(ps.AvgCompletionTimeHours))
			fmt.Fprintf(app.Out, "workload:    %s\n", stats.FormatHours(ps.CurrentWorkloadHours))
			if len(d.UpcomingDeadlines) > 0 {
				fmt.Fprintln(app.Out, "\nupcoming:")
				for _, t := range d.UpcomingDeadlines {
					printDashboardTask(app, t)
				}
			}
			if len(d.Recommendations) > 0 {
				fmt.Fprintln(app.Out, "\nrecommendations:")
				for _, r := range d.Recommendations {
					fmt.Fprintf(app.Out, "  - %s\n", r)
				}
			}
			return nil
		},
	}
	member.Flags().Int64Var(&teamID, "team", 0, "team id")

	sprint := &cobra.Command{
		Use:   "sprint <team-id>",
		Short: "Show a team's sprint dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid team id %q", args[0])
			}
			client, _, err := app.authorized(cmd.Context())
			if err != nil {
				return err
			}
			d, err := client.SprintDashboard(cmd.Context(), id)
			if err != nil {
				return err
			}
			ss := d.SprintStats
			fmt.Fprintf(app.Out, "%s\n", ss.SprintName)
			fmt.Fprintf(app.Out, "completion:   %s (%d/%d)\n", stats.FormatPercent(ss.SprintCompletionRate), ss.CompletedTasks, ss.TotalTasks)
			fmt.Fprintf(app.Out, "in progress:  %d\n", ss.InProgressTasks)
			fmt.Fprintf(app.Out, "not started:  %d\n", ss.NotStartedTasks)
			fmt.Fprintf(app.Out, "story points: %.0f/%.0f\n", ss.CompletedStoryPoints, ss.TotalStoryPoints)
			fmt.Fprintf(app.Out, "velocity:     %.1f\n", ss.Velocity)
			for _, day := range model.SortedKeys(d.TeamVelocity) {
				fmt.Fprintf(app.Out, "  %s %.1f\n", day, d.TeamVelocity[day])
			}
			if len(d.Blockers) > 0 {
				fmt.Fprintln(app.Out, "\nblockers:")
				for _, t := range d.Blockers {
					printDashboardTask(app, t)
				}
			}
			return nil
		},
	}

	cmd.AddCommand(member, sprint)
	return cmd
}

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate reports",
	}
	var pdfPath string
	weekly := &cobra.Command{
		Use:   "weekly",
		Short: "Generate this week's report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context())
			if err != nil {
				return err
			}
			start, end := stats.WeekRange(app.Now())
			r, err := app.client.GenerateWeeklyReport(cmd.Context(), s.User.ID, start, end)
			if err != nil {
				log.Printf("zen: generate weekly report: %v", err)
				return errReportFailed
			}
			fmt.Fprintf(app.Out, "Weekly report %s - %s\n", stats.FormatDate(r.DateStart.Time), stats.FormatDate(r.DateEnd.Time))
			fmt.Fprintf(app.Out, "total tasks: %d\n", r.TotalTasks)
			fmt.Fprintf(app.Out, "completed:   %d (%s)\n", r.CompletedTasks, stats.FormatPercent1(stats.Percent(float64(r.CompletedTasks), float64(r.TotalTasks))))
			fmt.Fprintf(app.Out, "overdue:     %d\n", r.OverdueTasks)
			fmt.Fprintf(app.Out, "hours:       %s of %s\n", stats.FormatHours(r.CompletedHours), stats.FormatHours(r.TotalEstimatedHours))
			if sum := strings.TrimSpace(r.AISummary); sum != "" {
				fmt.Fprintf(app.Out, "\n%s\n", sum)
			}
			if pdfPath == "" {
				return nil
			}
			if err := report.ExportPDFFile(pdfPath, r); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Report saved to %s\n", pdfPath)
			return nil
		},
	}
	weekly.Flags().StringVar(&pdfPath, "pdf", "", "also write the report as a PDF to this path")
	cmd.AddCommand(weekly)
	return cmd
}
