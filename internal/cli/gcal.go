package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/sandeepkv93/zen/internal/gcal"
)

// tokenSourcer is implemented by identities that can authorize Google APIs.
type tokenSourcer interface {
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)
}

var errNoGoogleCalendar = errors.New("google calendar access is not available")

func (a *App) googleCalendar(ctx context.Context) (*gcal.Client, error) {
	ts, ok := a.Identity.(tokenSourcer)
	if !ok {
		return nil, errNoGoogleCalendar
	}
	src, err := ts.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	return gcal.New(ctx, src, a.CalendarOptions...)
}

func newGoogleCalendarCmd(app *App) *cobra.Command {
	var calendarID string
	var maxEvents int64
	cmd := &cobra.Command{
		Use:   "google",
		Short: "List upcoming events straight from Google Calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gc, err := app.googleCalendar(cmd.Context())
			if err != nil {
				return err
			}
			list, err := gc.ListEvents(cmd.Context(), calendarID, app.Now(), maxEvents)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(app.Out, "No upcoming events.")
				return nil
			}
			for _, ev := range list {
				printGoogleEvent(app, ev)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&calendarID, "calendar", gcal.PrimaryCalendar, "calendar id")
	cmd.Flags().Int64Var(&maxEvents, "max", 20, "maximum number of events")

	cmd.AddCommand(&cobra.Command{
		Use:   "calendars",
		Short: "List your Google calendars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gc, err := app.googleCalendar(cmd.Context())
			if err != nil {
				return err
			}
			cals, err := gc.ListCalendars(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range cals {
				mark := " "
				if c.Primary {
					mark = "*"
				}
				fmt.Fprintf(app.Out, "%s %-40s %s\n", mark, c.ID, c.Summary)
			}
			return nil
		},
	})

	var in eventFlags
	add := &cobra.Command{
		Use:   "add <summary>",
		Short: "Create a Google Calendar event",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := in.input(strings.Join(args, " "))
			if err != nil {
				return err
			}
			gc, err := app.googleCalendar(cmd.Context())
			if err != nil {
				return err
			}
			ev, err := gc.CreateEvent(cmd.Context(), calendarID, input)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Event created: %s\n", ev.ID)
			printGoogleEvent(app, ev)
			return nil
		},
	}
	in.bind(add)

	var upd eventFlags
	update := &cobra.Command{
		Use:   "update <event-id> <summary>",
		Short: "Replace a Google Calendar event",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := upd.input(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			gc, err := app.googleCalendar(cmd.Context())
			if err != nil {
				return err
			}
			ev, err := gc.UpdateEvent(cmd.Context(), calendarID, args[0], input)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Event updated: %s\n", ev.ID)
			printGoogleEvent(app, ev)
			return nil
		},
	}
	upd.bind(update)

	cmd.AddCommand(add, update, &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete a Google Calendar event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gc, err := app.googleCalendar(cmd.Context())
			if err != nil {
				return err
			}
			if err := gc.DeleteEvent(cmd.Context(), calendarID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Event deleted: %s\n", args[0])
			return nil
		},
	})
	return cmd
}

// eventFlags are the event fields shared by add and update.
type eventFlags struct {
	start       string
	end         string
	duration    time.Duration
	description string
	location    string
	attendees   []string
}

func (f *eventFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", `start time ("2006-01-02 15:04" or RFC3339)`)
	cmd.Flags().StringVar(&f.end, "end", "", "end time, defaults to start plus --duration")
	cmd.Flags().DurationVar(&f.duration, "duration", time.Hour, "event length when --end is not set")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "event description")
	cmd.Flags().StringVar(&f.location, "location", "", "event location")
	cmd.Flags().StringSliceVar(&f.attendees, "attendee", nil, "attendee email, repeatable")
	_ = cmd.MarkFlagRequired("start")
}

func (f *eventFlags) input(summary string) (gcal.EventInput, error) {
	start, err := parseEventTime(f.start)
	if err != nil {
		return gcal.EventInput{}, err
	}
	end := start.Add(f.duration)
	if f.end != "" {
		if end, err = parseEventTime(f.end); err != nil {
			return gcal.EventInput{}, err
		}
	}
	return gcal.EventInput{
		Summary:     summary,
		Description: f.description,
		Location:    f.location,
		Start:       start,
		End:         end,
		Attendees:   f.attendees,
	}, nil
}

func parseEventTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("time must be \"YYYY-MM-DD HH:MM\" or RFC3339, got %q", raw)
	}
	return t, nil
}

func printGoogleEvent(app *App, ev gcal.Event) {
	when := ev.Start.Local().Format("2006-01-02 15:04")
	if ev.AllDay {
		when = ev.Start.Format(time.DateOnly) + " all day"
	}
	fmt.Fprintf(app.Out, "  %-22s %s\n", when, ev.Summary)
}
