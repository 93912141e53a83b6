package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/sandeepkv93/zen/internal/api"
	"github.com/sandeepkv93/zen/internal/auth"
	"github.com/sandeepkv93/zen/internal/config"
	"github.com/sandeepkv93/zen/internal/session"
)

var (
	errNotSignedIn  = errors.New("not signed in, run `zen login` first")
	errNotConnected = errors.New("failed to connect to server")
	errJoinFailed   = errors.New("failed to join team")
	errReportFailed = errors.New("failed to generate weekly report")
)

// userMessages is the wording shown for errors the user can act on.
var userMessages = []struct {
	err error
	msg string
}{
	{errNotConnected, "Failed to connect to server"},
	{errJoinFailed, "Failed to join team. You might already be a member."},
	{errReportFailed, "Failed to generate weekly report. Please try again."},
}

func userMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return err.Error()
}

// Identity is the provider side of sign-in as the CLI drives it.
type Identity interface {
	Restore(ctx context.Context) (session.Event, error)
	SignIn(ctx context.Context) (session.Event, error)
	SignOut() error
}

// App carries what every subcommand shares. Identity and Now may be preset;
// the rest is built from config before a command runs.
type App struct {
	Version  string
	Out      io.Writer
	Err      io.Writer
	Identity Identity
	Now      func() time.Time

	// CalendarOptions are extra options for the direct Google Calendar client.
	CalendarOptions []option.ClientOption

	configPath string
	cfg        config.Config
	client     *api.Client
	bridge     *session.Bridge
}

func NewRootCmd(app *App) *cobra.Command {
	if app.Out == nil {
		app.Out = os.Stdout
	}
	if app.Err == nil {
		app.Err = os.Stderr
	}
	if app.Now == nil {
		app.Now = time.Now
	}

	root := &cobra.Command{
		Use:   "zen",
		Short: "Zen Schedule - tasks, focus and team dashboards in the terminal",
		Long: `zen is a terminal client for the Zen Schedule task service.

Run without a subcommand to open the interactive UI.`,
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runTUI(cmd.Context())
		},
	}
	root.SetOut(app.Out)
	root.SetErr(app.Err)
	root.PersistentFlags().StringVarP(&app.configPath, "config", "c", config.Path(), "config file")

	root.AddCommand(
		newTUICmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newTasksCmd(app),
		newExtractCmd(app),
		newProjectsCmd(app),
		newTeamsCmd(app),
		newJoinCmd(app),
		newCalendarCmd(app),
		newDashboardCmd(app),
		newReportCmd(app),
		newConfigCmd(app),
	)
	return root
}

// Execute runs the command tree against the process arguments.
func Execute(version string) error {
	app := &App{Version: version}
	if err := NewRootCmd(app).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", userMessage(err))
		return err
	}
	return nil
}

func (a *App) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.client = api.New(cfg.Service.BaseURL, api.WithTimeout(cfg.Service.Timeout))
	if a.Identity == nil {
		p := auth.NewProvider(cfg.Auth, a.Err)
		p.OpenURL = openURL
		a.Identity = p
	}
	a.bridge = session.NewBridge(a.client, a.Identity)
	return nil
}

// session restores the persisted provider session and exchanges it for an
// app session.
func (a *App) session(ctx context.Context) (session.Session, error) {
	if s, ok := a.bridge.Current(); ok {
		return s, nil
	}
	ev, err := a.Identity.Restore(ctx)
	if err != nil {
		return session.Session{}, err
	}
	if ev.ProviderToken == "" {
		return session.Session{}, errNotSignedIn
	}
	a.bridge.HandleEvent(ctx, ev)
	s, ok := a.bridge.Current()
	if !ok {
		return session.Session{}, errNotConnected
	}
	return s, nil
}

// authorized returns the client carrying the restored session.
func (a *App) authorized(ctx context.Context) (*api.Client, session.Session, error) {
	s, err := a.session(ctx)
	if err != nil {
		return nil, session.Session{}, err
	}
	return a.client.WithSession(s), s, nil
}

func openURL(u string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", u).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", u).Start()
	default:
		return exec.Command("xdg-open", u).Start()
	}
}
