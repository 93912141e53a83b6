package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/zen/internal/extract"
	"github.com/sandeepkv93/zen/internal/pomodoro"
	"github.com/sandeepkv93/zen/internal/reminder"
	"github.com/sandeepkv93/zen/internal/storage"
	"github.com/sandeepkv93/zen/internal/tasklist"
	"github.com/sandeepkv93/zen/internal/update"
	"github.com/sandeepkv93/zen/internal/voice"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runTUI(cmd.Context())
		},
	}
}

func (a *App) runTUI(ctx context.Context) error {
	cfg := a.cfg
	if cfg.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := tea.LogToFile(cfg.Log.File, "zen")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	}

	deps := update.Deps{
		Bridge:   a.bridge,
		Client:   a.client,
		Tasks:    tasklist.New(a.bridge, tasklist.ClientStore(a.client), cfg.Service.PageSize),
		Voice:    voice.NewCapture(voice.NewCommandRecognizer(cfg.Voice.Command)),
		WakeLock: pomodoro.NoWakeLock{},
		Now:      a.Now,
	}
	if p, ok := a.Identity.(update.Provider); ok {
		deps.Provider = p
	}
	if cfg.Focus.WakeLock {
		deps.WakeLock = pomodoro.NewExecWakeLock()
	}
	if cfg.UI.DesktopNotifications {
		deps.Notifier = update.ExecDesktopNotifier{}
	}

	ex, err := extract.New(cfg.Extractor, cfg.Service.Timeout)
	if err != nil {
		log.Printf("zen: task extraction disabled: %v", err)
	} else {
		deps.Extractor = ex
	}

	if cfg.Storage.DBPath != "" {
		repo, err := storage.OpenSQLite(cfg.Storage.DBPath)
		if err != nil {
			log.Printf("zen: focus log disabled: %v", err)
		} else {
			defer repo.Close()
			deps.FocusLog = repo
		}
	}

	reminders := reminder.NewEngine(cfg.UI.ReminderBuffer, 0)
	reminders.Start()
	defer reminders.Stop()
	deps.Reminders = reminders

	defer func() {
		if err := deps.WakeLock.Release(); err != nil {
			log.Printf("zen: release wake lock: %v", err)
		}
	}()

	program := tea.NewProgram(update.NewModel(deps, update.OptionsFromConfig(cfg)),
		tea.WithContext(ctx),
		tea.WithReportFocus(),
	)
	final, err := program.Run()
	closeModel(final)
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, tea.ErrInterrupted) {
		return fmt.Errorf("zen failed: %w", err)
	}
	return nil
}

// closeModel tears down whatever the program left running. Signals, context
// cancellation and tea.Kill end the program without a final Update, so the
// quit key is not the only way out.
func closeModel(final tea.Model) {
	m, ok := final.(update.Model)
	if !ok {
		return
	}
	if err := m.Close(); err != nil {
		log.Printf("zen: release focus mode: %v", err)
	}
	termenv.DefaultOutput().SetWindowTitle("")
}
