package update

import (
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/zen/internal/views"
)

// maxNotifications bounds the notification history.
const maxNotifications = 40

func (m Model) renderCommandPalette() string {
	if !m.Palette.Active {
		return ""
	}
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	body := n.Body
	if n.Title != "" && n.Title != "Status" && n.Title != "Error" && n.Title != "Success" {
		body = n.Title + " " + body
	}
	return views.RenderNotification(n.Level, body)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.deps.Now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	if m.opts.DesktopNotifications && m.deps.Notifier != nil {
		if err := m.deps.Notifier.Send(n); err != nil {
			log.Printf("zen: desktop notification: %v", err)
		}
	}
}

// beginBusy runs cmd with the spinner shown until the matching endBusy.
func (m Model) beginBusy(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	busy := m.busyCmd(cmd)
	return m, busy
}

func (m *Model) busyCmd(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	m.busy++
	if m.busy == 1 {
		return tea.Batch(cmd, m.busySpinner.Tick)
	}
	return cmd
}

func (m *Model) endBusy() {
	if m.busy > 0 {
		m.busy--
	}
}
