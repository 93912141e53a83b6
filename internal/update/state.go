package update

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// uiState is what survives a restart of the TUI.
type uiState struct {
	LastScreen Screen `json:"last_screen"`
	FocusMode  bool   `json:"focus_mode"`
}

func (m Model) persistUIState() error {
	path := strings.TrimSpace(m.opts.StatePath)
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	screen := m.CurrentScreen
	if screen == ScreenTeamDetail {
		screen = ScreenTeams
	}
	payload, err := json.MarshalIndent(uiState{LastScreen: screen, FocusMode: m.guard.Enabled()}, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func loadUIState(path string) (uiState, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return uiState{}, nil
	}
	raw, err := os.ReadFile(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return uiState{}, nil
		}
		return uiState{}, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return uiState{}, nil
	}
	var st uiState
	if err := json.Unmarshal(raw, &st); err != nil {
		return uiState{}, err
	}
	return st, nil
}

// restoreUIState reopens the last screen. Focus mode stays off until the
// timer is started again, so only the preference is restored.
func (m *Model) restoreUIState(st uiState) {
	if isTab(st.LastScreen) {
		m.CurrentScreen = st.LastScreen
	}
	if st.FocusMode {
		_ = m.guard.SetEnabled(true, m.Focus.Timer)
	}
}
