package update

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// scopeTasks is the request scope of the task list, which outlives screens.
const scopeTasks Screen = "tasks"

type scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	gen    uint64
}

// requests hands out per-screen contexts. Resetting a scope cancels its
// outstanding calls and bumps its generation so late results are dropped.
type requests struct {
	parent context.Context
	scopes map[Screen]*scope
}

func newRequests(parent context.Context) *requests {
	return &requests{parent: parent, scopes: make(map[Screen]*scope)}
}

func (r *requests) get(s Screen) *scope {
	sc, ok := r.scopes[s]
	if !ok {
		sc = &scope{}
		r.scopes[s] = sc
	}
	if sc.ctx == nil {
		sc.ctx, sc.cancel = context.WithCancel(r.parent)
	}
	return sc
}

func (r *requests) begin(s Screen) (context.Context, uint64) {
	sc := r.get(s)
	return sc.ctx, sc.gen
}

func (r *requests) current(s Screen, gen uint64) bool {
	sc, ok := r.scopes[s]
	return ok && sc.gen == gen
}

func (r *requests) reset(s Screen) {
	sc, ok := r.scopes[s]
	if !ok {
		return
	}
	if sc.cancel != nil {
		sc.cancel()
	}
	sc.ctx, sc.cancel = nil, nil
	sc.gen++
}

func (r *requests) resetAll() {
	for s := range r.scopes {
		r.reset(s)
	}
}

// teaDisplay turns focus-mode display effects into bubbletea commands that
// are flushed after each guard call.
type teaDisplay struct {
	title string
	cmds  []tea.Cmd
}

const appTitle = "Zen Schedule"

func (d *teaDisplay) SetTitle(title string) {
	if title == d.title {
		return
	}
	d.title = title
	d.cmds = append(d.cmds, tea.SetWindowTitle(title))
}

func (d *teaDisplay) RestoreTitle() {
	d.title = ""
	d.cmds = append(d.cmds, tea.SetWindowTitle(appTitle))
}

func (d *teaDisplay) EnterFullscreen() error {
	d.cmds = append(d.cmds, tea.EnterAltScreen)
	return nil
}

func (d *teaDisplay) ExitFullscreen() error {
	d.cmds = append(d.cmds, tea.ExitAltScreen)
	return nil
}

func (d *teaDisplay) flush() tea.Cmd {
	if len(d.cmds) == 0 {
		return nil
	}
	cmds := d.cmds
	d.cmds = nil
	return tea.Batch(cmds...)
}
