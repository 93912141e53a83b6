package tasklist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/zen/internal/api"
	"github.com/sandeepkv93/zen/internal/model"
	"github.com/sandeepkv93/zen/internal/session"
)

const DefaultLimit = 10

var ErrTaskNotLoaded = errors.New("tasklist: task not loaded")

// Store is the subset of the task service the controller uses.
type Store interface {
	ListTasks(ctx context.Context, q api.TaskQuery) ([]model.Task, error)
	CreateTask(ctx context.Context, in api.NewTask) (model.Task, error)
	UpdateTask(ctx context.Context, id int64, in api.TaskUpdate) (model.Task, error)
	BreakdownTask(ctx context.Context, id int64) ([]model.Task, error)
	SyncTaskToCalendar(ctx context.Context, taskID, userID int64) error
}

// Sessions yields the current app session.
type Sessions interface {
	Current() (session.Session, bool)
}

// StoreFactory authorizes a store with the current session.
type StoreFactory func(s session.Session) Store

// Page is the result of one fetch.
type Page struct {
	Generation uint64
	Skip       int
	Tasks      []model.Task
}

// Controller holds the paginated task list for the signed-in user.
type Controller struct {
	sessions Sessions
	store    StoreFactory
	limit    int
	now      func() time.Time

	mu          sync.Mutex
	tasks       []model.Task
	skip        int
	pendingMore bool
	lastPageLen int
	generation  uint64
	loading     bool
	lastErr     error
	overlay     map[int64]model.ScheduledTask
}

func New(sessions Sessions, store StoreFactory, limit int) *Controller {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Controller{
		sessions: sessions,
		store:    store,
		limit:    limit,
		now:      time.Now,
		overlay:  make(map[int64]model.ScheduledTask),
	}
}

// ClientStore adapts an api.Client to a StoreFactory.
func ClientStore(client *api.Client) StoreFactory {
	return func(s session.Session) Store {
		return client.WithSession(s)
	}
}

func (c *Controller) Limit() int {
	return c.limit
}

func (c *Controller) session() (session.Session, bool) {
	s, ok := c.sessions.Current()
	if !ok || !s.Valid() {
		return session.Session{}, false
	}
	return s, true
}

// Fetch requests the page at the current offset. It returns ok=false with no
// request issued when there is no session.
func (c *Controller) Fetch(ctx context.Context) (Page, bool, error) {
	s, ok := c.session()
	if !ok {
		return Page{}, false, nil
	}

	c.mu.Lock()
	gen := c.generation
	skip := c.nextSkip()
	c.loading = true
	c.lastErr = nil
	c.mu.Unlock()

	tasks, err := c.store(s).ListTasks(ctx, api.TaskQuery{Skip: skip, Limit: c.limit, AssigneeID: s.User.ID})
	page := Page{Generation: gen, Skip: skip, Tasks: tasks}
	if err != nil {
		c.mu.Lock()
		if gen == c.generation && skip == c.nextSkip() {
			// the next "more" retries the page that failed
			c.loading = false
			c.lastErr = err
			c.pendingMore = false
		}
		c.mu.Unlock()
		return page, true, err
	}
	c.Apply(page)
	return page, true, nil
}

// Apply merges a fetched page and commits its offset. Pages from an older
// generation or for an offset other than the one requested are dropped.
func (c *Controller) Apply(p Page) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.Generation != c.generation || p.Skip != c.nextSkip() {
		return false
	}
	c.loading = false
	c.skip = p.Skip
	c.pendingMore = false
	c.lastPageLen = len(p.Tasks)
	if p.Skip == 0 {
		c.tasks = append([]model.Task(nil), p.Tasks...)
		return true
	}
	c.tasks = append(c.tasks, p.Tasks...)
	return true
}

// Refresh resets pagination and clears the accumulated list.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.skip = 0
	c.pendingMore = false
	c.lastPageLen = 0
	c.tasks = nil
	c.lastErr = nil
}

// LoadMore asks the next Fetch for the page after the last one applied. The
// offset only moves once that page is applied, so it reports false while a
// fetch is in flight, while a request for the next page is pending, and when
// the last page was short.
func (c *Controller) LoadMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading || c.pendingMore || c.lastPageLen != c.limit {
		return false
	}
	c.pendingMore = true
	return true
}

// nextSkip is the offset the next Fetch requests. c.mu must be held.
func (c *Controller) nextSkip() int {
	if c.pendingMore {
		return c.skip + c.limit
	}
	return c.skip
}

// HasMore reports whether the last page was full. A full final page still
// reports true; the service exposes no total count.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPageLen > 0 && c.lastPageLen == c.limit
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Skip is the offset the next Fetch will request.
func (c *Controller) Skip() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextSkip()
}

func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *Controller) Tasks() []model.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

func (c *Controller) Task(id int64) (model.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// SetStatus moves a loaded task to status. The transition is validated
// before any request and the local copy changes only after the service
// confirms.
func (c *Controller) SetStatus(ctx context.Context, id int64, to model.Status) (model.Task, error) {
	task, ok := c.Task(id)
	if !ok {
		return model.Task{}, fmt.Errorf("%w: %d", ErrTaskNotLoaded, id)
	}
	if err := model.ValidateTransition(task.Status, to); err != nil {
		return model.Task{}, err
	}
	s, ok := c.session()
	if !ok {
		return model.Task{}, api.ErrNoSession
	}

	to = to.Normalize()
	updated, err := c.store(s).UpdateTask(ctx, id, api.UpdateFromTask(task, to))
	if err != nil {
		return model.Task{}, err
	}

	local := task.WithStatus(to, c.now())
	if updated.ID == id && updated.Status.IsValid() {
		local = updated
		if local.Status.Normalize() == model.StatusDone && local.CompletedAt == nil {
			local = local.WithStatus(model.StatusDone, c.now())
		}
	}
	c.replace(local)
	return local, nil
}

func (c *Controller) replace(t model.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == t.ID {
			c.tasks[i] = t
			return
		}
	}
}

func (c *Controller) prepend(t model.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append([]model.Task{t}, c.tasks...)
}

// QuickAddInput is what the quick-add form collects.
type QuickAddInput struct {
	Title          string
	Description    string
	Priority       model.Priority
	DueDate        *time.Time
	StartDate      *time.Time
	EstimatedHours *float64
	Category       string
	ProjectID      *int64
}

// QuickAdd creates a todo task owned by and assigned to the session user and
// puts it at the head of the list.
func (c *Controller) QuickAdd(ctx context.Context, in QuickAddInput) (model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Task{}, errors.New("tasklist: title is required")
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.IsValid() {
		return model.Task{}, fmt.Errorf("%w: %q", model.ErrInvalidPriority, priority)
	}
	s, ok := c.session()
	if !ok {
		return model.Task{}, api.ErrNoSession
	}

	req := api.NewTask{
		Title:            title,
		Description:      model.String(strings.TrimSpace(in.Description)),
		Status:           model.StatusTodo,
		Priority:         priority,
		ProjectID:        in.ProjectID,
		AssigneeID:       model.Int64(s.User.ID),
		CreatorID:        s.User.ID,
		AICategory:       model.String(strings.TrimSpace(in.Category)),
		AIEstimatedHours: in.EstimatedHours,
	}
	if in.DueDate != nil {
		req.DueDate = model.NewTimestamp(*in.DueDate)
	}
	if in.StartDate != nil {
		req.StartDate = model.NewTimestamp(*in.StartDate)
	}

	created, err := c.store(s).CreateTask(ctx, req)
	if err != nil {
		return model.Task{}, err
	}
	if created.ID == 0 {
		created = model.Task{
			Title:            req.Title,
			Description:      req.Description,
			Status:           req.Status,
			Priority:         req.Priority,
			DueDate:          req.DueDate,
			StartDate:        req.StartDate,
			AssigneeID:       req.AssigneeID,
			ProjectID:        req.ProjectID,
			CreatorID:        req.CreatorID,
			AICategory:       req.AICategory,
			AIEstimatedHours: req.AIEstimatedHours,
			CreatedAt:        model.Timestamp{Time: c.now()},
		}
	}
	c.prepend(created)
	return created, nil
}

// CreateFromExtraction turns a confirmed AI extraction into a task.
func (c *Controller) CreateFromExtraction(ctx context.Context, e model.ExtractedTask) (model.Task, error) {
	if err := e.Validate(); err != nil {
		return model.Task{}, err
	}
	priority, _ := model.ParsePriority(e.Priority)
	in := QuickAddInput{
		Title:       e.Title,
		Description: e.Description,
		Priority:    priority,
	}
	if e.Category != nil {
		in.Category = *e.Category
	}
	if due, ok := parseDate(e.DueDate); ok {
		in.DueDate = &due
	}
	if start, ok := parseDate(e.StartDate); ok {
		in.StartDate = &start
	}
	return c.QuickAdd(ctx, in)
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	ts, err := model.ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts.Time, true
}

// Breakdown asks the service for AI subtasks of a task.
func (c *Controller) Breakdown(ctx context.Context, id int64) ([]model.Task, error) {
	s, ok := c.session()
	if !ok {
		return nil, api.ErrNoSession
	}
	return c.store(s).BreakdownTask(ctx, id)
}

// SyncToCalendar pushes a task to the user's calendar via the service.
func (c *Controller) SyncToCalendar(ctx context.Context, id int64) error {
	task, ok := c.Task(id)
	if ok && task.Status.IsTerminal() {
		return fmt.Errorf("tasklist: task %d is %s", id, task.Status.Normalize())
	}
	s, ok := c.session()
	if !ok {
		return api.ErrNoSession
	}
	return c.store(s).SyncTaskToCalendar(ctx, id, s.User.ID)
}

// ApplySchedule installs smart-schedule suggestions, replacing earlier ones.
func (c *Controller) ApplySchedule(items []model.ScheduledTask) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overlay = make(map[int64]model.ScheduledTask, len(items))
	for _, it := range items {
		c.overlay[it.TaskID] = it
	}
}

func (c *Controller) Suggestion(id int64) (model.ScheduledTask, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.overlay[id]
	return s, ok
}

// Counts returns completed and total tasks among those loaded.
func (c *Controller) Counts() (completed, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		if t.Status.Normalize() == model.StatusDone {
			completed++
		}
	}
	return completed, len(c.tasks)
}

// Reset drops everything, used on sign-out.
func (c *Controller) Reset() {
	c.Refresh()
	c.ApplySchedule(nil)
}
