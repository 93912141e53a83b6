package reminder

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/zen/internal/model"
)

var (
	ErrInvalidTriggerTime = errors.New("reminder: invalid trigger time")
	ErrStopped            = errors.New("reminder: engine stopped")
)

type entry struct {
	rem      model.Reminder
	canceled bool
}

type dueQueue []*entry

func (q dueQueue) Len() int { return len(q) }

func (q dueQueue) Less(i, j int) bool {
	return q[i].rem.TriggerTime.Before(q[j].rem.TriggerTime)
}

func (q dueQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *dueQueue) Push(x any) { *q = append(*q, x.(*entry)) }

func (q *dueQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// Engine fires due-date reminders for loaded tasks. Delivery on C is
// non-blocking: a full buffer drops the reminder and counts it.
type Engine struct {
	lead time.Duration
	now  func() time.Time

	mu      sync.Mutex
	queue   dueQueue
	pending map[string]*entry
	byTask  map[int64]*entry
	out     chan model.Reminder
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped atomic.Uint64
}

// NewEngine creates an engine that fires lead before each due time.
func NewEngine(bufferSize int, lead time.Duration) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		lead:    lead,
		now:     time.Now,
		pending: make(map[string]*entry),
		byTask:  make(map[int64]*entry),
		out:     make(chan model.Reminder, bufferSize),
		wakeup:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

func (e *Engine) C() <-chan model.Reminder {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.stopped = true
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule queues a reminder. Scheduling the same task again replaces its
// pending reminder; an identical reminder is a no-op.
func (e *Engine) Schedule(rem model.Reminder) error {
	if rem.TriggerTime.IsZero() {
		return ErrInvalidTriggerTime
	}
	if err := rem.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	key := rem.Key()
	if _, ok := e.pending[key]; ok {
		return nil
	}
	e.cancelLocked(rem.TaskID)
	it := &entry{rem: rem}
	heap.Push(&e.queue, it)
	e.pending[key] = it
	e.byTask[rem.TaskID] = it
	e.signalWakeup()
	return nil
}

// Cancel drops the pending reminder for a task.
func (e *Engine) Cancel(taskID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked(taskID)
}

func (e *Engine) cancelLocked(taskID int64) {
	it, ok := e.byTask[taskID]
	if !ok {
		return
	}
	it.canceled = true
	delete(e.byTask, taskID)
	delete(e.pending, it.rem.Key())
}

// Sync schedules reminders for open tasks due in the future and cancels
// them for tasks that no longer qualify. It returns how many are pending.
func (e *Engine) Sync(tasks []model.Task) int {
	now := e.now()
	for _, t := range tasks {
		rem, ok := model.ReminderFor(t)
		if !ok {
			e.Cancel(t.ID)
			continue
		}
		rem.TriggerTime = rem.TriggerTime.Add(-e.lead)
		if !rem.TriggerTime.After(now) {
			e.Cancel(t.ID)
			continue
		}
		if err := e.Schedule(rem); err != nil {
			break
		}
	}
	return e.Pending()
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, ok := e.peek()
		if !ok {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := next.Sub(e.now())
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, rem := range e.popDue(e.now()) {
				select {
				case e.out <- rem:
				default:
					e.dropped.Add(1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

// peek returns the next live trigger time, discarding canceled heads.
func (e *Engine) peek() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) > 0 {
		if head := e.queue[0]; !head.canceled {
			return head.rem.TriggerTime, true
		}
		heap.Pop(&e.queue)
	}
	return time.Time{}, false
}

func (e *Engine) popDue(now time.Time) []model.Reminder {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []model.Reminder
	for len(e.queue) > 0 {
		head := e.queue[0]
		if head.rem.TriggerTime.After(now) {
			break
		}
		heap.Pop(&e.queue)
		if head.canceled {
			continue
		}
		delete(e.pending, head.rem.Key())
		if e.byTask[head.rem.TaskID] == head {
			delete(e.byTask, head.rem.TaskID)
		}
		out = append(out, head.rem)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
