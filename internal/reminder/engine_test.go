package reminder

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/zen/internal/model"
)

func TestEngineEmitsInTriggerOrder(t *testing.T) {
	engine := NewEngine(8, 0)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(model.Reminder{TaskID: 2, Title: "later", TriggerTime: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(model.Reminder{TaskID: 1, Title: "sooner", TriggerTime: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitReminder(t, engine.C(), time.Second)
	second := waitReminder(t, engine.C(), time.Second)
	if first.Title != "sooner" || second.Title != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.Title, second.Title)
	}
	if engine.Pending() != 0 {
		t.Fatalf("expected nothing pending, got %d", engine.Pending())
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1, 0)
	engine.Start()
	defer engine.Stop()

	at := time.Now().Add(20 * time.Millisecond)
	for i := int64(1); i <= 25; i++ {
		if err := engine.Schedule(model.Reminder{TaskID: i, TriggerTime: at}); err != nil {
			t.Fatalf("schedule: %v", err)
		}
	}

	time.Sleep(150 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped reminders > 0, got %d", engine.Dropped())
	}
}

func TestCancelAndReplace(t *testing.T) {
	engine := NewEngine(8, 0)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	_ = engine.Schedule(model.Reminder{TaskID: 1, Title: "canceled", TriggerTime: now.Add(20 * time.Millisecond)})
	_ = engine.Schedule(model.Reminder{TaskID: 2, Title: "old", TriggerTime: now.Add(20 * time.Millisecond)})
	_ = engine.Schedule(model.Reminder{TaskID: 2, Title: "moved", TriggerTime: now.Add(40 * time.Millisecond)})
	engine.Cancel(1)

	got := waitReminder(t, engine.C(), time.Second)
	if got.Title != "moved" {
		t.Fatalf("expected only the replacement to fire, got %q", got.Title)
	}
	select {
	case extra := <-engine.C():
		t.Fatalf("unexpected extra reminder %+v", extra)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestSyncSchedulesOpenFutureTasks(t *testing.T) {
	now := time.Date(2025, 7, 20, 9, 0, 0, 0, time.UTC)
	engine := NewEngine(8, 15*time.Minute)
	engine.now = func() time.Time { return now }

	tasks := []model.Task{
		{ID: 1, Title: "future", Status: model.StatusTodo, DueDate: model.NewTimestamp(now.Add(time.Hour))},
		{ID: 2, Title: "past", Status: model.StatusTodo, DueDate: model.NewTimestamp(now.Add(-time.Hour))},
		{ID: 3, Title: "done", Status: model.StatusDone, DueDate: model.NewTimestamp(now.Add(time.Hour))},
		{ID: 4, Title: "undated", Status: model.StatusInProgress},
		{ID: 5, Title: "inside lead", Status: model.StatusTodo, DueDate: model.NewTimestamp(now.Add(10 * time.Minute))},
	}
	if n := engine.Sync(tasks); n != 1 {
		t.Fatalf("expected 1 pending reminder, got %d", n)
	}
	if n := engine.Sync(tasks); n != 1 {
		t.Fatalf("re-sync must not duplicate, got %d", n)
	}

	tasks[0].Status = model.StatusCancelled
	if n := engine.Sync(tasks); n != 0 {
		t.Fatalf("terminal task reminder should be canceled, got %d", n)
	}
}

func TestScheduleValidation(t *testing.T) {
	engine := NewEngine(1, 0)
	if err := engine.Schedule(model.Reminder{TaskID: 1}); !errors.Is(err, ErrInvalidTriggerTime) {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
	engine.Stop()
	if err := engine.Schedule(model.Reminder{TaskID: 1, TriggerTime: time.Now()}); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestEngineConcurrentSchedule(t *testing.T) {
	engine := NewEngine(4096, 0)
	engine.Start()
	defer engine.Stop()

	const workers = 8
	const perWorker = 100
	total := workers * perWorker

	now := time.Now()
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				rem := model.Reminder{
					TaskID:      int64(w*perWorker + i + 1),
					TriggerTime: now.Add(time.Duration((w+i)%50+10) * time.Millisecond),
				}
				if err := engine.Schedule(rem); err != nil {
					t.Errorf("schedule failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	deadline := time.After(5 * time.Second)
	received := 0
	for received < total {
		select {
		case <-deadline:
			t.Fatalf("timeout: received=%d total=%d dropped=%d", received, total, engine.Dropped())
		case <-engine.C():
			received++
		}
	}
	if engine.Dropped() != 0 {
		t.Fatalf("expected zero drops with active consumer, got %d", engine.Dropped())
	}
}

func waitReminder(t *testing.T, ch <-chan model.Reminder, timeout time.Duration) model.Reminder {
	t.Helper()
	select {
	case rem := <-ch:
		return rem
	case <-time.After(timeout):
		t.Fatal("timed out waiting for reminder")
		return model.Reminder{}
	}
}
