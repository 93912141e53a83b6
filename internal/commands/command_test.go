package commands

import (
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/zen/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent", TypeAdd},
		{"status 12 done", TypeStatus},
		{"/refresh", TypeRefresh},
		{"/more", TypeMore},
		{"/sync 4", TypeSync},
		{"/breakdown #4", TypeBreakdown},
		{"/extract call the bank tomorrow", TypeExtract},
		{"/join 2 member", TypeJoin},
		{"/schedule", TypeSchedule},
		{"/mode short", TypeMode},
		{"/FOCUS on", TypeFocus},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddModifiers(t *testing.T) {
	cmd, err := Parse("/add Draft report !high due:2025-07-20")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	a := cmd.Add
	if a.Title != "Draft report" || a.Priority != model.PriorityHigh {
		t.Fatalf("unexpected add args: %+v", a)
	}
	if a.DueDate == nil || a.DueDate.Format(time.DateOnly) != "2025-07-20" {
		t.Fatalf("unexpected due date: %v", a.DueDate)
	}

	plain, err := Parse("/add water plants")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if plain.Add.Priority != model.PriorityMedium || plain.Add.DueDate != nil {
		t.Fatalf("expected medium priority without due date, got %+v", plain.Add)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	inputs := []string{
		"/add",
		"/add !high",
		"/add thing !someday",
		"/add thing due:tomorrow",
		"/status 3",
		"/status x done",
		"/status 3 archived",
		"/sync",
		"/breakdown -1",
		"/extract",
		"/join 2",
		"/mode nap",
		"/focus maybe",
	}
	for _, in := range inputs {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseStatusAcceptsSpacedStatus(t *testing.T) {
	cmd, err := Parse("/status 9 in progress")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Status.TaskID != 9 || cmd.Status.Status != model.StatusInProgress {
		t.Fatalf("unexpected status args: %+v", cmd.Status)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "/"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
			t.Fatalf("parse %q: expected empty input, got %v", in, err)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "write docs" {
				t.Fatalf("unexpected title: %q", a.Title)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	for _, in := range []string{"/refresh", "/join 1 member", "/mode long"} {
		cmd, err := Parse(in)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		_, err = Execute(cmd, Handlers{})
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
			t.Fatalf("%q: expected missing handler error, got %v", in, err)
		}
	}
}

func TestUsageCoversEveryCommand(t *testing.T) {
	for _, name := range Names {
		if Usage[name] == "" {
			t.Fatalf("missing usage for %s", name)
		}
	}
}
