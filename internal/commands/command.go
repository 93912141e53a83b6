package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/zen/internal/model"
)

type Type string

const (
	TypeAdd       Type = "add"
	TypeStatus    Type = "status"
	TypeRefresh   Type = "refresh"
	TypeMore      Type = "more"
	TypeSync      Type = "sync"
	TypeBreakdown Type = "breakdown"
	TypeExtract   Type = "extract"
	TypeJoin      Type = "join"
	TypeSchedule  Type = "schedule"
	TypeMode      Type = "mode"
	TypeFocus     Type = "focus"
)

// Names lists the palette commands in help order.
var Names = []Type{
	TypeAdd, TypeStatus, TypeRefresh, TypeMore, TypeSync, TypeBreakdown,
	TypeExtract, TypeJoin, TypeSchedule, TypeMode, TypeFocus,
}

// Usage is the one-line syntax for each command.
var Usage = map[Type]string{
	TypeAdd:       "/add <title> [!low|!medium|!high|!urgent] [due:YYYY-MM-DD]",
	TypeStatus:    "/status <id> <todo|in_progress|done|cancelled>",
	TypeRefresh:   "/refresh",
	TypeMore:      "/more",
	TypeSync:      "/sync <id>",
	TypeBreakdown: "/breakdown <id>",
	TypeExtract:   "/extract <text>",
	TypeJoin:      "/join <team-id> <role>",
	TypeSchedule:  "/schedule",
	TypeMode:      "/mode work|short|long",
	TypeFocus:     "/focus on|off",
}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Title    string
	Priority model.Priority
	DueDate  *time.Time
}

type StatusArgs struct {
	TaskID int64
	Status model.Status
}

type TaskArgs struct {
	TaskID int64
}

type ExtractArgs struct {
	Script string
}

type JoinArgs struct {
	TeamID int64
	Role   string
}

type ModeArgs struct {
	Mode model.FocusMode
}

type FocusArgs struct {
	On bool
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Status  *StatusArgs
	Task    *TaskArgs
	Extract *ExtractArgs
	Join    *JoinArgs
	Mode    *ModeArgs
	Focus   *FocusArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeStatus:
		return parseStatus(input, args)
	case TypeRefresh, TypeMore, TypeSchedule:
		return Command{Type: Type(head), Raw: input}, nil
	case TypeSync, TypeBreakdown:
		return parseTask(input, Type(head), args)
	case TypeExtract:
		return parseExtract(input, args)
	case TypeJoin:
		return parseJoin(input, args)
	case TypeMode:
		return parseMode(input, args)
	case TypeFocus:
		return parseFocus(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{Priority: model.PriorityMedium}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "!") && len(lower) > 1:
			p, err := model.ParsePriority(lower[1:])
			if err != nil {
				return Command{}, invalid("unknown priority %q", arg)
			}
			out.Priority = p
		case strings.HasPrefix(lower, "due:"):
			due, err := time.ParseInLocation(time.DateOnly, arg[len("due:"):], time.Local)
			if err != nil {
				return Command{}, invalid("due date must be YYYY-MM-DD, got %q", arg[len("due:"):])
			}
			out.DueDate = &due
		default:
			words = append(words, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(words, " "))
	if out.Title == "" {
		return Command{}, invalid("add requires a title")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseStatus(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("status requires task id and status")
	}
	id, err := parseID(args[0])
	if err != nil {
		return Command{}, err
	}
	status, err := model.ParseStatus(strings.Join(args[1:], "_"))
	if err != nil {
		return Command{}, invalid("unknown status %q", strings.Join(args[1:], " "))
	}
	return Command{Type: TypeStatus, Raw: raw, Status: &StatusArgs{TaskID: id, Status: status}}, nil
}

func parseTask(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("%s requires a task id", typ)
	}
	id, err := parseID(args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: typ, Raw: raw, Task: &TaskArgs{TaskID: id}}, nil
}

func parseExtract(raw string, args []string) (Command, error) {
	script := strings.TrimSpace(strings.Join(args, " "))
	if script == "" {
		return Command{}, invalid("extract requires text")
	}
	return Command{Type: TypeExtract, Raw: raw, Extract: &ExtractArgs{Script: script}}, nil
}

func parseJoin(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("join requires team id and role")
	}
	id, err := parseID(args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeJoin, Raw: raw, Join: &JoinArgs{TeamID: id, Role: strings.ToLower(args[1])}}, nil
}

func parseMode(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("mode requires work, short or long")
	}
	mode, err := model.ParseFocusMode(args[0])
	if err != nil {
		return Command{}, invalid("unknown mode %q", args[0])
	}
	return Command{Type: TypeMode, Raw: raw, Mode: &ModeArgs{Mode: mode}}, nil
}

func parseFocus(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("focus requires on or off")
	}
	switch strings.ToLower(args[0]) {
	case "on", "true", "1":
		return Command{Type: TypeFocus, Raw: raw, Focus: &FocusArgs{On: true}}, nil
	case "off", "false", "0":
		return Command{Type: TypeFocus, Raw: raw, Focus: &FocusArgs{On: false}}, nil
	default:
		return Command{}, invalid("focus requires on or off, got %q", args[0])
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(raw, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid("invalid task id %q", raw)
	}
	return id, nil
}
