package commands

import "fmt"

type Result struct {
	Message string
}

// Handlers are invoked synchronously; long-running work is expected to be
// started by the handler and reported later.
type Handlers struct {
	Add       func(AddArgs) (Result, error)
	Status    func(StatusArgs) (Result, error)
	Refresh   func() (Result, error)
	More      func() (Result, error)
	Sync      func(TaskArgs) (Result, error)
	Breakdown func(TaskArgs) (Result, error)
	Extract   func(ExtractArgs) (Result, error)
	Join      func(JoinArgs) (Result, error)
	Schedule  func() (Result, error)
	Mode      func(ModeArgs) (Result, error)
	Focus     func(FocusArgs) (Result, error)
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeStatus:
		if handlers.Status == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Status(*cmd.Status)
	case TypeRefresh:
		if handlers.Refresh == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Refresh()
	case TypeMore:
		if handlers.More == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.More()
	case TypeSync:
		if handlers.Sync == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Sync(*cmd.Task)
	case TypeBreakdown:
		if handlers.Breakdown == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Breakdown(*cmd.Task)
	case TypeExtract:
		if handlers.Extract == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Extract(*cmd.Extract)
	case TypeJoin:
		if handlers.Join == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Join(*cmd.Join)
	case TypeSchedule:
		if handlers.Schedule == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Schedule()
	case TypeMode:
		if handlers.Mode == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Mode(*cmd.Mode)
	case TypeFocus:
		if handlers.Focus == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Focus(*cmd.Focus)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
