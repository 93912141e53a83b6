package update

import (
	"errors"
	"strings"

	"github.com/sandeepkv93/zen/internal/api"
)

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isStatusError(err error) bool {
	var se *api.StatusError
	return errors.As(err, &se)
}

// errText picks the notice for a failed call: a missing session has its own
// message, everything else gets fallback.
func errText(err error, fallback string) string {
	if errors.Is(err, api.ErrNoSession) {
		return "Authentication required"
	}
	return fallback
}
