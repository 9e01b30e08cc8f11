package app

import (
	"fmt"
	"strings"
)

// ActionError reports the recorded failure of an async action to a caller
// that needs an error value, such as a CLI command.
type ActionError struct {
	Action   string
	Status   int
	Messages []string
}

func (e *ActionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Action, strings.Join(e.Messages, "; "))
}

func actionError(action string, status int, messages []string) *ActionError {
	return &ActionError{
		Action:   action,
		Status:   status,
		Messages: messages,
	}
}
