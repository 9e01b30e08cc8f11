package model

import "strings"

// GenericErrorMessage is shown whenever a failure carries nothing displayable.
const GenericErrorMessage = "something went wrong"

// HTTPError is the structured error of the API: a list of messages that are
// safe to show to the user. Non-2xx response bodies decode into it.
type HTTPError struct {
	Status int      `json:"-"`
	Errors []string `json:"errors"`
}

func NewHTTPError(messages ...string) *HTTPError {
	return &HTTPError{Errors: messages}
}

// GenericHTTPError is the coerced form of any failure that is not already structured.
func GenericHTTPError() *HTTPError {
	return NewHTTPError(GenericErrorMessage)
}

func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Errors) == 0 {
		return GenericErrorMessage
	}
	return strings.Join(e.Errors, "; ")
}
