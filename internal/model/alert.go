package model

import "time"

type AlertType string

const (
	AlertSuccess AlertType = "success"
	AlertError   AlertType = "error"
)

// Alert is a transient notification. Target routes it to one region of the
// view; Lifespan, when set, lets the view dismiss it automatically.
type Alert struct {
	Type     AlertType     `json:"type"`
	Message  string        `json:"message"`
	Lifespan time.Duration `json:"lifespan,omitempty"`
	Target   string        `json:"target,omitempty"`
}

func (a Alert) Key() string {
	return string(a.Type) + "-" + a.Message
}
