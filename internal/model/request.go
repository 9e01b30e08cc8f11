package model

type RequestStatus string

const (
	StatusFetching RequestStatus = "fetching"
	StatusSuccess  RequestStatus = "success"
	StatusFailed   RequestStatus = "failed"
)

type AlertOptions struct {
	Target string `json:"target"`
}

type ActionOptions struct {
	Alerts *AlertOptions `json:"alerts,omitempty"`
}

// Request is embedded by every asynchronous action payload. It carries view
// options and is never sent to the API.
type Request struct {
	Options *ActionOptions `json:"-"`
}

// AlertTarget returns the view region failures of this request are routed to.
func (r Request) AlertTarget() string {
	if r.Options == nil || r.Options.Alerts == nil {
		return ""
	}
	return r.Options.Alerts.Target
}

// Targeted builds a Request whose alerts are routed to target.
func Targeted(target string) Request {
	return Request{Options: &ActionOptions{Alerts: &AlertOptions{Target: target}}}
}

// Targeter is implemented by every payload embedding Request.
type Targeter interface {
	AlertTarget() string
}
