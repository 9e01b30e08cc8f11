package state

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"mentordoc/client/internal/gateway"
	"mentordoc/client/internal/model"
)

// API is what effects receive: the store to read and dispatch to, the
// gateway to call the backend with, and a logger.
type API struct {
	Store   *Store
	Gateway *gateway.Gateway
	Log     zerolog.Logger
}

// Effect performs the remote work of an async action. Returning an
// *model.HTTPError surfaces its messages; any other error is shown as the
// generic message.
type Effect[P any] func(ctx context.Context, api *API, req P) error

// AsyncAction wraps an effect with request-status tracking, duplicate
// suppression and alert surfacing.
type AsyncAction[P any] struct {
	actionType  string
	dispatchKey string
	effect      Effect[P]
}

func NewAsyncAction[P any](actionType, dispatchKey string, effect Effect[P]) *AsyncAction[P] {
	return &AsyncAction[P]{actionType: actionType, dispatchKey: dispatchKey, effect: effect}
}

func (a *AsyncAction[P]) Type() string {
	return a.actionType
}

func (a *AsyncAction[P]) DispatchKey() string {
	return a.dispatchKey
}

// Run executes the action for req and reports whether the effect ran. It
// is a no-op when the same action is already in flight with an equal
// payload. Failures are recorded in state and turned into alerts; they are
// never returned.
func (a *AsyncAction[P]) Run(ctx context.Context, api *API, req P) bool {
	started := api.Store.DispatchIf(
		func(root RootState) bool { return !a.inFlight(root, req) },
		ClearAlerts.Action(struct{}{}),
		SetRequestError.Action(RequestErrorUpdate{ActionType: a.actionType}),
		SetRequestStatus.Action(RequestStatusUpdate{ActionType: a.actionType, Status: model.StatusFetching, Payload: req}),
	)
	if !started {
		api.Log.Debug().Str("action", a.actionType).Msg("request already in flight")
		return false
	}

	err := a.invoke(ctx, api, req)
	if err == nil {
		api.Store.Dispatch(SetRequestStatus.Action(RequestStatusUpdate{ActionType: a.actionType, Status: model.StatusSuccess, Payload: req}))
		return true
	}

	httpErr := normalizeError(err)
	api.Log.Info().Err(err).Str("action", a.actionType).Msg("request failed")

	target := ""
	if targeter, ok := any(req).(model.Targeter); ok {
		target = targeter.AlertTarget()
	}

	actions := []Action{
		SetRequestStatus.Action(RequestStatusUpdate{ActionType: a.actionType, Status: model.StatusFailed, Payload: req}),
		SetRequestError.Action(RequestErrorUpdate{ActionType: a.actionType, Error: httpErr}),
	}
	for _, message := range httpErr.Errors {
		actions = append(actions, AddAlert.Action(model.Alert{Type: model.AlertError, Message: message, Target: target}))
	}
	api.Store.DispatchAll(actions...)
	return true
}

// Dispatchers exposes Run under the action's dispatch key. A payload of the
// wrong type runs the action with the zero request.
func (a *AsyncAction[P]) Dispatchers(api *API) DispatchMap {
	return DispatchMap{
		a.dispatchKey: func(ctx context.Context, payload any) {
			req, _ := payload.(P)
			a.Run(ctx, api, req)
		},
	}
}

// compareUnexported lets request payloads carry unexported fields.
var compareUnexported = cmp.Exporter(func(reflect.Type) bool { return true })

func (a *AsyncAction[P]) inFlight(root RootState, req P) bool {
	record, ok := root.RequestStatus.Status(a.actionType)
	if !ok || record.Status != model.StatusFetching {
		return false
	}
	return cmp.Equal(record.Payload, any(req), compareUnexported)
}

func (a *AsyncAction[P]) invoke(ctx context.Context, api *API, req P) (err error) {
	defer func() {
		if r := recover(); r != nil {
			api.Log.Error().Interface("panic", r).Str("action", a.actionType).Msg("effect panicked")
			err = fmt.Errorf("effect panicked: %v", r)
		}
	}()
	return a.effect(ctx, api, req)
}

func normalizeError(err error) *model.HTTPError {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr != nil && len(httpErr.Errors) > 0 {
		return httpErr
	}
	return model.GenericHTTPError()
}
