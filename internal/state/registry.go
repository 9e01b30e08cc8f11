// Package state is the client's action/reducer/selector framework: an
// explicit handler registry, per-slice reducer composition, an immutable
// root state held by a Store, and synchronous and asynchronous actions built
// on top of them.
package state

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateHandler is returned when a (slice, action type) pair is
// registered twice.
var ErrDuplicateHandler = errors.New("cannot register another handler for an existing action")

// Slice names one independent region of the root state.
type Slice string

const (
	SliceUser          Slice = "user"
	SliceRequestStatus Slice = "requestStatus"
	SliceAlert         Slice = "alert"
	SliceOrganization  Slice = "organization"
	SliceFolder        Slice = "folder"
	SliceDocument      Slice = "document"
)

// Action is a plain message: a type string and an optional payload.
type Action struct {
	Type    string
	Payload any
}

// Handler computes the next state of one slice. It must not mutate state.
type Handler func(state any, action Action) any

// Registry maps (slice, action type) to exactly one handler. It is populated
// once at startup and read-only afterwards.
type Registry struct {
	handlers map[Slice]map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Slice]map[string]Handler)}
}

func (r *Registry) Register(slice Slice, actionType string, handler Handler) error {
	byType, ok := r.handlers[slice]
	if !ok {
		byType = make(map[string]Handler)
		r.handlers[slice] = byType
	}
	if _, exists := byType[actionType]; exists {
		return fmt.Errorf("%w: slice=%s type=%s", ErrDuplicateHandler, slice, actionType)
	}
	byType[actionType] = handler
	return nil
}

// MustRegister is Register for startup wiring, where a duplicate is a
// programming error.
func (r *Registry) MustRegister(slice Slice, actionType string, handler Handler) {
	if err := r.Register(slice, actionType, handler); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(slice Slice, actionType string) (Handler, bool) {
	handler, ok := r.handlers[slice][actionType]
	return handler, ok
}

// Types lists the action types registered for slice in sorted order.
func (r *Registry) Types(slice Slice) []string {
	types := make([]string, 0, len(r.handlers[slice]))
	for actionType := range r.handlers[slice] {
		types = append(types, actionType)
	}
	sort.Strings(types)
	return types
}

// Reducer reduces one slice. A nil state means "not yet initialized".
type Reducer[S any] func(state *S, action Action) S

// ComposeReducer builds the reducer of one slice from the handlers
// registered for it. Unknown actions return the state unchanged.
func ComposeReducer[S any](r *Registry, slice Slice, initial S) Reducer[S] {
	return func(state *S, action Action) S {
		current := initial
		if state != nil {
			current = *state
		}
		handler, ok := r.Lookup(slice, action.Type)
		if !ok {
			return current
		}
		value := handler(current, action)
		next, ok := value.(S)
		if !ok {
			panic(fmt.Sprintf("state: handler for %s/%s returned %T", slice, action.Type, value))
		}
		return next
	}
}

// RootReducer combines the per-slice reducers into a reducer of RootState.
func RootReducer(r *Registry) func(root RootState, action Action) RootState {
	initial := InitialState()
	user := ComposeReducer(r, SliceUser, initial.User)
	requestStatus := ComposeReducer(r, SliceRequestStatus, initial.RequestStatus)
	alert := ComposeReducer(r, SliceAlert, initial.Alert)
	organization := ComposeReducer(r, SliceOrganization, initial.Organization)
	folder := ComposeReducer(r, SliceFolder, initial.Folder)
	document := ComposeReducer(r, SliceDocument, initial.Document)

	return func(root RootState, action Action) RootState {
		return RootState{
			User:          user(&root.User, action),
			RequestStatus: requestStatus(&root.RequestStatus, action),
			Alert:         alert(&root.Alert, action),
			Organization:  organization(&root.Organization, action),
			Folder:        folder(&root.Folder, action),
			Document:      document(&root.Document, action),
		}
	}
}
