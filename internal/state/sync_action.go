package state

import (
	"context"
	"fmt"
)

// Installer folds an action descriptor into a registry.
type Installer interface {
	Install(r *Registry) error
}

// SyncAction describes an action whose handler updates one slice
// synchronously. Descriptors have no side effects until Install is called.
type SyncAction[S any, P any] struct {
	slice       Slice
	actionType  string
	selectorKey string
	dispatchKey string
	// void actions run their handler even without a payload.
	void     bool
	handle   func(state S, payload P) S
	selector func(root RootState) any
}

func newSyncAction[S any, P any](slice Slice, actionType, selectorKey, dispatchKey string, handle func(S, P) S, selector func(RootState) any) *SyncAction[S, P] {
	return &SyncAction[S, P]{
		slice:       slice,
		actionType:  actionType,
		selectorKey: selectorKey,
		dispatchKey: dispatchKey,
		handle:      handle,
		selector:    selector,
	}
}

func newVoidSyncAction[S any](slice Slice, actionType, dispatchKey string, handle func(S) S) *SyncAction[S, struct{}] {
	a := newSyncAction(slice, actionType, "", dispatchKey, func(state S, _ struct{}) S { return handle(state) }, nil)
	a.void = true
	return a
}

func (a *SyncAction[S, P]) Type() string {
	return a.actionType
}

func (a *SyncAction[S, P]) Slice() Slice {
	return a.slice
}

func (a *SyncAction[S, P]) SelectorKey() string {
	return a.selectorKey
}

func (a *SyncAction[S, P]) DispatchKey() string {
	return a.dispatchKey
}

// Action builds the message for payload.
func (a *SyncAction[S, P]) Action(payload P) Action {
	return Action{Type: a.actionType, Payload: payload}
}

// Handle returns state unchanged when the action carries no usable payload,
// otherwise a new state built from a clone.
func (a *SyncAction[S, P]) Handle(state S, action Action) S {
	payload, ok := action.Payload.(P)
	if !ok {
		if !a.void || action.Payload != nil {
			return state
		}
	}
	return a.handle(state, payload)
}

func (a *SyncAction[S, P]) Install(r *Registry) error {
	return r.Register(a.slice, a.actionType, func(state any, action Action) any {
		current, ok := state.(S)
		if !ok {
			panic(fmt.Sprintf("state: %s received %T", a.actionType, state))
		}
		return a.Handle(current, action)
	})
}

// Selector exposes the action's selector value under its selector key.
// Actions without a selector contribute nothing.
func (a *SyncAction[S, P]) Selector(root RootState) SelectorMap {
	if a.selector == nil || a.selectorKey == "" {
		return SelectorMap{}
	}
	return SelectorMap{a.selectorKey: a.selector(root)}
}

// Select returns the selector value directly.
func (a *SyncAction[S, P]) Select(root RootState) any {
	if a.selector == nil {
		return nil
	}
	return a.selector(root)
}

// Dispatchers exposes a dispatch function under the action's dispatch key.
// A payload of the wrong type dispatches an empty action, which leaves the
// state unchanged.
func (a *SyncAction[S, P]) Dispatchers(api *API) DispatchMap {
	return DispatchMap{
		a.dispatchKey: func(_ context.Context, payload any) {
			action := Action{Type: a.actionType}
			if typed, ok := payload.(P); ok {
				action.Payload = typed
			}
			api.Store.Dispatch(action)
		},
	}
}
