// Package view is the terminal view layer: it binds selectors and
// dispatchers to a store and renders state for the CLI.
package view

import (
	"context"
	"fmt"

	"mentordoc/client/internal/state"
)

// Props is a connected view's window onto the store: Select reads the
// current values, Dispatch runs actions by key.
type Props struct {
	store    *state.Store
	selector state.Selector
	dispatch state.DispatchMap
}

func Connect(api *state.API, selectors []state.Selector, dispatchers []state.DispatchBinder) Props {
	return Props{
		store:    api.Store,
		selector: state.CombineSelectors(selectors...),
		dispatch: state.CombineDispatchers(dispatchers...)(api),
	}
}

// Select evaluates every selector against the latest state.
func (p Props) Select() state.SelectorMap {
	return p.selector(p.store.State())
}

// Dispatch runs the dispatcher registered under key. Unknown keys are an error
// rather than a silent no-op.
func (p Props) Dispatch(ctx context.Context, key string, payload any) error {
	fn, ok := p.dispatch[key]
	if !ok {
		return fmt.Errorf("view: no dispatcher %q", key)
	}
	fn(ctx, payload)
	return nil
}

func (p Props) Has(key string) bool {
	_, ok := p.dispatch[key]
	return ok
}
