package state

import "context"

// SelectorMap is the named read surface a view receives.
type SelectorMap map[string]any

// DispatchFunc triggers one action. Synchronous actions return once the
// state is updated, asynchronous ones once their effect has finished.
type DispatchFunc func(ctx context.Context, payload any)

// DispatchMap is the named write surface a view receives.
type DispatchMap map[string]DispatchFunc

// Selector derives named values from the root state.
type Selector func(root RootState) SelectorMap

// DispatchBinder binds named dispatch functions to an API.
type DispatchBinder func(api *API) DispatchMap

// CombineSelectors merges selectors; on a key collision the later selector wins.
func CombineSelectors(selectors ...Selector) Selector {
	return func(root RootState) SelectorMap {
		combined := SelectorMap{}
		for _, selector := range selectors {
			for key, value := range selector(root) {
				combined[key] = value
			}
		}
		return combined
	}
}

// CombineDispatchers merges dispatch maps; on a key collision the later binder wins.
func CombineDispatchers(binders ...DispatchBinder) DispatchBinder {
	return func(api *API) DispatchMap {
		combined := DispatchMap{}
		for _, binder := range binders {
			for key, fn := range binder(api) {
				combined[key] = fn
			}
		}
		return combined
	}
}
