package state

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Dispatcher applies actions to a store.
type Dispatcher interface {
	Dispatch(action Action)
}

// Listener observes committed state changes.
type Listener func(prev, next RootState)

// Store owns the root state. Dispatches are serialized, so every action (or
// batch of actions) is applied atomically relative to every other one.
//
// Listeners run in commit order after the state lock is released. They may
// read the store but must not dispatch synchronously; hand work to another
// goroutine instead.
type Store struct {
	mu     sync.Mutex
	state  RootState
	reduce func(RootState, Action) RootState

	notifyMu  sync.Mutex
	listeners map[int]Listener
	nextID    int

	log zerolog.Logger
}

type StoreOption func(*Store)

func WithInitialState(root RootState) StoreOption {
	return func(s *Store) { s.state = root }
}

func WithStoreLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) { s.log = log }
}

func NewStore(registry *Registry, opts ...StoreOption) *Store {
	s := &Store{
		state:     InitialState(),
		reduce:    RootReducer(registry),
		listeners: make(map[int]Listener),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) State() RootState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Dispatch(action Action) {
	s.DispatchIf(nil, action)
}

func (s *Store) DispatchAll(actions ...Action) {
	s.DispatchIf(nil, actions...)
}

// DispatchIf applies actions only when guard accepts the current state. The
// check and the reduction happen under the same lock. A nil guard always
// accepts. A panicking guard or reducer leaves the state unchanged.
func (s *Store) DispatchIf(guard func(RootState) bool, actions ...Action) bool {
	prev, next, ok := s.commit(guard, actions)
	if !ok {
		return false
	}
	defer s.notifyMu.Unlock()

	for _, id := range s.listenerIDs() {
		s.listeners[id](prev, next)
	}
	return true
}

// commit reduces actions under mu. When it returns ok, notifyMu is held: it
// is taken before mu is released so notifications keep commit order.
func (s *Store) commit(guard func(RootState) bool, actions []Action) (prev, next RootState, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev = s.state
	if guard != nil && !guard(prev) {
		return prev, prev, false
	}
	next = prev
	for _, action := range actions {
		s.log.Debug().Str("action", action.Type).Msg("dispatch")
		next = s.reduce(next, action)
	}
	s.state = next
	s.notifyMu.Lock()
	return prev, next, true
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.notifyMu.Lock()
			defer s.notifyMu.Unlock()
			delete(s.listeners, id)
		})
	}
}

// listenerIDs returns subscription ids in subscription order. notifyMu must be held.
func (s *Store) listenerIDs() []int {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
