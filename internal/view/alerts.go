package view

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"

	"mentordoc/client/internal/model"
	"mentordoc/client/internal/state"
)

// AlertList shows the alerts routed to one target. An empty Target shows
// only untargeted alerts.
type AlertList struct {
	Target string

	mu          sync.Mutex
	store       *state.Store
	unsubscribe func()
	timers      map[string]*time.Timer
}

func NewAlertList(target string) *AlertList {
	return &AlertList{Target: target, timers: make(map[string]*time.Timer)}
}

// Visible returns the alerts of root that belong to this list, in order.
func (l *AlertList) Visible(root state.RootState) []model.Alert {
	var visible []model.Alert
	for _, alert := range root.Alert.Alerts {
		if alert.Target == l.Target {
			visible = append(visible, alert)
		}
	}
	return visible
}

// Mount attaches the list to store and starts a removal timer for every
// visible alert with a lifespan, now and whenever new alerts arrive. It must
// not be called from a store listener.
func (l *AlertList) Mount(store *state.Store) {
	l.mu.Lock()
	if l.store != nil {
		l.mu.Unlock()
		return
	}
	l.store = store
	l.mu.Unlock()

	l.schedule(store.State())
	unsubscribe := store.Subscribe(func(_, next state.RootState) {
		l.schedule(next)
	})

	l.mu.Lock()
	l.unsubscribe = unsubscribe
	l.mu.Unlock()
}

// schedule keeps one timer per visible alert with a lifespan and stops the
// timers of alerts that are gone, so a timer never outlives its alert. The
// removal dispatch happens on the timer's goroutine so it never runs inside
// a store notification.
func (l *AlertList) schedule(root state.RootState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.store == nil {
		return
	}

	expiring := make(map[string]model.Alert)
	for _, alert := range l.Visible(root) {
		if alert.Lifespan > 0 {
			expiring[alert.Key()] = alert
		}
	}
	for key, timer := range l.timers {
		if _, ok := expiring[key]; !ok {
			timer.Stop()
			delete(l.timers, key)
		}
	}

	for key, alert := range expiring {
		if _, ok := l.timers[key]; ok {
			continue
		}
		key, alert, store := key, alert, l.store
		var timer *time.Timer
		timer = time.AfterFunc(alert.Lifespan, func() {
			l.mu.Lock()
			if l.timers[key] != timer {
				// stopped too late, a newer timer owns the key
				l.mu.Unlock()
				return
			}
			delete(l.timers, key)
			l.mu.Unlock()
			store.Dispatch(state.RemoveAlert.Action(alert))
		})
		l.timers[key] = timer
	}
}

// Dismiss removes alert now and cancels its timer.
func (l *AlertList) Dismiss(alert model.Alert) {
	l.mu.Lock()
	store := l.store
	if timer, ok := l.timers[alert.Key()]; ok {
		timer.Stop()
		delete(l.timers, alert.Key())
	}
	l.mu.Unlock()

	if store != nil {
		store.Dispatch(state.RemoveAlert.Action(alert))
	}
}

// Unmount detaches the list, stops its timers and removes every alert it was
// showing.
func (l *AlertList) Unmount() {
	l.mu.Lock()
	store, unsubscribe := l.store, l.unsubscribe
	for key, timer := range l.timers {
		timer.Stop()
		delete(l.timers, key)
	}
	l.store, l.unsubscribe = nil, nil
	l.mu.Unlock()

	if store == nil {
		return
	}
	if unsubscribe != nil {
		unsubscribe()
	}

	visible := l.Visible(store.State())
	if len(visible) == 0 {
		return
	}
	actions := make([]state.Action, 0, len(visible))
	for _, alert := range visible {
		actions = append(actions, state.RemoveAlert.Action(alert))
	}
	store.DispatchAll(actions...)
}

// Render writes the visible alerts of root, one per line.
func (l *AlertList) Render(w io.Writer, root state.RootState) {
	for _, alert := range l.Visible(root) {
		fmt.Fprintln(w, formatAlert(alert))
	}
}

func formatAlert(alert model.Alert) string {
	switch alert.Type {
	case model.AlertSuccess:
		return color.GreenString("✔ %s", alert.Message)
	case model.AlertError:
		return color.RedString("✘ %s", alert.Message)
	default:
		return alert.Message
	}
}
