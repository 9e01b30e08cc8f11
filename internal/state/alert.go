package state

import (
	"github.com/google/go-cmp/cmp"

	"mentordoc/client/internal/model"
)

var AddAlert = newSyncAction(
	SliceAlert, "add_alert_type", "alerts", "addAlert",
	func(state AlertState, alert model.Alert) AlertState {
		next := state.clone()
		next.Alerts = append(next.Alerts, alert)
		return next
	},
	func(root RootState) any { return root.Alert.Alerts },
)

// RemoveAlert drops the first alert deep-equal to the payload. Identical
// alerts shown twice are dismissed one at a time.
var RemoveAlert = newSyncAction(
	SliceAlert, "remove_alert_type", "removeAlert", "removeAlert",
	func(state AlertState, alert model.Alert) AlertState {
		next := state.clone()
		for i := range next.Alerts {
			if cmp.Equal(next.Alerts[i], alert) {
				next.Alerts = append(next.Alerts[:i:i], next.Alerts[i+1:]...)
				break
			}
		}
		return next
	},
	nil,
)

var ClearAlerts = newVoidSyncAction(
	SliceAlert, "clear_alerts_type", "clearAlerts",
	func(AlertState) AlertState {
		return AlertState{Alerts: []model.Alert{}}
	},
)
