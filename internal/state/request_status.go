package state

import "mentordoc/client/internal/model"

type RequestStatusUpdate struct {
	ActionType string
	Status     model.RequestStatus
	Payload    any
}

type RequestErrorUpdate struct {
	ActionType string
	// Error nil clears the record.
	Error *model.HTTPError
}

// RequestStatusLookup returns the status record of an async action type.
type RequestStatusLookup func(actionType string) (RequestStatusRecord, bool)

// RequestErrorLookup returns the last error of an async action type, if any.
type RequestErrorLookup func(actionType string) *model.HTTPError

var SetRequestStatus = newSyncAction(
	SliceRequestStatus, "set_request_status_type", "requestStatus", "setRequestStatus",
	func(state RequestStatusState, update RequestStatusUpdate) RequestStatusState {
		next := state.clone()
		next.StatusMap[update.ActionType] = RequestStatusRecord{Status: update.Status, Payload: update.Payload}
		return next
	},
	func(root RootState) any { return RequestStatusLookup(root.RequestStatus.Status) },
)

var SetRequestError = newSyncAction(
	SliceRequestStatus, "set_request_error_type", "requestError", "setRequestError",
	func(state RequestStatusState, update RequestErrorUpdate) RequestStatusState {
		next := state.clone()
		next.ErrorMap[update.ActionType] = update.Error
		return next
	},
	func(root RootState) any { return RequestErrorLookup(root.RequestStatus.Error) },
)
