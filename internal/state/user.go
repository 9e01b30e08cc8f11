package state

import "mentordoc/client/internal/model"

type SetCurrentUserPayload struct {
	CurrentUser *model.User
}

type SetAuthenticationDataPayload struct {
	AuthenticationData *model.AuthenticationData
}

var SetCurrentUser = newSyncAction(
	SliceUser, "set_current_user_type", "currentUser", "setCurrentUser",
	func(state UserState, payload SetCurrentUserPayload) UserState {
		next := state.clone()
		next.CurrentUser = nil
		if payload.CurrentUser != nil {
			user := *payload.CurrentUser
			next.CurrentUser = &user
		}
		return next
	},
	func(root RootState) any { return root.User.CurrentUser },
)

var SetAuthenticationData = newSyncAction(
	SliceUser, "set_authentication_data_type", "authenticationData", "setAuthenticationData",
	func(state UserState, payload SetAuthenticationDataPayload) UserState {
		next := state.clone()
		next.AuthenticationData = nil
		if payload.AuthenticationData != nil {
			data := *payload.AuthenticationData
			next.AuthenticationData = &data
		}
		return next
	},
	func(root RootState) any { return root.User.AuthenticationData },
)

// Logout forgets the current user and the credentials.
var Logout = newVoidSyncAction(
	SliceUser, "logout_type", "logout",
	func(UserState) UserState {
		return UserState{}
	},
)
