package state

import (
	"fmt"

	"mentordoc/client/internal/model"
)

// SyncActions lists every synchronous action descriptor.
func SyncActions() []Installer {
	return []Installer{
		SetRequestStatus,
		SetRequestError,
		AddAlert,
		RemoveAlert,
		ClearAlerts,
		SetCurrentUser,
		SetAuthenticationData,
		Logout,
		SetOrganizations,
		SetCurrentOrganization,
		SetFolders,
		UnsetFolders,
		SetDocuments,
		UnsetDocuments,
		SetFullDocument,
		SetSearchDocuments,
		SetDocumentPath,
	}
}

// Install folds installers into r, stopping at the first failure.
func Install(r *Registry, installers ...Installer) error {
	for _, installer := range installers {
		if err := installer.Install(r); err != nil {
			return fmt.Errorf("install actions: %w", err)
		}
	}
	return nil
}

// NewSyncRegistry returns a registry holding every synchronous action.
func NewSyncRegistry() (*Registry, error) {
	r := NewRegistry()
	if err := Install(r, SyncActions()...); err != nil {
		return nil, err
	}
	return r, nil
}

// Session adapts a store to the gateway's view of the signed-in session.
type Session struct {
	store *Store
}

func NewSession(store *Store) *Session {
	return &Session{store: store}
}

func (s *Session) AuthenticationData() *model.AuthenticationData {
	return s.store.State().User.AuthenticationData
}

func (s *Session) SetAuthenticationData(data *model.AuthenticationData) {
	s.store.Dispatch(SetAuthenticationData.Action(SetAuthenticationDataPayload{AuthenticationData: data}))
}

func (s *Session) Logout() {
	s.store.Dispatch(Logout.Action(struct{}{}))
}
