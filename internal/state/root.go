package state

import "mentordoc/client/internal/model"

// RootState is the whole client state. It is a value: every dispatch that
// touches a slice replaces that slice with a freshly built copy.
type RootState struct {
	User          UserState
	RequestStatus RequestStatusState
	Alert         AlertState
	Organization  OrganizationState
	Folder        FolderState
	Document      DocumentState
}

func InitialState() RootState {
	return RootState{
		User:          UserState{},
		RequestStatus: RequestStatusState{StatusMap: map[string]RequestStatusRecord{}, ErrorMap: map[string]*model.HTTPError{}},
		Alert:         AlertState{Alerts: []model.Alert{}},
		Organization:  OrganizationState{},
		Folder:        FolderState{FolderMap: map[string][]model.AclFolder{}},
		Document:      DocumentState{DocumentMap: map[string][]model.AclDocument{}},
	}
}

type UserState struct {
	CurrentUser        *model.User
	AuthenticationData *model.AuthenticationData
}

func (s UserState) clone() UserState {
	next := UserState{}
	if s.CurrentUser != nil {
		user := *s.CurrentUser
		next.CurrentUser = &user
	}
	if s.AuthenticationData != nil {
		data := *s.AuthenticationData
		next.AuthenticationData = &data
	}
	return next
}

// RequestStatusRecord is the last known status of one async action type and
// the payload it was started with.
type RequestStatusRecord struct {
	Status  model.RequestStatus
	Payload any
}

type RequestStatusState struct {
	StatusMap map[string]RequestStatusRecord
	ErrorMap  map[string]*model.HTTPError
}

func (s RequestStatusState) clone() RequestStatusState {
	next := RequestStatusState{
		StatusMap: make(map[string]RequestStatusRecord, len(s.StatusMap)),
		ErrorMap:  make(map[string]*model.HTTPError, len(s.ErrorMap)),
	}
	for k, v := range s.StatusMap {
		next.StatusMap[k] = v
	}
	for k, v := range s.ErrorMap {
		next.ErrorMap[k] = v
	}
	return next
}

// Status returns the record for actionType; ok is false while the action has
// never run.
func (s RequestStatusState) Status(actionType string) (RequestStatusRecord, bool) {
	record, ok := s.StatusMap[actionType]
	return record, ok
}

func (s RequestStatusState) Error(actionType string) *model.HTTPError {
	return s.ErrorMap[actionType]
}

type AlertState struct {
	Alerts []model.Alert
}

func (s AlertState) clone() AlertState {
	return AlertState{Alerts: append([]model.Alert{}, s.Alerts...)}
}

type OrganizationState struct {
	// Organizations is nil until the list has been loaded.
	Organizations       []model.AclOrganization
	CurrentOrganization *model.AclOrganization
}

func (s OrganizationState) clone() OrganizationState {
	next := OrganizationState{}
	if s.Organizations != nil {
		next.Organizations = append([]model.AclOrganization{}, s.Organizations...)
	}
	if s.CurrentOrganization != nil {
		org := *s.CurrentOrganization
		next.CurrentOrganization = &org
	}
	return next
}

type FolderState struct {
	FolderMap map[string][]model.AclFolder
}

func (s FolderState) clone() FolderState {
	return FolderState{FolderMap: cloneEntries(s.FolderMap)}
}

type DocumentState struct {
	DocumentMap     map[string][]model.AclDocument
	FullDocument    *model.AclDocument
	SearchDocuments []model.AclDocument
	DocumentPath    model.DocumentPath
}

func (s DocumentState) clone() DocumentState {
	next := DocumentState{DocumentMap: cloneEntries(s.DocumentMap)}
	if s.FullDocument != nil {
		doc := *s.FullDocument
		next.FullDocument = &doc
	}
	if s.SearchDocuments != nil {
		next.SearchDocuments = append([]model.AclDocument{}, s.SearchDocuments...)
	}
	if s.DocumentPath != nil {
		next.DocumentPath = append(model.DocumentPath{}, s.DocumentPath...)
	}
	return next
}
