package state

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentordoc/client/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	registry, err := NewSyncRegistry()
	require.NoError(t, err)
	return NewStore(registry)
}

func folder(id, org string, parent *string) model.AclFolder {
	return model.AclFolder{
		Model:   model.Folder{Entity: model.Entity{ID: id}, Name: "folder " + id, OrganizationID: org, ParentFolderID: parent},
		Actions: []string{model.ActionView},
	}
}

func document(id, org string, folderID *string) model.AclDocument {
	return model.AclDocument{
		Model:   model.Document{Entity: model.Entity{ID: id}, OrganizationID: org, FolderID: folderID},
		Actions: []string{model.ActionView},
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	handler := func(state any, _ Action) any { return state }

	require.NoError(t, r.Register(SliceAlert, "a", handler))
	require.NoError(t, r.Register(SliceFolder, "a", handler))

	err := r.Register(SliceAlert, "a", handler)
	require.ErrorIs(t, err, ErrDuplicateHandler)
	assert.Panics(t, func() { r.MustRegister(SliceAlert, "a", handler) })

	err = Install(r, AddAlert, AddAlert)
	require.ErrorIs(t, err, ErrDuplicateHandler)
}

func TestComposeReducer(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, AddAlert.Install(r))
	initial := AlertState{Alerts: []model.Alert{}}
	reduce := ComposeReducer(r, SliceAlert, initial)

	t.Run("nil state uses initial", func(t *testing.T) {
		next := reduce(nil, Action{Type: "unknown"})
		assert.Equal(t, initial, next)
	})

	t.Run("unknown action is identity", func(t *testing.T) {
		current := AlertState{Alerts: []model.Alert{{Type: model.AlertSuccess, Message: "saved"}}}
		next := reduce(&current, Action{Type: "unknown"})
		assert.Equal(t, current, next)
	})

	t.Run("registered action applies", func(t *testing.T) {
		alert := model.Alert{Type: model.AlertError, Message: "nope"}
		next := reduce(nil, AddAlert.Action(alert))
		assert.Equal(t, []model.Alert{alert}, next.Alerts)
	})

	t.Run("other slices are untouched", func(t *testing.T) {
		folders := ComposeReducer(r, SliceFolder, FolderState{})
		next := folders(nil, AddAlert.Action(model.Alert{Message: "x"}))
		assert.Empty(t, next.FolderMap)
	})
}

func TestHandlersNeverMutateInput(t *testing.T) {
	parent := model.StringPtr("f1")
	base := InitialState()
	base.Alert.Alerts = []model.Alert{{Type: model.AlertError, Message: "a"}, {Type: model.AlertError, Message: "b"}}
	base.Folder.FolderMap = map[string][]model.AclFolder{"o1": {folder("f1", "o1", nil)}}
	base.Document.DocumentMap = map[string][]model.AclDocument{"o1:f1": {document("d1", "o1", parent)}}
	base.RequestStatus.StatusMap["x"] = RequestStatusRecord{Status: model.StatusSuccess}
	base.Organization.Organizations = []model.AclOrganization{{Model: model.Organization{Entity: model.Entity{ID: "o1"}}}}
	base.User.CurrentUser = &model.User{Email: "a@b.c"}

	tests := []struct {
		name   string
		action Action
	}{
		{"add alert", AddAlert.Action(model.Alert{Message: "c"})},
		{"remove alert", RemoveAlert.Action(model.Alert{Type: model.AlertError, Message: "a"})},
		{"clear alerts", ClearAlerts.Action(struct{}{})},
		{"set status", SetRequestStatus.Action(RequestStatusUpdate{ActionType: "x", Status: model.StatusFetching})},
		{"set error", SetRequestError.Action(RequestErrorUpdate{ActionType: "x", Error: model.NewHTTPError("e")})},
		{"set folders", SetFolders.Action(FoldersPayload{Folders: []model.AclFolder{folder("f1", "o1", nil), folder("f2", "o1", nil)}})},
		{"unset folders", UnsetFolders.Action(FoldersPayload{Folders: []model.AclFolder{folder("f1", "o1", nil)}})},
		{"set documents", SetDocuments.Action(DocumentsPayload{Documents: []model.AclDocument{document("d2", "o1", parent)}})},
		{"unset documents", UnsetDocuments.Action(DocumentsPayload{Documents: []model.AclDocument{document("d1", "o1", parent)}})},
		{"set organizations", SetOrganizations.Action(SetOrganizationsPayload{})},
		{"logout", Logout.Action(struct{}{})},
	}

	registry, err := NewSyncRegistry()
	require.NoError(t, err)
	reduce := RootReducer(registry)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := base
			snapshot := InitialState()
			snapshot.Alert = base.Alert.clone()
			snapshot.Folder = base.Folder.clone()
			snapshot.Document = base.Document.clone()
			snapshot.RequestStatus = base.RequestStatus.clone()
			snapshot.Organization = base.Organization.clone()
			snapshot.User = base.User.clone()

			next := reduce(input, tt.action)
			assert.True(t, cmp.Equal(snapshot, input), "input changed: %s", cmp.Diff(snapshot, input))
			assert.False(t, cmp.Equal(next, input), "action had no effect")
		})
	}
}

func TestMissingPayloadLeavesStateUnchanged(t *testing.T) {
	store := newTestStore(t)
	store.Dispatch(AddAlert.Action(model.Alert{Message: "kept"}))
	before := store.State()

	store.Dispatch(Action{Type: AddAlert.Type()})
	store.Dispatch(Action{Type: SetFolders.Type(), Payload: "not a payload"})

	assert.Equal(t, before, store.State())
}

func TestClearAlertsIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	store.DispatchAll(
		AddAlert.Action(model.Alert{Type: model.AlertError, Message: "one"}),
		AddAlert.Action(model.Alert{Type: model.AlertSuccess, Message: "two"}),
	)

	store.Dispatch(ClearAlerts.Action(struct{}{}))
	once := store.State().Alert
	store.Dispatch(Action{Type: ClearAlerts.Type()})
	twice := store.State().Alert

	assert.Empty(t, once.Alerts)
	assert.Equal(t, once, twice)
}

func TestRemoveAlertRemovesFirstOccurrence(t *testing.T) {
	store := newTestStore(t)
	dup := model.Alert{Type: model.AlertError, Message: "same", Target: "X"}
	other := model.Alert{Type: model.AlertError, Message: "same"}
	store.DispatchAll(AddAlert.Action(dup), AddAlert.Action(other), AddAlert.Action(dup))

	store.Dispatch(RemoveAlert.Action(dup))

	assert.Equal(t, []model.Alert{other, dup}, store.State().Alert.Alerts)
}

func TestSetFoldersBuildsCompositeKeys(t *testing.T) {
	store := newTestStore(t)
	root := folder("f1", "o1", nil)
	child := folder("f2", "o1", model.StringPtr("f1"))

	store.Dispatch(SetFolders.Action(FoldersPayload{Folders: []model.AclFolder{root, child}}))

	view := store.State().Folder.View()
	assert.Equal(t, map[string][]model.AclFolder{
		"o1":    {root},
		"o1:f1": {child},
	}, view.Map())
	assert.Equal(t, []model.AclFolder{child}, view.Child("o1", model.StringPtr("f1")))
	assert.Equal(t, []model.AclFolder{root}, view.Child("o1", nil))

	renamed := root
	renamed.Model.Name = "renamed"
	store.Dispatch(SetFolders.Action(FoldersPayload{Folders: []model.AclFolder{renamed}}))
	assert.Equal(t, []model.AclFolder{renamed}, store.State().Folder.View().Child("o1", nil))
}

func TestCacheSetThenUnsetLeavesEmptyList(t *testing.T) {
	store := newTestStore(t)
	doc := document("d1", "o1", model.StringPtr("f1"))

	store.Dispatch(SetDocuments.Action(DocumentsPayload{Documents: []model.AclDocument{doc}}))
	require.Len(t, store.State().Document.View().Child("o1", model.StringPtr("f1")), 1)

	store.Dispatch(UnsetDocuments.Action(DocumentsPayload{Documents: []model.AclDocument{doc}}))
	entries := store.State().Document.View().Map()
	list, ok := entries[CompositeKey("o1", model.StringPtr("f1"))]
	assert.True(t, ok)
	assert.Empty(t, list)

	// unsetting something never cached is a no-op
	store.Dispatch(UnsetFolders.Action(FoldersPayload{Folders: []model.AclFolder{folder("nope", "o2", nil)}}))
	assert.Empty(t, store.State().Folder.View().Map())
}

func TestCacheViewByKey(t *testing.T) {
	store := newTestStore(t)
	f := folder("f1", "o1", nil)
	store.Dispatch(SetFolders.Action(FoldersPayload{Folders: []model.AclFolder{f}}))

	selected := SetFolders.Selector(store.State())
	view, ok := selected["getFolders"].(CacheView[model.AclFolder])
	require.True(t, ok)

	byMap, ok := view.ByKey(LookupMap).(map[string][]model.AclFolder)
	require.True(t, ok)
	assert.Len(t, byMap["o1"], 1)

	child, ok := view.ByKey(LookupChild).(func(string, *string) []model.AclFolder)
	require.True(t, ok)
	assert.Equal(t, []model.AclFolder{f}, child("o1", nil))

	assert.Nil(t, view.ByKey("other"))
}

func TestCompositeKey(t *testing.T) {
	assert.Equal(t, "o1", CompositeKey("o1", nil))
	assert.Equal(t, "o1", CompositeKey("o1", model.StringPtr("")))
	assert.Equal(t, "o1:f1", CompositeKey("o1", model.StringPtr("f1")))
}

func TestCombine(t *testing.T) {
	store := newTestStore(t)
	api := &API{Store: store, Log: zerolog.Nop()}

	first := func(RootState) SelectorMap { return SelectorMap{"a": 1, "shared": "first"} }
	second := func(RootState) SelectorMap { return SelectorMap{"b": 2, "shared": "second"} }
	selected := CombineSelectors(first, second)(store.State())
	assert.Equal(t, SelectorMap{"a": 1, "b": 2, "shared": "second"}, selected)

	var called string
	one := func(*API) DispatchMap {
		return DispatchMap{"go": func(context.Context, any) { called = "one" }}
	}
	two := func(*API) DispatchMap {
		return DispatchMap{"go": func(context.Context, any) { called = "two" }}
	}
	dispatch := CombineDispatchers(one, AddAlert.Dispatchers, two)(api)
	dispatch["go"](context.Background(), nil)
	assert.Equal(t, "two", called)

	dispatch["addAlert"](context.Background(), model.Alert{Message: "hi"})
	assert.Equal(t, []model.Alert{{Message: "hi"}}, store.State().Alert.Alerts)
}

func TestStoreSubscribe(t *testing.T) {
	store := newTestStore(t)
	var seen []int
	unsubscribe := store.Subscribe(func(prev, next RootState) {
		seen = append(seen, len(next.Alert.Alerts)-len(prev.Alert.Alerts))
	})

	store.Dispatch(AddAlert.Action(model.Alert{Message: "a"}))
	assert.False(t, store.DispatchIf(func(RootState) bool { return false }, AddAlert.Action(model.Alert{Message: "b"})))
	unsubscribe()
	unsubscribe()
	store.Dispatch(AddAlert.Action(model.Alert{Message: "c"}))

	assert.Equal(t, []int{1}, seen)
	assert.Len(t, store.State().Alert.Alerts, 2)
}

func TestSessionAdapter(t *testing.T) {
	store := newTestStore(t)
	session := NewSession(store)
	assert.Nil(t, session.AuthenticationData())

	session.SetAuthenticationData(&model.AuthenticationData{AccessToken: "a", RefreshToken: "r"})
	store.Dispatch(SetCurrentUser.Action(SetCurrentUserPayload{CurrentUser: &model.User{Email: "a@b.c"}}))
	assert.Equal(t, "a", session.AuthenticationData().AccessToken)

	session.Logout()
	assert.Nil(t, session.AuthenticationData())
	assert.Nil(t, store.State().User.CurrentUser)
}

func TestNormalizeError(t *testing.T) {
	assert.Equal(t, []string{"bad"}, normalizeError(model.NewHTTPError("bad")).Errors)
	assert.Equal(t, []string{model.GenericErrorMessage}, normalizeError(errors.New("boom")).Errors)
	assert.Equal(t, []string{model.GenericErrorMessage}, normalizeError(model.NewHTTPError()).Errors)
}
