package actions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentordoc/client/internal/gateway"
	"mentordoc/client/internal/model"
	"mentordoc/client/internal/search"
	"mentordoc/client/internal/state"
)

// backend is a fake API that records every request it serves.
type backend struct {
	mu    sync.Mutex
	calls []string
	mux   *http.ServeMux
}

func newBackend() *backend {
	return &backend{mux: http.NewServeMux()}
}

func (b *backend) handle(pattern string, status int, body any) {
	b.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.calls = append(b.calls, r.Method+" "+r.URL.RequestURI())
	b.mu.Unlock()
	b.mux.ServeHTTP(w, r)
}

func (b *backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func newTestAPI(t *testing.T, b *backend, initial state.RootState) *state.API {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	registry, err := state.NewSyncRegistry()
	require.NoError(t, err)
	store := state.NewStore(registry, state.WithInitialState(initial))
	gw := gateway.New(srv.URL, gateway.WithSession(state.NewSession(store)))
	return &state.API{Store: store, Gateway: gw, Log: zerolog.Nop()}
}

func folder(id, org string, parent *string, actions ...string) model.AclFolder {
	return model.AclFolder{
		Model:   model.Folder{Entity: model.Entity{ID: id}, Name: id, OrganizationID: org, ParentFolderID: parent},
		Actions: actions,
	}
}

func document(id, org string, folderID *string, actions ...string) model.AclDocument {
	return model.AclDocument{
		Model: model.Document{
			Entity:         model.Entity{ID: id},
			OrganizationID: org,
			FolderID:       folderID,
			Drafts:         []model.DocumentDraft{{Entity: model.Entity{ID: id + "-draft"}, DocumentID: id, Name: id}},
		},
		Actions: actions,
	}
}

func org(id string, actions ...string) model.AclOrganization {
	return model.AclOrganization{Model: model.Organization{Entity: model.Entity{ID: id}, Name: id}, Actions: actions}
}

func TestSigninLoadsCurrentUser(t *testing.T) {
	b := newBackend()
	b.handle("POST /v1/user/auth", http.StatusOK, model.AuthenticationData{AccessToken: "access", RefreshToken: "refresh"})
	b.handle("GET /v1/user", http.StatusOK, model.User{Entity: model.Entity{ID: "u1"}, Email: "ada@example.com"})

	api := newTestAPI(t, b, state.InitialState())
	catalog := NewCatalog(nil)

	require.True(t, catalog.Signin.Run(context.Background(), api, SigninRequest{Email: "ada@example.com", Password: "secret"}))

	root := api.Store.State()
	require.NotNil(t, root.User.AuthenticationData)
	assert.Equal(t, "access", root.User.AuthenticationData.AccessToken)
	require.NotNil(t, root.User.CurrentUser)
	assert.Equal(t, "ada@example.com", root.User.CurrentUser.Email)

	record, _ := root.RequestStatus.Status("signin_type")
	assert.Equal(t, model.StatusSuccess, record.Status)
	assert.Equal(t, []string{"POST /v1/user/auth", "GET /v1/user"}, b.Calls())
}

func TestSigninFailureAlertsTarget(t *testing.T) {
	b := newBackend()
	b.handle("POST /v1/user/auth", http.StatusUnauthorized, model.HTTPError{Errors: []string{"invalid credentials"}})

	api := newTestAPI(t, b, state.InitialState())
	catalog := NewCatalog(nil)

	catalog.Signin.Run(context.Background(), api, SigninRequest{Request: model.Targeted("signin"), Email: "a", Password: "b"})

	root := api.Store.State()
	assert.Nil(t, root.User.AuthenticationData)
	assert.Equal(t, []model.Alert{{Type: model.AlertError, Message: "invalid credentials", Target: "signin"}}, root.Alert.Alerts)
	assert.Equal(t, []string{"POST /v1/user/auth"}, b.Calls(), "anonymous requests never refresh")
}

func TestFetchOrganizationsSelectsCurrent(t *testing.T) {
	tests := []struct {
		name    string
		current *model.AclOrganization
		want    string
	}{
		{name: "defaults to first", current: nil, want: "o1"},
		{name: "keeps existing selection", current: &model.AclOrganization{Model: model.Organization{Entity: model.Entity{ID: "o2"}}}, want: "o2"},
		{name: "replaces vanished selection", current: &model.AclOrganization{Model: model.Organization{Entity: model.Entity{ID: "gone"}}}, want: "o1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newBackend()
			b.handle("GET /v1/organization/list", http.StatusOK, []model.AclOrganization{org("o1"), org("o2", model.ActionView)})

			initial := state.InitialState()
			initial.Organization.CurrentOrganization = tc.current
			api := newTestAPI(t, b, initial)

			NewCatalog(nil).FetchOrganizations.Run(context.Background(), api, FetchOrganizationsRequest{})

			root := api.Store.State()
			assert.Len(t, root.Organization.Organizations, 2)
			require.NotNil(t, root.Organization.CurrentOrganization)
			assert.Equal(t, tc.want, root.Organization.CurrentOrganization.Model.ID)
		})
	}
}

func TestCreateFolderRefreshesParentListing(t *testing.T) {
	parent := folder("f1", "o1", nil, model.ActionView, model.ActionCreateFolder)
	updatedParent := parent
	updatedParent.Model.ChildCount = 1

	b := newBackend()
	b.handle("POST /v1/folder", http.StatusOK, folder("f2", "o1", model.StringPtr("f1")))
	b.handle("GET /v1/folder/list/o1", http.StatusOK, []model.AclFolder{updatedParent})

	initial := state.InitialState()
	initial.Folder.FolderMap["o1"] = []model.AclFolder{parent}
	api := newTestAPI(t, b, initial)

	NewCatalog(nil).CreateFolder.Run(context.Background(), api, CreateFolderRequest{
		OrganizationID: "o1",
		ParentFolderID: model.StringPtr("f1"),
		Name:           "f2",
	})

	root := api.Store.State()
	view := root.Folder.View()
	require.Len(t, view.Child("o1", model.StringPtr("f1")), 1)
	assert.Equal(t, "f2", view.Child("o1", model.StringPtr("f1"))[0].Model.ID)
	assert.Equal(t, 1, view.Child("o1", nil)[0].Model.ChildCount)
	assert.Equal(t, []string{"POST /v1/folder", "GET /v1/folder/list/o1"}, b.Calls())
}

func TestCreateFolderAtRootSkipsParentRefresh(t *testing.T) {
	b := newBackend()
	b.handle("POST /v1/folder", http.StatusOK, folder("f1", "o1", nil))

	api := newTestAPI(t, b, state.InitialState())
	NewCatalog(nil).CreateFolder.Run(context.Background(), api, CreateFolderRequest{OrganizationID: "o1", Name: "f1"})

	assert.Len(t, api.Store.State().Folder.View().Child("o1", nil), 1)
	assert.Equal(t, []string{"POST /v1/folder"}, b.Calls())
}

func TestCreateFolderSurfacesAPIErrors(t *testing.T) {
	b := newBackend()
	b.handle("POST /v1/folder", http.StatusBadRequest, model.HTTPError{Errors: []string{"name is required"}})

	api := newTestAPI(t, b, state.InitialState())
	NewCatalog(nil).CreateFolder.Run(context.Background(), api, CreateFolderRequest{Request: model.Targeted("sidebar"), OrganizationID: "o1"})

	root := api.Store.State()
	assert.Equal(t, []string{"name is required"}, root.RequestStatus.Error("create_folder_type").Errors)
	assert.Equal(t, []model.Alert{{Type: model.AlertError, Message: "name is required", Target: "sidebar"}}, root.Alert.Alerts)
}

func TestDeleteFolderDeniedWithoutCapability(t *testing.T) {
	b := newBackend()
	initial := state.InitialState()
	initial.Folder.FolderMap["o1"] = []model.AclFolder{folder("f1", "o1", nil, model.ActionView)}
	api := newTestAPI(t, b, initial)

	NewCatalog(nil).DeleteFolder.Run(context.Background(), api, DeleteFolderRequest{FolderID: "f1"})

	root := api.Store.State()
	assert.Empty(t, b.Calls())
	assert.Len(t, root.Folder.FolderMap["o1"], 1)
	require.Len(t, root.Alert.Alerts, 1)
	assert.Equal(t, "you are not allowed to delete this folder", root.Alert.Alerts[0].Message)
}

func TestDeleteFolderRemovesFromCache(t *testing.T) {
	doomed := folder("f1", "o1", nil, model.ActionView, model.ActionDelete)
	b := newBackend()
	b.handle("DELETE /v1/folder/f1", http.StatusOK, doomed)

	initial := state.InitialState()
	initial.Folder.FolderMap["o1"] = []model.AclFolder{doomed}
	api := newTestAPI(t, b, initial)

	NewCatalog(nil).DeleteFolder.Run(context.Background(), api, DeleteFolderRequest{FolderID: "f1"})

	assert.Empty(t, api.Store.State().Folder.FolderMap["o1"])
	assert.Equal(t, []string{"DELETE /v1/folder/f1"}, b.Calls())
}

func TestFetchDocumentsKeysByFolder(t *testing.T) {
	b := newBackend()
	b.handle("GET /v1/document/list/o1", http.StatusOK, []model.AclDocument{document("d1", "o1", model.StringPtr("f1"))})

	api := newTestAPI(t, b, state.InitialState())
	NewCatalog(nil).FetchDocuments.Run(context.Background(), api, FetchDocumentsRequest{OrganizationID: "o1", FolderID: model.StringPtr("f1")})

	docs := api.Store.State().Document.DocumentMap[state.CompositeKey("o1", model.StringPtr("f1"))]
	require.Len(t, docs, 1)
	assert.Equal(t, "d1", docs[0].Model.ID)
	assert.Equal(t, []string{"GET /v1/document/list/o1?folderId=f1"}, b.Calls())
}

func TestUpdateDocumentRequiresPublishCapability(t *testing.T) {
	b := newBackend()
	initial := state.InitialState()
	editable := document("d1", "o1", nil, model.ActionView, model.ActionModify)
	initial.Document.FullDocument = &editable
	api := newTestAPI(t, b, initial)

	NewCatalog(nil).UpdateDocument.Run(context.Background(), api, UpdateDocumentRequest{
		DocumentID:    "d1",
		DraftID:       "d1-draft",
		ShouldPublish: true,
	})

	assert.Empty(t, b.Calls())
	require.Len(t, api.Store.State().Alert.Alerts, 1)
	assert.Equal(t, "you are not allowed to publish this document", api.Store.State().Alert.Alerts[0].Message)
}

func TestUpdateDocumentStoresResult(t *testing.T) {
	original := document("d1", "o1", nil, model.ActionView, model.ActionModify)
	renamed := original
	renamed.Model.Drafts = []model.DocumentDraft{{Entity: model.Entity{ID: "d1-draft"}, DocumentID: "d1", Name: "renamed"}}

	b := newBackend()
	b.handle("PUT /v1/document", http.StatusOK, renamed)

	initial := state.InitialState()
	initial.Document.FullDocument = &original
	initial.Document.DocumentMap["o1"] = []model.AclDocument{original}
	api := newTestAPI(t, b, initial)

	NewCatalog(nil).UpdateDocument.Run(context.Background(), api, UpdateDocumentRequest{
		DocumentID: "d1",
		DraftID:    "d1-draft",
		Name:       model.StringPtr("renamed"),
	})

	root := api.Store.State()
	require.NotNil(t, root.Document.FullDocument)
	assert.Equal(t, "renamed", root.Document.FullDocument.Model.Name())
	assert.Equal(t, "renamed", root.Document.DocumentMap["o1"][0].Model.Name())
}

func TestCreateDocumentDraftReloadsDocument(t *testing.T) {
	doc := document("d1", "o1", nil, model.ActionView, model.ActionModify)
	b := newBackend()
	b.handle("POST /v1/document/draft", http.StatusOK, doc)
	b.handle("GET /v1/document/d1", http.StatusOK, doc)
	b.handle("GET /v1/document/list/o1", http.StatusOK, []model.AclDocument{doc})

	api := newTestAPI(t, b, state.InitialState())
	NewCatalog(nil).CreateDocumentDraft.Run(context.Background(), api, CreateDocumentDraftRequest{DocumentID: "d1", Name: "next"})

	root := api.Store.State()
	require.NotNil(t, root.Document.FullDocument)
	assert.Equal(t, "d1", root.Document.FullDocument.Model.ID)
	assert.Equal(t, []string{"POST /v1/document/draft", "GET /v1/document/d1", "GET /v1/document/list/o1"}, b.Calls())
}

func TestDeleteDocumentClearsCaches(t *testing.T) {
	doc := document("d1", "o1", model.StringPtr("f1"), model.ActionView, model.ActionDelete)
	parent := folder("f1", "o1", nil, model.ActionView)

	b := newBackend()
	b.handle("DELETE /v1/document/d1", http.StatusOK, doc)
	b.handle("GET /v1/document/list/o1", http.StatusOK, []model.AclDocument{})
	b.handle("GET /v1/folder/list/o1", http.StatusOK, []model.AclFolder{parent})

	initial := state.InitialState()
	initial.Folder.FolderMap["o1"] = []model.AclFolder{parent}
	initial.Document.DocumentMap["o1:f1"] = []model.AclDocument{doc}
	initial.Document.FullDocument = &doc
	api := newTestAPI(t, b, initial)

	NewCatalog(nil).DeleteDocument.Run(context.Background(), api, DeleteDocumentRequest{DocumentID: "d1"})

	root := api.Store.State()
	assert.Empty(t, root.Document.DocumentMap["o1:f1"])
	assert.Nil(t, root.Document.FullDocument)
	assert.Equal(t, []string{
		"DELETE /v1/document/d1",
		"GET /v1/document/list/o1?folderId=f1",
		"GET /v1/folder/list/o1",
	}, b.Calls())
}

func TestSearchDocuments(t *testing.T) {
	b := newBackend()
	b.handle("GET /v1/document/search", http.StatusOK, []model.AclDocument{document("d1", "o1", nil)})

	initial := state.InitialState()
	current := org("o1")
	initial.Organization.CurrentOrganization = &current
	api := newTestAPI(t, b, initial)
	catalog := NewCatalog(nil)

	catalog.SearchDocuments.Run(context.Background(), api, SearchDocumentsRequest{SearchQuery: "design doc"})
	require.Len(t, api.Store.State().Document.SearchDocuments, 1)
	assert.Equal(t, []string{"GET /v1/document/search?query=design+doc"}, b.Calls())

	catalog.SearchDocuments.Run(context.Background(), api, SearchDocumentsRequest{SearchQuery: "   "})
	assert.Nil(t, api.Store.State().Document.SearchDocuments, "a blank query clears the results")
	assert.Len(t, b.Calls(), 1)
}

// emptyIndex is a reachable Meilisearch that holds nothing yet.
type emptyIndex struct {
	mu      sync.Mutex
	records []search.DocumentRecord
}

func (i *emptyIndex) Search(context.Context, search.Query) ([]model.AclDocument, error) {
	return nil, nil
}

func (i *emptyIndex) Healthy() bool { return true }

func (i *emptyIndex) IndexDocuments(docs []search.DocumentRecord) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.records = append(i.records, docs...)
	return nil
}

func (i *emptyIndex) DeleteDocument(string) error { return nil }

func TestSearchDocumentsAsksAPIBeforeIndex(t *testing.T) {
	b := newBackend()
	b.handle("GET /v1/document/search", http.StatusOK, []model.AclDocument{document("d1", "o1", nil)})
	b.handle("GET /v1/document/{id}", http.StatusOK, document("d2", "o1", nil))

	initial := state.InitialState()
	initial.User.CurrentUser = &model.User{Entity: model.Entity{ID: "u1"}}
	api := newTestAPI(t, b, initial)
	index := &emptyIndex{}
	svc := search.NewService(index, search.NewAPISearcher(api.Gateway), zerolog.Nop())
	catalog := NewCatalog(svc)

	catalog.FetchFullDocument.Run(context.Background(), api, FetchFullDocumentRequest{DocumentID: "d2"})
	svc.Wait()
	index.mu.Lock()
	require.Len(t, index.records, 1)
	assert.Equal(t, "u1", index.records[0].UserID)
	index.mu.Unlock()

	catalog.SearchDocuments.Run(context.Background(), api, SearchDocumentsRequest{SearchQuery: "design", OrganizationID: "o1"})
	results := api.Store.State().Document.SearchDocuments
	require.Len(t, results, 1)
	assert.Equal(t, "d1", results[0].Model.ID)
	assert.Contains(t, b.Calls(), "GET /v1/document/search?query=design")
}

func TestSearchUserID(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u9",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	loaded := state.InitialState()
	loaded.User.CurrentUser = &model.User{Entity: model.Entity{ID: "u1"}}
	loaded.User.AuthenticationData = &model.AuthenticationData{AccessToken: token}

	fromToken := state.InitialState()
	fromToken.User.AuthenticationData = &model.AuthenticationData{AccessToken: token}

	opaque := state.InitialState()
	opaque.User.AuthenticationData = &model.AuthenticationData{AccessToken: "opaque"}

	tests := []struct {
		name string
		root state.RootState
		want string
	}{
		{"loaded user", loaded, "u1"},
		{"token subject", fromToken, "u9"},
		{"opaque token", opaque, ""},
		{"signed out", state.InitialState(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, searchUserID(tt.root))
		})
	}
}

func TestFetchDocumentPath(t *testing.T) {
	doc := document("d1", "o1", model.StringPtr("f1"))
	b := newBackend()
	b.handle("GET /v1/document/path/d1", http.StatusOK, []any{org("o1"), folder("f1", "o1", nil), doc})

	api := newTestAPI(t, b, state.InitialState())
	NewCatalog(nil).FetchDocumentPath.Run(context.Background(), api, FetchDocumentPathRequest{DocumentID: "d1"})

	path := api.Store.State().Document.DocumentPath
	require.Len(t, path, 3)
	assert.Equal(t, model.PathOrganization, path[0].Kind)
	assert.Equal(t, model.PathFolder, path[1].Kind)
	assert.Equal(t, model.PathDocument, path[2].Kind)
}

func TestCatalogDispatchers(t *testing.T) {
	b := newBackend()
	b.handle("GET /v1/user", http.StatusOK, model.User{Entity: model.Entity{ID: "u1"}})
	api := newTestAPI(t, b, state.InitialState())

	dispatch := state.CombineDispatchers(NewCatalog(nil).Dispatchers()...)(api)
	for _, key := range []string{"signin", "fetchFolders", "deleteDocument", "searchDocuments", "fetchDocumentPath"} {
		assert.Contains(t, dispatch, key)
	}

	dispatch["fetchCurrentUser"](context.Background(), FetchCurrentUserRequest{})
	require.NotNil(t, api.Store.State().User.CurrentUser)
	assert.Equal(t, "u1", api.Store.State().User.CurrentUser.ID)
}
