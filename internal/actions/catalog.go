// Package actions holds the asynchronous domain actions: each one calls the
// API through the gateway and records the outcome with synchronous actions.
package actions

import (
	"mentordoc/client/internal/auth"
	"mentordoc/client/internal/model"
	"mentordoc/client/internal/search"
	"mentordoc/client/internal/state"
)

// Catalog is the full set of asynchronous actions, built once at the
// composition root.
type Catalog struct {
	search *search.Service

	Signin           *state.AsyncAction[SigninRequest]
	Signup           *state.AsyncAction[SignupRequest]
	FetchCurrentUser *state.AsyncAction[FetchCurrentUserRequest]

	FetchOrganizations *state.AsyncAction[FetchOrganizationsRequest]

	FetchFolders *state.AsyncAction[FetchFoldersRequest]
	CreateFolder *state.AsyncAction[CreateFolderRequest]
	DeleteFolder *state.AsyncAction[DeleteFolderRequest]

	FetchDocuments      *state.AsyncAction[FetchDocumentsRequest]
	FetchFullDocument   *state.AsyncAction[FetchFullDocumentRequest]
	CreateDocument      *state.AsyncAction[CreateDocumentRequest]
	UpdateDocument      *state.AsyncAction[UpdateDocumentRequest]
	CreateDocumentDraft *state.AsyncAction[CreateDocumentDraftRequest]
	DeleteDocument      *state.AsyncAction[DeleteDocumentRequest]
	SearchDocuments     *state.AsyncAction[SearchDocumentsRequest]
	FetchDocumentPath   *state.AsyncAction[FetchDocumentPathRequest]
}

// NewCatalog builds every async action. searchService may be nil, in which
// case searches go straight to the API and nothing is indexed.
func NewCatalog(searchService *search.Service) *Catalog {
	c := &Catalog{search: searchService}

	c.Signin = state.NewAsyncAction("signin_type", "signin", c.signin)
	c.Signup = state.NewAsyncAction("signup_type", "signup", c.signup)
	c.FetchCurrentUser = state.NewAsyncAction("fetch_current_user_type", "fetchCurrentUser", c.fetchCurrentUser)

	c.FetchOrganizations = state.NewAsyncAction("fetch_organizations_type", "fetchOrganizations", c.fetchOrganizations)

	c.FetchFolders = state.NewAsyncAction("fetch_folders_type", "fetchFolders", c.fetchFolders)
	c.CreateFolder = state.NewAsyncAction("create_folder_type", "createFolder", c.createFolder)
	c.DeleteFolder = state.NewAsyncAction("delete_folder_type", "deleteFolder", c.deleteFolder)

	c.FetchDocuments = state.NewAsyncAction("fetch_documents_type", "fetchDocuments", c.fetchDocuments)
	c.FetchFullDocument = state.NewAsyncAction("fetch_full_document_type", "fetchFullDocument", c.fetchFullDocument)
	c.CreateDocument = state.NewAsyncAction("create_document_type", "createDocument", c.createDocument)
	c.UpdateDocument = state.NewAsyncAction("update_document_type", "updateDocument", c.updateDocument)
	c.CreateDocumentDraft = state.NewAsyncAction("create_document_draft_type", "createDocumentDraft", c.createDocumentDraft)
	c.DeleteDocument = state.NewAsyncAction("delete_document_type", "deleteDocument", c.deleteDocument)
	c.SearchDocuments = state.NewAsyncAction("search_documents_type", "searchDocuments", c.searchDocuments)
	c.FetchDocumentPath = state.NewAsyncAction("fetch_document_path_type", "fetchDocumentPath", c.fetchDocumentPath)

	return c
}

// Dispatchers returns the dispatch binders of every action, for Connect.
func (c *Catalog) Dispatchers() []state.DispatchBinder {
	return []state.DispatchBinder{
		c.Signin.Dispatchers,
		c.Signup.Dispatchers,
		c.FetchCurrentUser.Dispatchers,
		c.FetchOrganizations.Dispatchers,
		c.FetchFolders.Dispatchers,
		c.CreateFolder.Dispatchers,
		c.DeleteFolder.Dispatchers,
		c.FetchDocuments.Dispatchers,
		c.FetchFullDocument.Dispatchers,
		c.CreateDocument.Dispatchers,
		c.UpdateDocument.Dispatchers,
		c.CreateDocumentDraft.Dispatchers,
		c.DeleteDocument.Dispatchers,
		c.SearchDocuments.Dispatchers,
		c.FetchDocumentPath.Dispatchers,
	}
}

func (c *Catalog) indexDocuments(api *state.API, docs ...model.AclDocument) {
	if c.search != nil {
		c.search.IndexDocuments(searchUserID(api.Store.State()), docs...)
	}
}

func (c *Catalog) unindexDocument(id string) {
	if c.search != nil {
		c.search.DeleteDocument(id)
	}
}

// searchUserID names the signed-in user for the search index: the loaded
// user, or the subject of the access token before it is loaded.
func searchUserID(root state.RootState) string {
	if user := root.User.CurrentUser; user != nil && user.ID != "" {
		return user.ID
	}
	if data := root.User.AuthenticationData; data != nil {
		if claims, err := auth.ParseToken(data.AccessToken); err == nil {
			return claims.Subject
		}
	}
	return ""
}
