package actions

import (
	"context"
	"strings"

	"mentordoc/client/internal/gateway"
	"mentordoc/client/internal/model"
	"mentordoc/client/internal/rbac"
	"mentordoc/client/internal/search"
	"mentordoc/client/internal/state"
)

type FetchDocumentsRequest struct {
	model.Request

	OrganizationID string
	// FolderID nil lists the organization root.
	FolderID *string
}

type FetchFullDocumentRequest struct {
	model.Request

	DocumentID string
}

type CreateDocumentRequest struct {
	model.Request

	OrganizationID string
	FolderID       *string
	Name           string
	Content        string
}

type UpdateDocumentRequest struct {
	model.Request

	DocumentID string
	DraftID    string
	// Name and Content nil leave the draft's value unchanged.
	Name          *string
	Content       *string
	ShouldPublish bool
	ShouldRetract bool
}

type CreateDocumentDraftRequest struct {
	model.Request

	DocumentID string
	Name       string
	Content    string
}

type DeleteDocumentRequest struct {
	model.Request

	DocumentID string
}

type SearchDocumentsRequest struct {
	model.Request

	SearchQuery string
	// OrganizationID "" searches the current organization.
	OrganizationID string
}

type FetchDocumentPathRequest struct {
	model.Request

	DocumentID string
}

func (c *Catalog) fetchDocuments(ctx context.Context, api *state.API, req FetchDocumentsRequest) error {
	docs, err := api.Gateway.ListDocuments(ctx, req.OrganizationID, req.FolderID)
	if err != nil {
		return err
	}
	api.Store.Dispatch(state.SetDocuments.Action(state.DocumentsPayload{Documents: docs}))
	return nil
}

func (c *Catalog) fetchFullDocument(ctx context.Context, api *state.API, req FetchFullDocumentRequest) error {
	doc, err := api.Gateway.GetDocument(ctx, req.DocumentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return model.NewHTTPError("failed to load document")
	}
	api.Store.Dispatch(state.SetFullDocument.Action(state.SetFullDocumentPayload{FullDocument: doc}))
	c.indexDocuments(api, *doc)
	return nil
}

func (c *Catalog) createDocument(ctx context.Context, api *state.API, req CreateDocumentRequest) error {
	if err := checkContainer(api.Store.State(), req.OrganizationID, req.FolderID, rbac.OpCreateDocument); err != nil {
		return err
	}

	doc, err := api.Gateway.CreateDocument(ctx, gateway.CreateDocumentBody{
		OrganizationID: req.OrganizationID,
		FolderID:       req.FolderID,
		Name:           req.Name,
		Content:        req.Content,
	})
	if err != nil {
		return err
	}
	if doc == nil {
		return model.NewHTTPError("failed to create document")
	}

	api.Store.Dispatch(state.SetDocuments.Action(state.DocumentsPayload{Documents: []model.AclDocument{*doc}}))
	c.FindParentAndUpdate(ctx, api, doc.Model.OrganizationID, doc.Model.FolderID)
	c.indexDocuments(api, *doc)
	return nil
}

func (c *Catalog) updateDocument(ctx context.Context, api *state.API, req UpdateDocumentRequest) error {
	if cached, ok := findDocument(api.Store.State(), req.DocumentID); ok {
		for _, op := range updateOperations(req) {
			if err := rbac.Check(cached, op, "document"); err != nil {
				return err
			}
		}
	}

	doc, err := api.Gateway.UpdateDocument(ctx, gateway.UpdateDocumentBody{
		DocumentID:    req.DocumentID,
		DraftID:       req.DraftID,
		Name:          req.Name,
		Content:       req.Content,
		ShouldPublish: req.ShouldPublish,
		ShouldRetract: req.ShouldRetract,
	})
	if err != nil {
		return err
	}
	if doc == nil {
		return model.NewHTTPError("failed to update document")
	}

	api.Store.DispatchAll(
		state.SetFullDocument.Action(state.SetFullDocumentPayload{FullDocument: doc}),
		state.SetDocuments.Action(state.DocumentsPayload{Documents: []model.AclDocument{*doc}}),
	)
	c.indexDocuments(api, *doc)
	return nil
}

func updateOperations(req UpdateDocumentRequest) []rbac.Operation {
	var ops []rbac.Operation
	if req.Name != nil || req.Content != nil {
		ops = append(ops, rbac.OpEdit)
	}
	if req.ShouldPublish {
		ops = append(ops, rbac.OpPublish)
	}
	if req.ShouldRetract {
		ops = append(ops, rbac.OpRetract)
	}
	return ops
}

// createDocumentDraft starts a new draft and reloads everything that shows
// the document: its full form, its listing and the listing of its folder.
func (c *Catalog) createDocumentDraft(ctx context.Context, api *state.API, req CreateDocumentDraftRequest) error {
	if cached, ok := findDocument(api.Store.State(), req.DocumentID); ok {
		if err := rbac.Check(cached, rbac.OpEdit, "document"); err != nil {
			return err
		}
	}

	doc, err := api.Gateway.CreateDocumentDraft(ctx, gateway.CreateDraftBody{
		DocumentID: req.DocumentID,
		Name:       req.Name,
		Content:    req.Content,
	})
	if err != nil {
		return err
	}
	if doc == nil {
		return model.NewHTTPError("failed to create draft")
	}

	api.Store.Dispatch(state.SetDocuments.Action(state.DocumentsPayload{Documents: []model.AclDocument{*doc}}))
	c.FetchFullDocument.Run(ctx, api, FetchFullDocumentRequest{Request: req.Request, DocumentID: doc.Model.ID})
	c.FetchDocuments.Run(ctx, api, FetchDocumentsRequest{
		Request:        req.Request,
		OrganizationID: doc.Model.OrganizationID,
		FolderID:       doc.Model.FolderID,
	})
	c.FindParentAndUpdate(ctx, api, doc.Model.OrganizationID, doc.Model.FolderID)
	return nil
}

func (c *Catalog) deleteDocument(ctx context.Context, api *state.API, req DeleteDocumentRequest) error {
	if cached, ok := findDocument(api.Store.State(), req.DocumentID); ok {
		if err := rbac.Check(cached, rbac.OpDelete, "document"); err != nil {
			return err
		}
	}

	doc, err := api.Gateway.DeleteDocument(ctx, req.DocumentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return model.NewHTTPError("failed to delete document")
	}

	actions := []state.Action{state.UnsetDocuments.Action(state.DocumentsPayload{Documents: []model.AclDocument{*doc}})}
	if full := api.Store.State().Document.FullDocument; full != nil && full.Model.ID == doc.Model.ID {
		actions = append(actions, state.SetFullDocument.Action(state.SetFullDocumentPayload{}))
	}
	api.Store.DispatchAll(actions...)

	c.FetchDocuments.Run(ctx, api, FetchDocumentsRequest{
		Request:        req.Request,
		OrganizationID: doc.Model.OrganizationID,
		FolderID:       doc.Model.FolderID,
	})
	c.FindParentAndUpdate(ctx, api, doc.Model.OrganizationID, doc.Model.FolderID)
	c.unindexDocument(doc.Model.ID)
	return nil
}

// searchDocuments stores the hits of a query. A blank query clears the
// results instead of asking the API.
func (c *Catalog) searchDocuments(ctx context.Context, api *state.API, req SearchDocumentsRequest) error {
	text := strings.TrimSpace(req.SearchQuery)
	if text == "" {
		api.Store.Dispatch(state.SetSearchDocuments.Action(state.SetSearchDocumentsPayload{}))
		return nil
	}

	orgID := req.OrganizationID
	if orgID == "" {
		if current := api.Store.State().Organization.CurrentOrganization; current != nil {
			orgID = current.Model.ID
		}
	}

	var (
		docs []model.AclDocument
		err  error
	)
	if c.search != nil {
		docs, err = c.search.Search(ctx, search.Query{Text: text, OrganizationID: orgID, UserID: searchUserID(api.Store.State())})
	} else {
		docs, err = api.Gateway.SearchDocuments(ctx, text)
	}
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []model.AclDocument{}
	}
	api.Store.Dispatch(state.SetSearchDocuments.Action(state.SetSearchDocumentsPayload{SearchDocuments: docs}))
	return nil
}

func (c *Catalog) fetchDocumentPath(ctx context.Context, api *state.API, req FetchDocumentPathRequest) error {
	path, err := api.Gateway.DocumentPath(ctx, req.DocumentID)
	if err != nil {
		return err
	}
	if path == nil {
		path = model.DocumentPath{}
	}
	api.Store.Dispatch(state.SetDocumentPath.Action(state.SetDocumentPathPayload{DocumentPath: path}))
	return nil
}

// findDocument looks for a document in the open document first, then in the
// cached listings.
func findDocument(root state.RootState, id string) (model.AclDocument, bool) {
	if full := root.Document.FullDocument; full != nil && full.Model.ID == id {
		return *full, true
	}
	for _, list := range root.Document.DocumentMap {
		for _, doc := range list {
			if doc.Model.ID == id {
				return doc, true
			}
		}
	}
	return model.AclDocument{}, false
}
