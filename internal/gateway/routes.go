package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"mentordoc/client/internal/model"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateFolderBody struct {
	OrganizationID string  `json:"organizationId"`
	ParentFolderID *string `json:"parentFolderId"`
	Name           string  `json:"name"`
}

type CreateDocumentBody struct {
	OrganizationID string  `json:"organizationId"`
	FolderID       *string `json:"folderId"`
	Name           string  `json:"name"`
	Content        string  `json:"content"`
}

type UpdateDocumentBody struct {
	DocumentID    string  `json:"documentId"`
	DraftID       string  `json:"draftId"`
	Name          *string `json:"name,omitempty"`
	Content       *string `json:"content,omitempty"`
	ShouldPublish bool    `json:"shouldPublish"`
	ShouldRetract bool    `json:"shouldRetract"`
}

type CreateDraftBody struct {
	DocumentID string `json:"documentId"`
	Name       string `json:"name"`
	Content    string `json:"content"`
}

// User management

func (g *Gateway) Signin(ctx context.Context, creds Credentials) (*model.AuthenticationData, error) {
	var data model.AuthenticationData
	err := g.Do(ctx, Request{Method: http.MethodPost, Path: "/user/auth", Body: creds, Out: &data, Anonymous: true})
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (g *Gateway) Signup(ctx context.Context, creds Credentials) (*model.AuthenticationData, error) {
	var data model.AuthenticationData
	err := g.Do(ctx, Request{Method: http.MethodPost, Path: "/user", Body: creds, Out: &data, Anonymous: true})
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (g *Gateway) CurrentUser(ctx context.Context) (*model.User, error) {
	var user *model.User
	if err := g.Do(ctx, Request{Method: http.MethodGet, Path: "/user", Out: &user}); err != nil {
		return nil, err
	}
	return user, nil
}

// Organizations

func (g *Gateway) ListOrganizations(ctx context.Context) ([]model.AclOrganization, error) {
	var orgs []model.AclOrganization
	if err := g.Do(ctx, Request{Method: http.MethodGet, Path: "/organization/list", Out: &orgs}); err != nil {
		return nil, err
	}
	return orgs, nil
}

// Folders

func (g *Gateway) ListFolders(ctx context.Context, organizationID string, parentFolderID *string) ([]model.AclFolder, error) {
	path := "/folder/list/" + url.PathEscape(organizationID)
	if parentFolderID != nil && *parentFolderID != "" {
		path += "?parentFolderId=" + url.QueryEscape(*parentFolderID)
	}
	var folders []model.AclFolder
	if err := g.Do(ctx, Request{Method: http.MethodGet, Path: path, Out: &folders}); err != nil {
		return nil, err
	}
	return folders, nil
}

func (g *Gateway) CreateFolder(ctx context.Context, body CreateFolderBody) (*model.AclFolder, error) {
	var folder *model.AclFolder
	if err := g.Do(ctx, Request{Method: http.MethodPost, Path: "/folder", Body: body, Out: &folder}); err != nil {
		return nil, err
	}
	return folder, nil
}

func (g *Gateway) DeleteFolder(ctx context.Context, folderID string) (*model.AclFolder, error) {
	var folder *model.AclFolder
	path := fmt.Sprintf("/folder/%s", url.PathEscape(folderID))
	if err := g.Do(ctx, Request{Method: http.MethodDelete, Path: path, Out: &folder}); err != nil {
		return nil, err
	}
	return folder, nil
}

// Documents

func (g *Gateway) ListDocuments(ctx context.Context, organizationID string, folderID *string) ([]model.AclDocument, error) {
	path := "/document/list/" + url.PathEscape(organizationID)
	if folderID != nil && *folderID != "" {
		path += "?folderId=" + url.QueryEscape(*folderID)
	}
	var docs []model.AclDocument
	if err := g.Do(ctx, Request{Method: http.MethodGet, Path: path, Out: &docs}); err != nil {
		return nil, err
	}
	return docs, nil
}

func (g *Gateway) GetDocument(ctx context.Context, documentID string) (*model.AclDocument, error) {
	var doc *model.AclDocument
	path := fmt.Sprintf("/document/%s", url.PathEscape(documentID))
	if err := g.Do(ctx, Request{Method: http.MethodGet, Path: path, Out: &doc}); err != nil {
		return nil, err
	}
	return doc, nil
}

func (g *Gateway) CreateDocument(ctx context.Context, body CreateDocumentBody) (*model.AclDocument, error) {
	var doc *model.AclDocument
	if err := g.Do(ctx, Request{Method: http.MethodPost, Path: "/document", Body: body, Out: &doc}); err != nil {
		return nil, err
	}
	return doc, nil
}

func (g *Gateway) UpdateDocument(ctx context.Context, body UpdateDocumentBody) (*model.AclDocument, error) {
	var doc *model.AclDocument
	if err := g.Do(ctx, Request{Method: http.MethodPut, Path: "/document", Body: body, Out: &doc}); err != nil {
		return nil, err
	}
	return doc, nil
}

func (g *Gateway) CreateDocumentDraft(ctx context.Context, body CreateDraftBody) (*model.AclDocument, error) {
	var doc *model.AclDocument
	if err := g.Do(ctx, Request{Method: http.MethodPost, Path: "/document/draft", Body: body, Out: &doc}); err != nil {
		return nil, err
	}
	return doc, nil
}

func (g *Gateway) DeleteDocument(ctx context.Context, documentID string) (*model.AclDocument, error) {
	var doc *model.AclDocument
	path := fmt.Sprintf("/document/%s", url.PathEscape(documentID))
	if err := g.Do(ctx, Request{Method: http.MethodDelete, Path: path, Out: &doc}); err != nil {
		return nil, err
	}
	return doc, nil
}

func (g *Gateway) SearchDocuments(ctx context.Context, query string) ([]model.AclDocument, error) {
	var docs []model.AclDocument
	path := "/document/search?query=" + url.QueryEscape(query)
	if err := g.Do(ctx, Request{Method: http.MethodGet, Path: path, Out: &docs}); err != nil {
		return nil, err
	}
	return docs, nil
}

func (g *Gateway) DocumentPath(ctx context.Context, documentID string) (model.DocumentPath, error) {
	var path model.DocumentPath
	route := fmt.Sprintf("/document/path/%s", url.PathEscape(documentID))
	if err := g.Do(ctx, Request{Method: http.MethodGet, Path: route, Out: &path}); err != nil {
		return nil, err
	}
	return path, nil
}
