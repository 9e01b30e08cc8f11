package search

import (
	"context"

	"mentordoc/client/internal/model"
)

// Query describes a document search.
type Query struct {
	Text           string
	OrganizationID string
	// UserID scopes index lookups to the records of one user.
	UserID string
	Limit  int
}

// Searcher can execute a full-text search over documents.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]model.AclDocument, error)
	Healthy() bool
}

// Indexer can push documents into a search index.
type Indexer interface {
	IndexDocuments(docs []DocumentRecord) error
	DeleteDocument(id string) error
}

// DocumentRecord is the data we index for a document. Each user gets their
// own copy, keyed by RecordKey.
type DocumentRecord struct {
	Key            string `json:"key"`
	UserID         string `json:"userId"`
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	FolderID       string `json:"folderId"`
	Name           string `json:"name"`
	Content        string `json:"content"`
	Draft          bool   `json:"draft"`
}

// RecordKey is the primary key of userID's record for documentID.
func RecordKey(userID, documentID string) string {
	return userID + "_" + documentID
}

// RecordFromDocument flattens a document for indexing on behalf of userID.
func RecordFromDocument(userID string, doc model.AclDocument) DocumentRecord {
	record := DocumentRecord{
		Key:            RecordKey(userID, doc.Model.ID),
		UserID:         userID,
		ID:             doc.Model.ID,
		OrganizationID: doc.Model.OrganizationID,
		FolderID:       model.StringValue(doc.Model.FolderID),
		Name:           doc.Model.Name(),
		Draft:          doc.Model.IsDraft(),
	}
	if len(doc.Model.Drafts) > 0 && doc.Model.Drafts[0].Content != nil {
		record.Content = doc.Model.Drafts[0].Content.Content
	}
	return record
}

// APISearcher searches through the mentordoc API.
type APISearcher struct {
	gateway DocumentSearcher
}

// DocumentSearcher is the gateway call APISearcher depends on.
type DocumentSearcher interface {
	SearchDocuments(ctx context.Context, query string) ([]model.AclDocument, error)
}

func NewAPISearcher(gateway DocumentSearcher) *APISearcher {
	return &APISearcher{gateway: gateway}
}

func (s *APISearcher) Search(ctx context.Context, q Query) ([]model.AclDocument, error) {
	return s.gateway.SearchDocuments(ctx, q.Text)
}

func (s *APISearcher) Healthy() bool {
	return true
}
