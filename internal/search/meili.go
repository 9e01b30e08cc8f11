package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
	"github.com/rs/zerolog"

	"mentordoc/client/internal/model"
)

const idxDocuments = "mentordoc_user_documents"

// Meili implements Searcher and Indexer via Meilisearch.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
	log     zerolog.Logger
}

// NewMeili creates a Meilisearch client and configures the document index.
// An unreachable server is not an error: the client starts unhealthy and the
// health loop picks it up once it comes back.
func NewMeili(url, apiKey string, log zerolog.Logger) *Meili {
	m := &Meili{
		client: meili.New(url, meili.WithAPIKey(apiKey)),
		done:   make(chan struct{}),
		log:    log,
	}

	if _, err := m.client.Health(); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("search: meilisearch unavailable")
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        idxDocuments,
		PrimaryKey: "key",
	}); err != nil {
		m.log.Debug().Err(err).Msg("search: create index (may already exist)")
	}

	index := m.client.Index(idxDocuments)
	filterable := []interface{}{"userId", "id", "organizationId", "folderId", "draft"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		m.log.Debug().Err(err).Msg("search: update filterable attrs")
	}
	searchable := []string{"name", "content"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		m.log.Debug().Err(err).Msg("search: update searchable attrs")
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				m.log.Info().Msg("search: meilisearch recovered, reconfiguring index")
				m.configureIndex()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

// Healthy reports whether Meilisearch is reachable.
func (m *Meili) Healthy() bool {
	return m != nil && m.healthy.Load()
}

// Search queries the records of q.UserID. Hits carry no capabilities: the
// index does not know what the user may do with a document now.
func (m *Meili) Search(_ context.Context, q Query) ([]model.AclDocument, error) {
	if !m.Healthy() {
		return nil, errors.New("meilisearch unhealthy")
	}
	if q.UserID == "" {
		return nil, errors.New("meilisearch search needs a user")
	}

	limit := int64(q.Limit)
	if limit == 0 {
		limit = 20
	}

	sr := &meili.SearchRequest{
		IndexUID: idxDocuments,
		Query:    q.Text,
		Limit:    limit,
	}
	sr.Filter = searchFilter(q)

	resp, err := m.client.MultiSearch(&meili.MultiSearchRequest{
		Queries: []*meili.SearchRequest{sr},
	})
	if err != nil {
		m.healthy.Store(false)
		return nil, fmt.Errorf("meilisearch multi-search: %w", err)
	}

	var docs []model.AclDocument
	for _, result := range resp.Results {
		for _, hit := range result.Hits {
			docs = append(docs, hitToDocument(hit))
		}
	}
	return docs, nil
}

func searchFilter(q Query) []string {
	filter := []string{fmt.Sprintf("userId = %q", q.UserID)}
	if q.OrganizationID != "" {
		filter = append(filter, fmt.Sprintf("organizationId = %q", q.OrganizationID))
	}
	return filter
}

func hitToDocument(hit meili.Hit) model.AclDocument {
	id := decodeString(hit, "id")
	doc := model.Document{
		Entity:         model.Entity{ID: id},
		OrganizationID: decodeString(hit, "organizationId"),
		FolderID:       model.StringPtr(decodeString(hit, "folderId")),
		Drafts: []model.DocumentDraft{{
			DocumentID: id,
			Name:       strings.TrimSpace(decodeString(hit, "name")),
		}},
	}
	return model.AclDocument{Model: doc, Actions: []string{}}
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

// IndexDocuments bulk-indexes documents.
func (m *Meili) IndexDocuments(docs []DocumentRecord) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := m.client.Index(idxDocuments).AddDocuments(docs, nil)
	return err
}

// DeleteDocument removes every user's record of a document.
func (m *Meili) DeleteDocument(id string) error {
	_, err := m.client.Index(idxDocuments).DeleteDocumentsByFilter(fmt.Sprintf("id = %q", id), nil)
	return err
}
