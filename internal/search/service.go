package search

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"mentordoc/client/internal/model"
)

// Index is what Service needs from Meilisearch: searching plus indexing.
type Index interface {
	Searcher
	Indexer
}

// Service searches through the API. The Meilisearch index only holds what
// this user has fetched, so it answers only while the API is unreachable.
type Service struct {
	api     Searcher
	index   Index
	log     zerolog.Logger
	pending sync.WaitGroup
}

// NewService creates a search service. index may be nil if Meilisearch is not configured.
func NewService(index Index, api Searcher, log zerolog.Logger) *Service {
	return &Service{api: api, index: index, log: log}
}

// Search asks the API. Errors the API answered with are returned as-is so
// they reach the user; transport failures and server errors fall back to
// the index when one is available for q.UserID.
func (s *Service) Search(ctx context.Context, q Query) ([]model.AclDocument, error) {
	docs, err := s.api.Search(ctx, q)
	if err == nil {
		return nonNil(docs), nil
	}
	if !s.canFallBack(ctx, q, err) {
		return nil, err
	}

	s.log.Warn().Err(err).Msg("search: api unavailable, using meilisearch")
	hits, indexErr := s.index.Search(ctx, q)
	if indexErr != nil {
		s.log.Warn().Err(indexErr).Msg("search: meilisearch fallback failed")
		return nil, err
	}
	return nonNil(hits), nil
}

func (s *Service) canFallBack(ctx context.Context, q Query, err error) bool {
	if ctx.Err() != nil || q.UserID == "" || !s.indexReady() {
		return false
	}
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status >= http.StatusInternalServerError
	}
	return true
}

// IndexDocuments indexes documents on behalf of userID (fire-and-forget to
// Meilisearch). Without a user there is nobody to scope the records to.
func (s *Service) IndexDocuments(userID string, docs ...model.AclDocument) {
	if !s.indexReady() || userID == "" || len(docs) == 0 {
		return
	}
	records := make([]DocumentRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, RecordFromDocument(userID, doc))
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.index.IndexDocuments(records); err != nil {
			s.log.Warn().Err(err).Int("count", len(records)).Msg("search: index documents")
		}
	}()
}

// DeleteDocument removes a document from the search index for every user
// (fire-and-forget).
func (s *Service) DeleteDocument(id string) {
	if !s.indexReady() {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.index.DeleteDocument(id); err != nil {
			s.log.Warn().Err(err).Str("id", id).Msg("search: delete document")
		}
	}()
}

// Wait blocks until every index write started so far has finished. A short
// lived process calls it before exiting.
func (s *Service) Wait() {
	s.pending.Wait()
}

func (s *Service) indexReady() bool {
	return s.index != nil && s.index.Healthy()
}

func nonNil(docs []model.AclDocument) []model.AclDocument {
	if docs == nil {
		return []model.AclDocument{}
	}
	return docs
}
