// Package app is the composition root of the mentordoc client. It wires the
// store, the gateway, persistence and search together from a Config.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"mentordoc/client/internal/actions"
	"mentordoc/client/internal/config"
	"mentordoc/client/internal/gateway"
	"mentordoc/client/internal/model"
	"mentordoc/client/internal/persist"
	"mentordoc/client/internal/search"
	"mentordoc/client/internal/state"
)

type Client struct {
	API     *state.API
	Actions *actions.Catalog

	cfg    config.Config
	log    zerolog.Logger
	kv     persist.KV
	search *search.Service
	meili  *search.Meili
	detach func()
}

// New builds a client and restores the persisted session. Redis is used for
// persistence when configured, the state file otherwise. Search always asks
// the API; a configured Meilisearch only answers while the API is down.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Client, error) {
	registry, err := state.NewSyncRegistry()
	if err != nil {
		return nil, fmt.Errorf("install actions: %w", err)
	}
	store := state.NewStore(registry, state.WithStoreLogger(log))

	gw := gateway.New(cfg.APIURL,
		gateway.WithTimeout(cfg.Timeout),
		gateway.WithSession(state.NewSession(store)),
		gateway.WithLogger(log),
	)

	kv, err := openKV(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := persist.Restore(ctx, kv, store, log); err != nil {
		closeKV(kv)
		return nil, err
	}

	c := &Client{
		API:    &state.API{Store: store, Gateway: gw, Log: log},
		cfg:    cfg,
		log:    log,
		kv:     kv,
		detach: persist.NewSyncer(kv, log).Attach(store),
	}

	var index search.Index
	if cfg.MeiliURL != "" {
		c.meili = search.NewMeili(cfg.MeiliURL, cfg.MeiliSearchKey, log)
		index = c.meili
	}
	c.search = search.NewService(index, search.NewAPISearcher(gw), log)
	c.Actions = actions.NewCatalog(c.search)
	return c, nil
}

func openKV(cfg config.Config, log zerolog.Logger) (persist.KV, error) {
	if cfg.RedisURL != "" {
		log.Debug().Msg("using redis for session storage")
		kv, err := persist.NewRedisKV(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, err
		}
		return kv, nil
	}
	log.Debug().Str("path", cfg.StateFile).Msg("using state file for session storage")
	return persist.NewFileKV(cfg.StateFile), nil
}

func closeKV(kv persist.KV) {
	if closer, ok := kv.(io.Closer); ok {
		_ = closer.Close()
	}
}

// Close waits for pending index writes and releases every connection.
func (c *Client) Close() {
	c.search.Wait()
	c.detach()
	if c.meili != nil {
		c.meili.Close()
	}
	closeKV(c.kv)
}

func (c *Client) State() state.RootState {
	return c.API.Store.State()
}

// Err returns the recorded failure of the last run of actionType, or nil
// when it succeeded or never ran.
func (c *Client) Err(actionType string) error {
	httpErr := c.State().RequestStatus.Error(actionType)
	if httpErr == nil {
		return nil
	}
	return actionError(actionType, httpErr.Status, httpErr.Errors)
}

// Runner is any async action of the catalog.
type Runner[P any] interface {
	Type() string
	Run(ctx context.Context, api *state.API, req P) bool
}

// Run executes action for req and returns its recorded failure. A request
// suppressed because an identical one is in flight is not an error.
func Run[P any](ctx context.Context, c *Client, action Runner[P], req P) error {
	if !action.Run(ctx, c.API, req) {
		return nil
	}
	return c.Err(action.Type())
}

// RequireSession fails when nobody is signed in.
func (c *Client) RequireSession() error {
	if c.State().User.AuthenticationData == nil {
		return errors.New("not signed in: run `mentordoc signin` first")
	}
	return nil
}

// CurrentOrganization returns the selected organization, fetching the list
// with req first when nothing is selected yet.
func (c *Client) CurrentOrganization(ctx context.Context, req model.Request) (model.AclOrganization, error) {
	if current := c.State().Organization.CurrentOrganization; current != nil {
		return *current, nil
	}
	if err := Run(ctx, c, c.Actions.FetchOrganizations, actions.FetchOrganizationsRequest{Request: req}); err != nil {
		return model.AclOrganization{}, err
	}
	current := c.State().Organization.CurrentOrganization
	if current == nil {
		return model.AclOrganization{}, errors.New("no organization available")
	}
	return *current, nil
}

// Health describes the backends the client is wired to.
type Health struct {
	APIURL  string `json:"apiUrl"`
	Storage string `json:"storage"`
	// StorageOK is false when the storage backend cannot be reached.
	StorageOK bool   `json:"storageOk"`
	Search    string `json:"search"`
	SignedIn  bool   `json:"signedIn"`
}

func (c *Client) Health(ctx context.Context) Health {
	h := Health{
		APIURL:    c.cfg.APIURL,
		Storage:   "file",
		StorageOK: true,
		Search:    "api",
		SignedIn:  c.State().User.AuthenticationData != nil,
	}
	if redisKV, ok := c.kv.(*persist.RedisKV); ok {
		h.Storage = "redis"
		h.StorageOK = redisKV.Ping(ctx) == nil
	}
	if c.meili.Healthy() {
		h.Search = "meilisearch"
	}
	return h
}
