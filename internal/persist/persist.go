package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"mentordoc/client/internal/auth"
	"mentordoc/client/internal/model"
	"mentordoc/client/internal/state"
)

const writeTimeout = 5 * time.Second

// Restore loads the persisted items into store. Missing items are not an
// error; unreadable or expired ones are dropped.
func Restore(ctx context.Context, kv KV, store *state.Store, log zerolog.Logger) error {
	var data model.AuthenticationData
	found, err := load(ctx, kv, KeyAuthenticationData, &data, log)
	if err != nil {
		return err
	}
	if found {
		if _, ok := auth.SessionLifetime(&data, time.Now()); ok {
			store.Dispatch(state.SetAuthenticationData.Action(state.SetAuthenticationDataPayload{AuthenticationData: &data}))
		} else {
			log.Info().Msg("persist: stored session expired")
			if err := kv.Delete(ctx, KeyAuthenticationData); err != nil {
				return err
			}
		}
	}

	var org model.AclOrganization
	found, err = load(ctx, kv, KeyCurrentOrganization, &org, log)
	if err != nil {
		return err
	}
	if found {
		store.Dispatch(state.SetCurrentOrganization.Action(state.SetCurrentOrganizationPayload{CurrentOrganization: &org}))
	}
	return nil
}

func load(ctx context.Context, kv KV, key string, out any, log zerolog.Logger) (bool, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("restore %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("persist: dropping unreadable item")
		return false, kv.Delete(ctx, key)
	}
	return true, nil
}

// Syncer writes the persisted items back whenever they change in the store.
type Syncer struct {
	kv  KV
	log zerolog.Logger
	now func() time.Time
}

func NewSyncer(kv KV, log zerolog.Logger) *Syncer {
	return &Syncer{kv: kv, log: log, now: time.Now}
}

// Attach subscribes to store and returns the unsubscribe function.
func (s *Syncer) Attach(store *state.Store) func() {
	return store.Subscribe(s.apply)
}

func (s *Syncer) apply(prev, next state.RootState) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if !cmp.Equal(prev.User.AuthenticationData, next.User.AuthenticationData) {
		if err := s.writeAuthenticationData(ctx, next.User.AuthenticationData); err != nil {
			s.log.Warn().Err(err).Msg("persist: save credentials")
		}
	}
	if !cmp.Equal(prev.Organization.CurrentOrganization, next.Organization.CurrentOrganization) {
		if err := s.write(ctx, KeyCurrentOrganization, next.Organization.CurrentOrganization, 0); err != nil {
			s.log.Warn().Err(err).Msg("persist: save current organization")
		}
	}
}

func (s *Syncer) writeAuthenticationData(ctx context.Context, data *model.AuthenticationData) error {
	if data == nil {
		return s.kv.Delete(ctx, KeyAuthenticationData)
	}
	ttl, ok := auth.SessionLifetime(data, s.now())
	if !ok {
		return s.kv.Delete(ctx, KeyAuthenticationData)
	}
	return s.write(ctx, KeyAuthenticationData, data, ttl)
}

func (s *Syncer) write(ctx context.Context, key string, value any, ttl time.Duration) error {
	if isNil(value) {
		return s.kv.Delete(ctx, key)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, raw, ttl)
}

func isNil(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case *model.AclOrganization:
		return v == nil
	case *model.AuthenticationData:
		return v == nil
	default:
		return false
	}
}
