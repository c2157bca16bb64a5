// Package session keeps the logged-in user's credential bundle: an opaque
// bearer token plus a cached profile snapshot, held by exactly one of two
// storage tiers. The durable tier survives restarts; the ephemeral tier
// lives only for the current process.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/infokelas/kelascli/internal/client/models"
	"github.com/infokelas/kelascli/internal/logging"
)

// Storage keys, identical across both tiers.
const (
	keyToken = "token"
	keyUser  = "user"
)

// ErrNoSession is returned by Read when neither tier holds a usable bundle.
var ErrNoSession = errors.New("no session")

// Bundle is the only persisted credential entity: the bearer token and the
// user snapshot are written and cleared together, never separately.
type Bundle struct {
	Token string
	User  models.User
}

// Tier is one key-value persistence tier. Put must replace all given
// entries atomically so a reader can never observe a token without its
// matching user snapshot.
type Tier interface {
	// Get returns the stored value, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put atomically upserts every entry in the map.
	Put(ctx context.Context, entries map[string][]byte) error
	// Clear removes all entries. Must be idempotent.
	Clear(ctx context.Context) error
}

// Store is the single source of truth for "is there a logged-in user".
//
// Contract:
//   - Write persists the bundle to the tier selected by persistent and
//     clears the other tier, so a stale bundle from an earlier session can
//     never shadow the new one.
//   - Read returns the bundle from the durable tier first, then the
//     ephemeral one, or ErrNoSession. A corrupted user snapshot counts as
//     absent, never as a failure.
//   - UpdateUser replaces only the snapshot, leaving the token untouched.
//   - Clear wipes both tiers unconditionally and is idempotent.
type Store interface {
	Read(ctx context.Context) (*Bundle, error)
	Write(ctx context.Context, b *Bundle, persistent bool) error
	UpdateUser(ctx context.Context, user models.User) error
	Clear(ctx context.Context) error
}

// TierStore is the concrete Store over a (durable, ephemeral) tier pair.
type TierStore struct {
	durable   Tier
	ephemeral Tier
	log       logging.Logger
}

func NewTierStore(durable, ephemeral Tier, log logging.Logger) *TierStore {
	if log == nil {
		log = logging.Nop()
	}
	return &TierStore{durable: durable, ephemeral: ephemeral, log: log}
}

// Read checks the durable tier first, then the ephemeral one. A tier with a
// missing token, missing snapshot, or snapshot that fails to decode is
// skipped; decode failures are logged and treated as "absent" so a corrupt
// entry forces re-authentication instead of crashing the client.
func (s *TierStore) Read(ctx context.Context) (*Bundle, error) {
	for _, tier := range []Tier{s.durable, s.ephemeral} {
		b, err := s.readTier(ctx, tier)
		if err != nil {
			return nil, err
		}
		if b != nil {
			return b, nil
		}
	}
	return nil, ErrNoSession
}

func (s *TierStore) readTier(ctx context.Context, tier Tier) (*Bundle, error) {
	token, err := tier.Get(ctx, keyToken)
	if err != nil {
		return nil, fmt.Errorf("session read: %w", err)
	}
	if len(token) == 0 {
		return nil, nil
	}
	raw, err := tier.Get(ctx, keyUser)
	if err != nil {
		return nil, fmt.Errorf("session read: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		s.log.Warn(ctx, "discarding corrupted user snapshot", "error", err)
		return nil, nil
	}
	return &Bundle{Token: string(token), User: user}, nil
}

// Write persists b to the selected tier. Both tiers are cleared first:
// writing is exclusive, so at most one tier ever holds a bundle.
func (s *TierStore) Write(ctx context.Context, b *Bundle, persistent bool) error {
	if b == nil || b.Token == "" {
		return errors.New("session write: empty bundle")
	}
	raw, err := json.Marshal(b.User)
	if err != nil {
		return fmt.Errorf("session write: %w", err)
	}

	if err := s.Clear(ctx); err != nil {
		return err
	}

	tier := s.ephemeral
	if persistent {
		tier = s.durable
	}
	if err := tier.Put(ctx, map[string][]byte{
		keyToken: []byte(b.Token),
		keyUser:  raw,
	}); err != nil {
		return fmt.Errorf("session write: %w", err)
	}
	return nil
}

// UpdateUser rewrites the user snapshot in whichever tier currently holds
// the bundle. The stored token is not touched. Returns ErrNoSession when no
// bundle exists.
func (s *TierStore) UpdateUser(ctx context.Context, user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session update: %w", err)
	}
	for _, tier := range []Tier{s.durable, s.ephemeral} {
		token, err := tier.Get(ctx, keyToken)
		if err != nil {
			return fmt.Errorf("session update: %w", err)
		}
		if len(token) == 0 {
			continue
		}
		if err := tier.Put(ctx, map[string][]byte{keyUser: raw}); err != nil {
			return fmt.Errorf("session update: %w", err)
		}
		return nil
	}
	return ErrNoSession
}

// Clear removes the bundle from both tiers. Safe to call when no bundle
// exists and safe to call repeatedly.
func (s *TierStore) Clear(ctx context.Context) error {
	for _, tier := range []Tier{s.durable, s.ephemeral} {
		if err := tier.Clear(ctx); err != nil {
			return fmt.Errorf("session clear: %w", err)
		}
	}
	return nil
}
