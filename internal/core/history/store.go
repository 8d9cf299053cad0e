package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"github.com/hay-kot/textsnap/internal/core/kv"
)

// Sentinel errors for history operations.
var (
	ErrNotFound      = errors.New("history item not found")
	ErrStorageFailed = errors.New("history storage failed")
)

// Options configures a Store.
type Options struct {
	// Key is the storage key of the serialized list. Defaults to DefaultKey.
	Key string
	// MaxItems caps the list length. Defaults to DefaultMaxItems.
	MaxItems int
	Logger   zerolog.Logger
}

// Store is the bounded, most-recent-first list of recognition results.
//
// The whole list is serialized as one JSON array under a single key and every
// mutation rewrites it. Mutations that fail to persist leave the in-memory list
// untouched.
type Store struct {
	backend  kv.Store
	key      string
	maxItems int
	log      zerolog.Logger

	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	items []Item
}

// NewStore creates a history store persisted in backend. Call Load before use.
func NewStore(backend kv.Store, opts Options) *Store {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxItems
	}

	return &Store{
		backend:  backend,
		key:      opts.Key,
		maxItems: opts.MaxItems,
		log:      opts.Logger,
		now:      time.Now,
		newID:    newID,
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// MaxItems returns the configured capacity.
func (s *Store) MaxItems() int {
	return s.maxItems
}

// Load reads the persisted list. A missing, unreadable or corrupt record is
// treated as empty history; the fault is logged, never returned. Invalid and
// duplicate entries are dropped.
func (s *Store) Load(ctx context.Context) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil

	entry, err := s.backend.Get(ctx, s.key)
	switch {
	case errors.Is(err, kv.ErrKeyNotFound):
		s.log.Debug().Str("key", s.key).Msg("no stored history")
		return nil
	case err != nil:
		s.log.Warn().Err(err).Str("key", s.key).Msg("history unreadable, starting empty")
		return nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(entry.Value), &items); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("history corrupted, starting empty")
		return nil
	}

	type pair struct{ uri, text string }

	var (
		loaded = make([]Item, 0, len(items))
		seen   = make(map[pair]bool, len(items))
	)
	for _, item := range items {
		if !persistable(item.Text) || item.ID == "" {
			continue
		}
		item.Text = norm.NFC.String(item.Text)

		// newest copy wins
		k := pair{item.ImageURI, item.Text}
		if seen[k] {
			continue
		}
		seen[k] = true

		loaded = append(loaded, item)
	}
	if len(loaded) > s.maxItems {
		loaded = loaded[:s.maxItems]
	}

	s.items = loaded
	s.log.Debug().Int("count", len(loaded)).Msg("history loaded")

	return s.snapshot()
}

// List returns a copy of the current list, newest first.
func (s *Store) List() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

// Get returns an item by id. Returns ErrNotFound if absent.
func (s *Store) Get(id string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}

	return Item{}, ErrNotFound
}

// Append records a result. Empty or placeholder text is ignored. An existing
// item with the same image and text is replaced by the new one, the list is
// truncated to capacity and persisted, and the updated list is returned.
func (s *Store) Append(ctx context.Context, imageURI, text string) ([]Item, error) {
	text = norm.NFC.String(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if imageURI == "" || !persistable(text) {
		return s.snapshot(), nil
	}

	next := make([]Item, 0, len(s.items)+1)
	next = append(next, Item{
		ID:       s.newID(),
		ImageURI: imageURI,
		Text:     text,
		Date:     s.now().UTC(),
	})
	for _, item := range s.items {
		if item.ImageURI == imageURI && item.Text == text {
			continue
		}
		next = append(next, item)
	}
	if len(next) > s.maxItems {
		next = next[:s.maxItems]
	}

	if err := s.persist(ctx, next); err != nil {
		return s.snapshot(), err
	}

	s.items = next
	s.log.Debug().Str("id", next[0].ID).Int("count", len(next)).Msg("history item added")

	return s.snapshot(), nil
}

// Delete removes the item with the given id. An absent id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, item := range s.items {
		if item.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s.snapshot(), nil
	}

	next := make([]Item, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)

	if err := s.persist(ctx, next); err != nil {
		return s.snapshot(), err
	}

	s.items = next
	s.log.Debug().Str("id", id).Msg("history item deleted")

	return s.snapshot(), nil
}

// Clear empties the list and removes the stored record.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, s.key); err != nil && !errors.Is(err, kv.ErrKeyNotFound) {
		return fmt.Errorf("%w: delete %s: %w", ErrStorageFailed, s.key, err)
	}

	s.items = nil
	s.log.Debug().Msg("history cleared")

	return nil
}

func (s *Store) persist(ctx context.Context, items []Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: marshal: %w", ErrStorageFailed, err)
	}

	if err := s.backend.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStorageFailed, s.key, err)
	}

	return nil
}

// snapshot copies the list so callers never alias store state. Callers hold mu.
func (s *Store) snapshot() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func persistable(text string) bool {
	return text != "" && !IsPlaceholder(text)
}
