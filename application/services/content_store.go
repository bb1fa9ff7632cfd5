package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"inspiration-backend/application/ports"
	"inspiration-backend/domain/core/entities"
	"inspiration-backend/domain/core/valueobjects"
	pkgerrors "inspiration-backend/pkg/errors"

	"go.uber.org/zap"
)

// ContentStore owns the inspiration collection and the derived tag index.
// The in-memory collection is authoritative for the session; durable storage
// is written best-effort after each mutation.
type ContentStore struct {
	storage ports.KeyValueStore
	logger  *zap.Logger
	opts    storeOptions
	ids     *valueobjects.IDGenerator

	// writeMu serialises mutations end to end so the durable read-modify-write
	// of one call never interleaves with another. Lock order: writeMu, mu.
	writeMu sync.Mutex

	mu           sync.Mutex
	inspirations []entities.Inspiration // newest first
	tags         *entities.TagIndex
	current      *entities.Inspiration
	loading      bool
	lastErr      error
}

// NewContentStore creates an empty store; call Load to rehydrate it
func NewContentStore(storage ports.KeyValueStore, logger *zap.Logger, opts ...Option) *ContentStore {
	o := defaultStoreOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentStore{
		storage: storage,
		logger:  logger,
		opts:    o,
		ids:     valueobjects.NewIDGenerator(o.clock),
		tags:    entities.NewTagIndex(nil),
	}
}

// Load rehydrates the collection from durable storage. Missing, corrupt or
// empty data is replaced by the example records, which are written back.
// When storage cannot be read at all the example records are kept in memory
// only and the durable copy is left untouched.
// Load never fails; a degraded outcome is also kept in LastError.
func (s *ContentStore) Load(ctx context.Context) Outcome {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	outcome := persisted()
	var items []entities.Inspiration
	raw, found, err := s.fetchDurable(ctx)
	if err != nil {
		s.logger.Error("Failed to read inspirations from durable storage, seeding memory only",
			zap.Error(err),
		)
		items = entities.SeedInspirations(s.opts.clock())
		outcome = memoryOnly(err)
	} else if found {
		if items, err = decodeInspirations(raw); err != nil {
			s.logger.Warn("Stored inspirations are unreadable, reseeding", zap.Error(err))
			items = nil
		}
	}

	if len(items) == 0 {
		items = entities.SeedInspirations(s.opts.clock())
		if err := s.writeDurable(ctx, items); err != nil {
			s.logger.Error("Failed to write seed inspirations", zap.Error(err))
			outcome = memoryOnly(err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.inspirations = items
	s.tags = entities.NewTagIndex(items)
	for _, item := range items {
		s.ids.Observe(item.ID)
	}
	if outcome.Degraded() {
		s.lastErr = outcome.Cause
	}

	s.logger.Info("Inspirations loaded",
		zap.Int("count", len(items)),
		zap.Int("tags", s.tags.Len()),
	)
	return outcome
}

// GetByID returns the inspiration with id
func (s *ContentStore) GetByID(id string) (entities.Inspiration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.inspirations[idx].Clone(), true
	}
	return entities.Inspiration{}, false
}

// GetByTag returns every inspiration carrying tag
func (s *ContentStore) GetByTag(tag string) []entities.Inspiration {
	return s.filter(func(item entities.Inspiration) bool {
		return item.HasTag(tag)
	})
}

// GetByDate returns every inspiration created on the calendar day of day
func (s *ContentStore) GetByDate(day time.Time) []entities.Inspiration {
	return s.filter(func(item entities.Inspiration) bool {
		return item.CreatedOn(day, s.opts.location)
	})
}

// TagCounts returns per-tag usage counts in first-occurrence order
func (s *ContentStore) TagCounts() []entities.TagCount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entities.CountTags(s.inspirations)
}

// All returns a copy of the collection, newest first
func (s *ContentStore) All() []entities.Inspiration {
	return s.filter(func(entities.Inspiration) bool { return true })
}

// Tags returns the tag index in insertion order
func (s *ContentStore) Tags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tags.List()
}

// Add creates an inspiration from draft and puts it at the front
func (s *ContentStore) Add(ctx context.Context, draft entities.InspirationDraft) (Mutation[entities.Inspiration], error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	item, err := entities.NewInspiration(s.ids.Next(), draft, s.opts.clock(), s.opts.domain)
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		return Mutation[entities.Inspiration]{}, err
	}
	s.inspirations = append([]entities.Inspiration{item}, s.inspirations...)
	s.tags.Extend(item.Tags)
	s.mu.Unlock()

	outcome := s.persist(ctx, "add", func(stored []entities.Inspiration) []entities.Inspiration {
		return append([]entities.Inspiration{item.Clone()}, stored...)
	})

	return Mutation[entities.Inspiration]{Value: item.Clone(), Outcome: outcome}, nil
}

// Update merges patch into the inspiration with id, keeping its position
func (s *ContentStore) Update(ctx context.Context, id string, patch entities.InspirationPatch) (Mutation[entities.Inspiration], error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		err := pkgerrors.NewNotFoundError("inspiration").WithDetails(map[string]interface{}{"id": id})
		s.lastErr = err
		s.mu.Unlock()
		return Mutation[entities.Inspiration]{}, err
	}

	updated, err := s.inspirations[idx].Apply(patch, s.opts.clock())
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		return Mutation[entities.Inspiration]{}, err
	}
	s.inspirations[idx] = updated
	if patch.Tags != nil {
		s.tags.Extend(updated.Tags)
	}
	s.mu.Unlock()

	outcome := s.persist(ctx, "update", func(stored []entities.Inspiration) []entities.Inspiration {
		for i := range stored {
			if stored[i].ID == id {
				stored[i] = updated.Clone()
				return stored
			}
		}
		return append([]entities.Inspiration{updated.Clone()}, stored...)
	})

	return Mutation[entities.Inspiration]{Value: updated.Clone(), Outcome: outcome}, nil
}

// Delete removes the inspiration with id
func (s *ContentStore) Delete(ctx context.Context, id string) (Mutation[entities.Inspiration], error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		err := pkgerrors.NewNotFoundError("inspiration").WithDetails(map[string]interface{}{"id": id})
		s.lastErr = err
		s.mu.Unlock()
		return Mutation[entities.Inspiration]{}, err
	}
	removed := s.inspirations[idx]
	s.inspirations = append(s.inspirations[:idx:idx], s.inspirations[idx+1:]...)
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()

	outcome := s.persist(ctx, "delete", func(stored []entities.Inspiration) []entities.Inspiration {
		kept := stored[:0]
		for _, item := range stored {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		return kept
	})

	return Mutation[entities.Inspiration]{Value: removed, Outcome: outcome}, nil
}

// SetCurrent sets the focused inspiration; nil clears it
func (s *ContentStore) SetCurrent(item *entities.Inspiration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item == nil {
		s.current = nil
		return
	}
	c := item.Clone()
	s.current = &c
}

// Current returns the focused inspiration
func (s *ContentStore) Current() (entities.Inspiration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return entities.Inspiration{}, false
	}
	return s.current.Clone(), true
}

// Loading reports whether Load is in progress
func (s *ContentStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the most recent operation failure
func (s *ContentStore) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *ContentStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// indexOf must be called with mu held
func (s *ContentStore) indexOf(id string) int {
	for i := range s.inspirations {
		if s.inspirations[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ContentStore) filter(keep func(entities.Inspiration) bool) []entities.Inspiration {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []entities.Inspiration{}
	for _, item := range s.inspirations {
		if keep(item) {
			out = append(out, item.Clone())
		}
	}
	return out
}

// persist re-reads the durable collection, applies change and writes it back.
// Unreadable durable data is left alone rather than overwritten. Callers hold
// writeMu.
func (s *ContentStore) persist(ctx context.Context, op string, change func([]entities.Inspiration) []entities.Inspiration) Outcome {
	stored, err := s.readDurable(ctx)
	if err == nil {
		err = s.writeDurable(ctx, change(stored))
	}
	if err != nil {
		s.logger.Error("Failed to persist inspirations",
			zap.String("operation", op),
			zap.Error(err),
		)
		return memoryOnly(err)
	}
	return persisted()
}

func (s *ContentStore) readDurable(ctx context.Context) ([]entities.Inspiration, error) {
	raw, found, err := s.fetchDurable(ctx)
	if err != nil || !found {
		return nil, err
	}
	return decodeInspirations(raw)
}

// fetchDurable reads the raw value; an empty value counts as not found
func (s *ContentStore) fetchDurable(ctx context.Context) (string, bool, error) {
	raw, found, err := s.storage.GetItem(ctx, ports.KeyInspirations)
	if err != nil {
		return "", false, pkgerrors.NewStorageError("read", ports.KeyInspirations, err)
	}
	return raw, found && raw != "", nil
}

func decodeInspirations(raw string) ([]entities.Inspiration, error) {
	var items []entities.Inspiration
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, pkgerrors.NewStorageError("parse", ports.KeyInspirations, err)
	}
	return items, nil
}

func (s *ContentStore) writeDurable(ctx context.Context, items []entities.Inspiration) error {
	if items == nil {
		items = []entities.Inspiration{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return pkgerrors.NewStorageError("encode", ports.KeyInspirations, err)
	}
	if err := s.storage.SetItem(ctx, ports.KeyInspirations, string(data)); err != nil {
		return pkgerrors.NewStorageError("write", ports.KeyInspirations, err)
	}
	return nil
}
