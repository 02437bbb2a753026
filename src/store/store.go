// Package store keeps decks in memory by id for the HTTP service. A cards.Deck
// is not safe for concurrent use, so every stored deck is guarded by its own
// mutex.
package store

import (
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lost-woods/cardkit/src/cards"
	"github.com/lost-woods/cardkit/src/rng"
)

var (
	ErrDeckNotFound = errors.New("deck not found")
	ErrTooManyDecks = errors.New("too many decks")
)

// Snapshot is the observable state of a stored deck.
type Snapshot struct {
	ID        string              `json:"id"`
	Remaining int                 `json:"remaining"`
	Empty     bool                `json:"empty"`
	Refills   int                 `json:"refills"`
	CreatedAt time.Time           `json:"created_at"`
	Config    cards.Configuration `json:"config"`
}

type entry struct {
	mu        sync.Mutex
	id        string
	deck      *cards.Deck
	refills   int
	createdAt time.Time
	log       *zap.SugaredLogger
}

// DeckRefilled runs with e.mu held, inside Draw or Refill.
func (e *entry) DeckRefilled(d *cards.Deck) {
	e.refills++
	e.log.Infow("deck refilled", "deck_id", e.id, "cards", d.NumberOfCards(), "refills", e.refills)
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{
		ID:        e.id,
		Remaining: e.deck.NumberOfCards(),
		Empty:     e.deck.IsEmpty(),
		Refills:   e.refills,
		CreatedAt: e.createdAt,
		Config:    e.deck.Configuration(),
	}
}

type Store struct {
	mu     sync.RWMutex
	decks  map[string]*entry
	r      io.Reader
	health *rng.Health
	log    *zap.SugaredLogger
	max    int
}

// New returns a Store drawing deck ids and shuffles from r. maxDecks <= 0
// means unlimited.
func New(r io.Reader, h *rng.Health, log *zap.SugaredLogger, maxDecks int) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{
		decks:  make(map[string]*entry),
		r:      rng.NewLockedReader(r),
		health: h,
		log:    log,
		max:    maxDecks,
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.decks)
}

// Create builds a deck from c and stores it under a fresh id.
func (s *Store) Create(c cards.Configuration) (Snapshot, error) {
	id, err := rng.NewUUIDv4FromRNG(s.r)
	if err != nil {
		if s.health != nil {
			s.health.Set(false, "error fetching random bytes for deck id: "+err.Error())
		}
		return Snapshot{}, errors.Wrap(err, "create deck id")
	}

	e := &entry{id: id, createdAt: time.Now().UTC(), log: s.log}
	e.deck = cards.New(c,
		cards.WithShuffler(rng.NewReaderShuffler(s.r, s.health, s.log)),
		cards.WithObserver(e),
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.max > 0 && len(s.decks) >= s.max {
		return Snapshot{}, errors.Wrapf(ErrTooManyDecks, "limit is %d", s.max)
	}
	s.decks[id] = e

	s.log.Debugw("deck created", "deck_id", id, "cards", e.deck.NumberOfCards())
	return e.snapshot(), nil
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.decks[id]
	if !ok {
		return nil, errors.Wrapf(ErrDeckNotFound, "id %q", id)
	}
	return e, nil
}

// with runs fn on the deck stored under id while holding its lock.
func (s *Store) with(id string, fn func(e *entry)) (Snapshot, error) {
	e, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e)
	return e.snapshot(), nil
}

func (s *Store) Get(id string) (Snapshot, error) {
	return s.with(id, func(*entry) {})
}

// Draw draws up to n cards. Fewer come back when a non-refilling deck runs out.
func (s *Store) Draw(id string, n int) ([]cards.Card, Snapshot, error) {
	var drawn []cards.Card
	snap, err := s.with(id, func(e *entry) {
		drawn = e.deck.Draw(n)
	})
	return drawn, snap, err
}

func (s *Store) Shuffle(id string) (Snapshot, error) {
	return s.with(id, func(e *entry) { e.deck.Shuffle() })
}

func (s *Store) Refill(id string) (Snapshot, error) {
	return s.with(id, func(e *entry) { e.deck.Refill() })
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decks[id]; !ok {
		return errors.Wrapf(ErrDeckNotFound, "id %q", id)
	}
	delete(s.decks, id)
	return nil
}
