package cards

// Observer is notified when a Deck has been refilled.
type Observer interface {
	DeckRefilled(d *Deck)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(d *Deck)

func (f ObserverFunc) DeckRefilled(d *Deck) { f(d) }

// Deck holds the undrawn cards of one logical deck. The front of the
// sequence is drawn next.
//
// A Deck is not safe for concurrent use; callers sharing one must lock.
type Deck struct {
	config   Configuration
	shuffler Shuffler
	observer Observer
	cards    []Card
}

type Option func(*Deck)

// WithShuffler sets the source of randomness for preshuffling and Shuffle.
func WithShuffler(sh Shuffler) Option {
	return func(d *Deck) {
		if sh != nil {
			d.shuffler = sh
		}
	}
}

// WithObserver registers o before the first build. Building a new Deck does
// not notify it.
func WithObserver(o Observer) Option {
	return func(d *Deck) { d.observer = o }
}

// New builds a Deck from c. It never fails; a configuration that excludes
// everything yields an empty deck.
func New(c Configuration, opts ...Option) *Deck {
	d := &Deck{config: c.clone()}
	for _, opt := range opts {
		opt(d)
	}
	if d.shuffler == nil {
		d.shuffler = NewShuffler()
	}
	d.cards = Materialize(d.config, d.shuffler)
	return d
}

// Standard returns a single unshuffled 54 card deck that does not refill.
func Standard(opts ...Option) *Deck {
	return New(StandardConfiguration(), opts...)
}

// Configuration returns a copy of the configuration the deck was built with.
func (d *Deck) Configuration() Configuration {
	return d.config.clone()
}

// SetObserver replaces the refill observer. nil clears it.
func (d *Deck) SetObserver(o Observer) {
	d.observer = o
}

// NumberOfCards is the count of cards not yet drawn.
func (d *Deck) NumberOfCards() int {
	return len(d.cards)
}

func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Remaining returns a copy of the undrawn cards, next card first.
func (d *Deck) Remaining() []Card {
	return append([]Card(nil), d.cards...)
}

// Shuffle permutes the undrawn cards in place.
func (d *Deck) Shuffle() {
	shuffleCards(d.shuffler, d.cards)
}

// Refill discards every undrawn card, rebuilds the deck from its
// configuration and notifies the observer.
func (d *Deck) Refill() {
	d.cards = Materialize(d.config, d.shuffler)
	if d.observer != nil {
		d.observer.DeckRefilled(d)
	}
}

// DrawCard removes and returns the next card. ok is false when no card is
// available. An empty deck configured to refill is refilled first, at most
// once per call.
func (d *Deck) DrawCard() (card Card, ok bool) {
	for refilled := false; len(d.cards) == 0; refilled = true {
		if refilled || !d.config.RefillsWhenEmpty {
			return Card{}, false
		}
		d.Refill()
	}

	card = d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// Draw draws up to n cards, stopping early if the deck reports empty.
func (d *Deck) Draw(n int) []Card {
	if n <= 0 {
		return nil
	}
	out := make([]Card, 0, min(n, len(d.cards)))
	for i := 0; i < n; i++ {
		c, ok := d.DrawCard()
		if !ok {
			break
		}
		out = append(out, c)
	}
	return out
}
