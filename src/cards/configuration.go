package cards

// Configuration describes how a Deck builds its cards. It is fixed for the
// lifetime of the Deck it is handed to.
type Configuration struct {
	// NumberOfDecks is how many physical decks are concatenated.
	NumberOfDecks int `json:"number_of_decks"`
	// Preshuffled shuffles the cards once after every build.
	Preshuffled bool `json:"preshuffled"`
	// RefillsWhenEmpty lets DrawCard rebuild the deck instead of reporting empty.
	RefillsWhenEmpty bool `json:"refills_when_empty"`

	ExcludedValues []Value `json:"excluded_values,omitempty"`
	ExcludedSuits  []Suit  `json:"excluded_suits,omitempty"`
}

// StandardConfiguration is a single unshuffled deck with both jokers that
// does not refill.
func StandardConfiguration() Configuration {
	return Configuration{NumberOfDecks: 1}
}

func (c Configuration) clone() Configuration {
	c.ExcludedValues = append([]Value(nil), c.ExcludedValues...)
	c.ExcludedSuits = append([]Suit(nil), c.ExcludedSuits...)
	return c
}

func (c Configuration) excludesSuit(s Suit) bool {
	for _, x := range c.ExcludedSuits {
		if x == s {
			return true
		}
	}
	return false
}

func (c Configuration) excludesValue(v Value) bool {
	for _, x := range c.ExcludedValues {
		if x == v {
			return true
		}
	}
	return false
}

// Size is the number of cards a build of c produces.
func (c Configuration) Size() int {
	if c.NumberOfDecks <= 0 {
		return 0
	}
	perDeck := 0
	for _, suit := range suitOrder {
		if c.excludesSuit(suit) {
			continue
		}
		for _, v := range OrderedValues(suit) {
			if !c.excludesValue(v) {
				perDeck++
			}
		}
	}
	return c.NumberOfDecks * perDeck
}

// Materialize builds the card sequence for c: each included suit in catalog
// order, repeated NumberOfDecks times, then shuffled once as a whole when
// Preshuffled is set. It never fails; degenerate configurations give an empty
// sequence. A nil sh falls back to NewShuffler.
func Materialize(c Configuration, sh Shuffler) []Card {
	suits := make([]Suit, 0, len(suitOrder))
	for _, suit := range suitOrder {
		if !c.excludesSuit(suit) {
			suits = append(suits, suit)
		}
	}

	out := make([]Card, 0, c.Size())
	for d := 0; d < c.NumberOfDecks; d++ {
		for _, suit := range suits {
			for _, v := range OrderedValues(suit) {
				if c.excludesValue(v) {
					continue
				}
				out = append(out, Card{Suit: suit, Value: v})
			}
		}
	}

	if c.Preshuffled {
		if sh == nil {
			sh = NewShuffler()
		}
		shuffleCards(sh, out)
	}
	return out
}
