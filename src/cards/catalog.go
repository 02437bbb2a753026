// Package cards models a deck of playing cards: the canonical card catalog,
// deck configuration, and a mutable deck that can be drawn from, shuffled and
// refilled.
package cards

type Suit byte

const (
	// SuitJoker is the pseudo-suit carried only by jokers.
	SuitJoker Suit = iota
	SuitSpade
	SuitDiamond
	SuitClub
	SuitHeart
)

type Value byte

const (
	ValueJoker Value = iota
	ValueAce
	ValueTwo
	ValueThree
	ValueFour
	ValueFive
	ValueSix
	ValueSeven
	ValueEight
	ValueNine
	ValueTen
	ValueJack
	ValueQueen
	ValueKing
)

// Card is a single playing card. Two cards with the same suit and value are
// interchangeable.
type Card struct {
	Suit  Suit  `json:"suit"`
	Value Value `json:"value"`
}

// New deck order, as printed by the USPCC.
var (
	suitOrder = [...]Suit{SuitJoker, SuitSpade, SuitDiamond, SuitClub, SuitHeart}

	ascendingValues = [...]Value{
		ValueAce, ValueTwo, ValueThree, ValueFour, ValueFive, ValueSix, ValueSeven,
		ValueEight, ValueNine, ValueTen, ValueJack, ValueQueen, ValueKing,
	}
)

// PerDeck is the number of cards in one unfiltered physical deck.
const PerDeck = 2 + 4*len(ascendingValues)

// OrderedSuits returns the suits in catalog order.
func OrderedSuits() []Suit {
	out := make([]Suit, len(suitOrder))
	copy(out, suitOrder[:])
	return out
}

// OrderedValues returns the catalog order of values for suit. Clubs and
// hearts run in the reverse of spades and diamonds.
func OrderedValues(suit Suit) []Value {
	switch suit {
	case SuitJoker:
		return []Value{ValueJoker, ValueJoker}
	case SuitSpade, SuitDiamond:
		out := make([]Value, len(ascendingValues))
		copy(out, ascendingValues[:])
		return out
	case SuitClub, SuitHeart:
		out := OrderedValues(SuitSpade)
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
		return out
	default:
		return nil
	}
}

// CanonicalDeck returns one physical deck, jokers included, in catalog order.
func CanonicalDeck() []Card {
	deck := make([]Card, 0, PerDeck)
	for _, suit := range suitOrder {
		for _, v := range OrderedValues(suit) {
			deck = append(deck, Card{Suit: suit, Value: v})
		}
	}
	return deck
}
