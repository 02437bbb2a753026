package cards

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnknownSuit  = errors.New("unknown suit")
	ErrUnknownValue = errors.New("unknown value")
)

var suitNames = map[Suit]string{
	SuitJoker:   "joker",
	SuitSpade:   "spade",
	SuitDiamond: "diamond",
	SuitClub:    "club",
	SuitHeart:   "heart",
}

var valueNames = map[Value]string{
	ValueJoker: "joker",
	ValueAce:   "ace",
	ValueTwo:   "two",
	ValueThree: "three",
	ValueFour:  "four",
	ValueFive:  "five",
	ValueSix:   "six",
	ValueSeven: "seven",
	ValueEight: "eight",
	ValueNine:  "nine",
	ValueTen:   "ten",
	ValueJack:  "jack",
	ValueQueen: "queen",
	ValueKing:  "king",
}

func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return fmt.Sprintf("suit(%d)", byte(s))
}

func (v Value) String() string {
	if name, ok := valueNames[v]; ok {
		return name
	}
	return fmt.Sprintf("value(%d)", byte(v))
}

// String renders "ace of spades", or "joker" for jokers.
func (c Card) String() string {
	if c.Value == ValueJoker || c.Suit == SuitJoker {
		return "joker"
	}
	return c.Value.String() + " of " + c.Suit.String() + "s"
}

// ParseSuit accepts the singular or plural suit name in any case.
func ParseSuit(s string) (Suit, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	for suit, n := range suitNames {
		if n == name {
			return suit, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownSuit, "%q", s)
}

// ParseValue accepts a value name ("queen") or its number ("2".."10") in any case.
func ParseValue(s string) (Value, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for v, n := range valueNames {
		if n == name {
			return v, nil
		}
	}
	switch name {
	case "a", "1":
		return ValueAce, nil
	case "j":
		return ValueJack, nil
	case "q":
		return ValueQueen, nil
	case "k":
		return ValueKing, nil
	}
	if n, err := strconv.Atoi(name); err == nil && n >= 2 && n <= 10 {
		return ValueAce + Value(n-1), nil
	}
	return 0, errors.Wrapf(ErrUnknownValue, "%q", s)
}

func (s Suit) MarshalText() ([]byte, error) {
	if _, ok := suitNames[s]; !ok {
		return nil, errors.Wrapf(ErrUnknownSuit, "%d", byte(s))
	}
	return []byte(s.String()), nil
}

func (s *Suit) UnmarshalText(b []byte) error {
	suit, err := ParseSuit(string(b))
	if err != nil {
		return err
	}
	*s = suit
	return nil
}

func (v Value) MarshalText() ([]byte, error) {
	if _, ok := valueNames[v]; !ok {
		return nil, errors.Wrapf(ErrUnknownValue, "%d", byte(v))
	}
	return []byte(v.String()), nil
}

func (v *Value) UnmarshalText(b []byte) error {
	value, err := ParseValue(string(b))
	if err != nil {
		return err
	}
	*v = value
	return nil
}
