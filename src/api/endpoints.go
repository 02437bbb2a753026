package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/lost-woods/cardkit/src/cards"
	"github.com/lost-woods/cardkit/src/rng"
	"github.com/lost-woods/cardkit/src/store"
)

const (
	maxDecksPerShoe = 100
	maxDrawCount    = 1000
)

// RandomCards deals cards from a freshly shuffled deck without storing it.
func (h *Handlers) RandomCards(c *gin.Context) {
	numDecks, err := strconv.Atoi(c.DefaultQuery("decks", "1"))
	if err != nil || numDecks < 1 || numDecks > maxDecksPerShoe {
		responder{c}.err(http.StatusBadRequest, "Invalid deck count.")
		return
	}

	jokers, err := strconv.ParseBool(c.DefaultQuery("jokers", "false"))
	if err != nil {
		responder{c}.err(http.StatusBadRequest, "Invalid jokers flag.")
		return
	}

	numCards, err := strconv.Atoi(c.DefaultQuery("cards", "1"))
	if err != nil || numCards < 1 {
		responder{c}.err(http.StatusBadRequest, "Invalid card count.")
		return
	}

	h.handleRNG(c, func() (string, gin.H, int, string) {
		config := cards.Configuration{NumberOfDecks: numDecks, Preshuffled: true}
		if !jokers {
			config.ExcludedSuits = []cards.Suit{cards.SuitJoker}
		}
		if numCards > config.Size() {
			return "", nil, http.StatusBadRequest,
				"There are more cards to pick than cards in the deck."
		}

		deck := cards.New(config, cards.WithShuffler(rng.NewReaderShuffler(h.r, h.health, h.log)))
		if ok, _, _ := h.health.Snapshot(); !ok {
			return "", nil, http.StatusInternalServerError, "Error fetching a random card."
		}
		picked := deck.Draw(numCards)

		return cardLines(picked), gin.H{
			"decks":  numDecks,
			"jokers": jokers,
			"cards":  numCards,
			"drawn":  picked,
		}, 0, ""
	})
}

// CreateDeck stores a new deck built from the query's configuration.
func (h *Handlers) CreateDeck(c *gin.Context) {
	config, msg := parseConfiguration(c)
	if msg != "" {
		responder{c}.err(http.StatusBadRequest, msg)
		return
	}

	h.handleRNG(c, func() (string, gin.H, int, string) {
		snap, err := h.decks.Create(config)
		if err != nil {
			return h.storeError(err)
		}
		return fmt.Sprintf("deck %s\n%d cards", snap.ID, snap.Remaining), gin.H{"deck": snap}, 0, ""
	})
}

func (h *Handlers) GetDeck(c *gin.Context) {
	id := c.Param("id")
	h.handleRNG(c, func() (string, gin.H, int, string) {
		snap, err := h.decks.Get(id)
		if err != nil {
			return h.storeError(err)
		}
		return deckLine(snap), gin.H{"deck": snap}, 0, ""
	})
}

// DrawCards draws up to count cards from a stored deck. A deck that does not
// refill may return fewer.
func (h *Handlers) DrawCards(c *gin.Context) {
	id := c.Param("id")
	count, err := strconv.Atoi(c.DefaultQuery("count", "1"))
	if err != nil || count < 1 || count > maxDrawCount {
		responder{c}.err(http.StatusBadRequest,
			fmt.Sprintf("Count must be an integer between 1 and %d.", maxDrawCount))
		return
	}

	h.handleRNG(c, func() (string, gin.H, int, string) {
		drawn, snap, err := h.decks.Draw(id, count)
		if err != nil {
			return h.storeError(err)
		}
		if drawn == nil {
			drawn = []cards.Card{}
		}

		text := cardLines(drawn)
		if len(drawn) < count {
			text = strings.TrimPrefix(text+"\ndeck is empty", "\n")
		}
		return text, gin.H{"drawn": drawn, "deck": snap}, 0, ""
	})
}

func (h *Handlers) ShuffleDeck(c *gin.Context) {
	h.deckOp(c, h.decks.Shuffle)
}

func (h *Handlers) RefillDeck(c *gin.Context) {
	h.deckOp(c, h.decks.Refill)
}

func (h *Handlers) DeleteDeck(c *gin.Context) {
	id := c.Param("id")
	h.handleRNG(c, func() (string, gin.H, int, string) {
		if err := h.decks.Delete(id); err != nil {
			return h.storeError(err)
		}
		return "deck " + id + " deleted", gin.H{"deleted": id}, 0, ""
	})
}

func (h *Handlers) deckOp(c *gin.Context, op func(id string) (store.Snapshot, error)) {
	id := c.Param("id")
	h.handleRNG(c, func() (string, gin.H, int, string) {
		snap, err := op(id)
		if err != nil {
			return h.storeError(err)
		}
		return deckLine(snap), gin.H{"deck": snap}, 0, ""
	})
}

func (h *Handlers) storeError(err error) (string, gin.H, int, string) {
	switch {
	case errors.Is(err, store.ErrDeckNotFound):
		return "", nil, http.StatusNotFound, "Deck not found."
	case errors.Is(err, store.ErrTooManyDecks):
		return "", nil, http.StatusTooManyRequests, "Too many decks; delete one first."
	default:
		h.log.Errorw("deck store", "error", err)
		return "", nil, http.StatusInternalServerError, "Deck store error."
	}
}

func (h *Handlers) Health(c *gin.Context) {
	if h.health == nil {
		responder{c}.err(http.StatusServiceUnavailable, "UNHEALTHY: missing health monitor")
		return
	}

	ok, msg, t := h.health.Snapshot()
	if ok {
		responder{c}.ok(
			fmt.Sprintf("OK (last checked %s)", t.Format(time.RFC3339)),
			gin.H{"ok": true, "last_checked": t.Format(time.RFC3339), "decks": h.decks.Len()},
			"health-check",
		)
		return
	}

	responder{c}.err(http.StatusServiceUnavailable,
		fmt.Sprintf("UNHEALTHY: %s (last checked %s)", msg, t.Format(time.RFC3339)))
}

// parseConfiguration reads decks, preshuffled, refill, exclude_suits and
// exclude_values. The lists are comma separated names.
func parseConfiguration(c *gin.Context) (cards.Configuration, string) {
	var config cards.Configuration

	n, err := strconv.Atoi(c.DefaultQuery("decks", "1"))
	if err != nil || n < 1 || n > maxDecksPerShoe {
		return config, fmt.Sprintf("Decks must be an integer between 1 and %d.", maxDecksPerShoe)
	}
	config.NumberOfDecks = n

	if config.Preshuffled, err = strconv.ParseBool(c.DefaultQuery("preshuffled", "false")); err != nil {
		return config, "Invalid preshuffled flag."
	}
	if config.RefillsWhenEmpty, err = strconv.ParseBool(c.DefaultQuery("refill", "false")); err != nil {
		return config, "Invalid refill flag."
	}

	for _, s := range splitList(c.Query("exclude_suits")) {
		suit, err := cards.ParseSuit(s)
		if err != nil {
			return config, "Invalid suit: " + s
		}
		config.ExcludedSuits = append(config.ExcludedSuits, suit)
	}
	for _, s := range splitList(c.Query("exclude_values")) {
		value, err := cards.ParseValue(s)
		if err != nil {
			return config, "Invalid value: " + s
		}
		config.ExcludedValues = append(config.ExcludedValues, value)
	}
	return config, ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func cardLines(cs []cards.Card) string {
	var b strings.Builder
	for i, c := range cs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(c.String())
	}
	return b.String()
}

func deckLine(s store.Snapshot) string {
	return fmt.Sprintf("deck %s\n%d cards remaining (refilled %d times)", s.ID, s.Remaining, s.Refills)
}
