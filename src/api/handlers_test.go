package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lost-woods/cardkit/src/api"
	"github.com/lost-woods/cardkit/src/cards"
	"github.com/lost-woods/cardkit/src/rng"
	"github.com/lost-woods/cardkit/src/store"
)

type xorshift32 struct {
	x uint32
}

func (r *xorshift32) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i++ {
		r.x ^= r.x << 13
		r.x ^= r.x >> 17
		r.x ^= r.x << 5
		p[i] = byte(r.x >> 24)
	}
	return len(p), nil
}

var uuidV4Re = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

type deckBody struct {
	RequestID string         `json:"request_id"`
	Error     string         `json:"error"`
	Deck      store.Snapshot `json:"deck"`
	Drawn     []cards.Card   `json:"drawn"`
}

func newRouter(t *testing.T, healthy bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := rng.NewLockedReader(&xorshift32{x: 0x2545F491})
	health := rng.NewHealth()
	if healthy {
		health.Set(true, "")
	} else {
		health.Set(false, "stuck")
	}
	log := zap.NewNop().Sugar()
	h := api.NewHandlers(r, health, log, store.New(r, health, log, 0))

	router := gin.New()
	router.GET("/cards", h.RandomCards)
	router.GET("/health", h.Health)
	router.POST("/decks", h.CreateDeck)
	router.GET("/decks/:id", h.GetDeck)
	router.POST("/decks/:id/draw", h.DrawCards)
	router.POST("/decks/:id/shuffle", h.ShuffleDeck)
	router.POST("/decks/:id/refill", h.RefillDeck)
	router.DELETE("/decks/:id", h.DeleteDeck)
	return router
}

func do(t *testing.T, router http.Handler, method, target string, asJSON bool) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	if asJSON {
		req.Header.Set("Accept", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) deckBody {
	t.Helper()
	var out deckBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHandlers_AcceptHeaderControlsJSON(t *testing.T) {
	router := newRouter(t, true)

	w := do(t, router, "GET", "/cards?cards=3", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Regexp(t, uuidV4Re, body.RequestID)
	assert.Equal(t, body.RequestID, w.Header().Get("X-Request-ID"))
	require.Len(t, body.Drawn, 3)
	for _, c := range body.Drawn {
		assert.NotEqual(t, cards.SuitJoker, c.Suit)
	}

	w = do(t, router, "GET", "/cards?cards=2", false)
	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(w.Body.String(), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], " of ")
	assert.True(t, strings.HasPrefix(lines[2], "request_id: "))
}

func TestRandomCards_Validation(t *testing.T) {
	router := newRouter(t, true)
	tests := []struct {
		target string
		want   int
	}{
		{"/cards?decks=0", http.StatusBadRequest},
		{"/cards?decks=101", http.StatusBadRequest},
		{"/cards?jokers=maybe", http.StatusBadRequest},
		{"/cards?cards=0", http.StatusBadRequest},
		{"/cards?cards=53", http.StatusBadRequest},
		{"/cards?cards=54&jokers=true", http.StatusOK},
		{"/cards?cards=104&decks=2", http.StatusOK},
		{"/cards?cards=105&decks=2", http.StatusBadRequest},
	}
	for _, tc := range tests {
		w := do(t, router, "GET", tc.target, true)
		assert.Equal(t, tc.want, w.Code, "%s: %s", tc.target, w.Body.String())
	}
}

func TestRandomCards_WholeDeckIsAPermutation(t *testing.T) {
	router := newRouter(t, true)
	w := do(t, router, "GET", "/cards?cards=54&jokers=true", true)
	require.Equal(t, http.StatusOK, w.Code)

	seen := map[cards.Card]int{}
	for _, c := range decode(t, w).Drawn {
		seen[c]++
	}
	want := map[cards.Card]int{}
	for _, c := range cards.CanonicalDeck() {
		want[c]++
	}
	assert.Equal(t, want, seen)
}

func TestDeckLifecycle(t *testing.T) {
	router := newRouter(t, true)

	w := do(t, router, "POST", "/decks?exclude_suits=diamonds,club,HEART,joker", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode(t, w).Deck
	assert.Equal(t, 13, created.Remaining)
	id := created.ID

	w = do(t, router, "POST", "/decks/"+id+"/draw?count=20", true)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Len(t, body.Drawn, 13)
	assert.Equal(t, cards.Card{Suit: cards.SuitSpade, Value: cards.ValueAce}, body.Drawn[0])
	assert.Equal(t, cards.Card{Suit: cards.SuitSpade, Value: cards.ValueKing}, body.Drawn[12])
	assert.True(t, body.Deck.Empty)

	w = do(t, router, "POST", "/decks/"+id+"/draw", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "deck is empty\n"), w.Body.String())

	w = do(t, router, "POST", "/decks/"+id+"/refill", true)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, 13, body.Deck.Remaining)
	assert.Equal(t, 1, body.Deck.Refills)

	w = do(t, router, "POST", "/decks/"+id+"/shuffle", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 13, decode(t, w).Deck.Remaining)

	w = do(t, router, "GET", "/decks/"+id, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "13 cards remaining (refilled 1 times)")

	w = do(t, router, "DELETE", "/decks/"+id, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, "GET", "/decks/"+id, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Deck not found.", decode(t, w).Error)
}

func TestDrawCards_RefillingDeck(t *testing.T) {
	router := newRouter(t, true)

	w := do(t, router, "POST", "/decks?decks=1&refill=true&preshuffled=true&exclude_values=joker", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode(t, w).Deck
	assert.Equal(t, 52, created.Remaining)
	assert.True(t, created.Config.RefillsWhenEmpty)

	w = do(t, router, "POST", "/decks/"+created.ID+"/draw?count=60", true)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body.Drawn, 60)
	assert.Equal(t, 1, body.Deck.Refills)
	assert.Equal(t, 44, body.Deck.Remaining)
}

func TestCreateDeck_Validation(t *testing.T) {
	router := newRouter(t, true)
	for _, target := range []string{
		"/decks?decks=0",
		"/decks?decks=x",
		"/decks?preshuffled=sometimes",
		"/decks?refill=2",
		"/decks?exclude_suits=cups",
		"/decks?exclude_values=knight",
	} {
		w := do(t, router, "POST", target, true)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}

	w := do(t, router, "POST", "/decks/nope/draw?count=0", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, router, "POST", "/decks/nope/draw?count=1", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlers_UnhealthyRNG(t *testing.T) {
	router := newRouter(t, false)

	w := do(t, router, "GET", "/cards", true)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, decode(t, w).Error, "stuck")

	w = do(t, router, "POST", "/decks", false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(t, router, "GET", "/health", false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "UNHEALTHY: stuck"))
}

func TestHealth_OK(t *testing.T) {
	w := do(t, newRouter(t, true), "GET", "/health", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "OK (last checked "))
}

func TestCheckHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(api.CheckHeader("X-API-KEY", "secret"))
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := do(t, router, "GET", "/", false)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-API-KEY", "secret")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	open := gin.New()
	open.Use(api.CheckHeader("X-API-KEY", ""))
	open.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	assert.Equal(t, http.StatusOK, do(t, open, "GET", "/", false).Code)
}
