package httpx

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ariefcatur/game-account-market/internal/market"
	"github.com/ariefcatur/game-account-market/internal/redisx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slugs(games []market.Game) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.Slug
	}
	return out
}

func TestListGamesFromStoreIsCached(t *testing.T) {
	env := newTestEnv(t, market.NewMemStore(market.ReferenceGames()[:3]...))

	rec := env.do(t, http.MethodGet, "/games", "")
	require.Equal(t, http.StatusOK, rec.Code)
	games := decodeData[[]market.Game](t, decode(t, rec))
	assert.ElementsMatch(t, []string{"efootball", "pubg-mobile", "free-fire"}, slugs(games))

	raw, err := env.mr.Get(redisx.KeyGamesAll)
	require.NoError(t, err)
	var cached []market.Game
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Equal(t, slugs(games), slugs(cached))
	assert.Equal(t, redisx.TTLGamesCache, env.mr.TTL(redisx.KeyGamesAll))
}

func TestListGamesFallsBackWhenEmpty(t *testing.T) {
	env := newTestEnv(t, market.NewMemStore())

	rec := env.do(t, http.MethodGet, "/games", "")
	require.Equal(t, http.StatusOK, rec.Code)
	games := decodeData[[]market.Game](t, decode(t, rec))
	assert.Equal(t, slugs(market.ReferenceGames()), slugs(games))
	assert.False(t, env.mr.Exists(redisx.KeyGamesAll), "fallback answers are not cached")
	assert.NotContains(t, rec.Body.String(), "created_at")
}

func TestListGamesFallsBackOnStoreError(t *testing.T) {
	env := newTestEnv(t, brokenStore{market.NewMemStore(market.ReferenceGames()...)})

	rec := env.do(t, http.MethodGet, "/games", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Len(t, decodeData[[]market.Game](t, resp), 8)

	metrics := env.do(t, http.MethodGet, "/metrics", "")
	assert.Contains(t, metrics.Body.String(), `market_games_fallback_total{reason="store_error"} 1`)
}

func TestGetGameBySlug(t *testing.T) {
	env := newTestEnv(t, market.NewMemStore(market.ReferenceGames()...))

	rec := env.do(t, http.MethodGet, "/games/valorant", "")
	require.Equal(t, http.StatusOK, rec.Code)
	g := decodeData[market.Game](t, decode(t, rec))
	assert.Equal(t, int64(6), g.ID)
	assert.Equal(t, "Valorant", g.Name)

	rec = env.do(t, http.MethodGet, "/games/minecraft", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"game not found"}`, rec.Body.String())
}

func TestGetGameBySlugFallback(t *testing.T) {
	env := newTestEnv(t, brokenStore{market.NewMemStore()})

	rec := env.do(t, http.MethodGet, "/games/fortnite", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(8), decodeData[market.Game](t, decode(t, rec)).ID)

	rec = env.do(t, http.MethodGet, "/games/minecraft", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGameActivity(t *testing.T) {
	env := newTestEnv(t, market.NewMemStore(market.ReferenceGames()...))
	env.mr.HSet("activity:game:6", "created", "5", "sold", "2")

	rec := env.do(t, http.MethodGet, "/games/valorant/activity", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"created":5,"sold":2,"deleted":0}}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/games/fortnite/activity", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"created":0,"sold":0,"deleted":0}}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/games/minecraft/activity", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
