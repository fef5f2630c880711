package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/game-account-market/internal/market"
	"github.com/ariefcatur/game-account-market/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []kafkago.Message
}

func (p *recordingPublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, kafkago.Message{Key: key, Value: value, Headers: headers})
}

func (p *recordingPublisher) messages() []kafkago.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]kafkago.Message(nil), p.msgs...)
}

type testEnv struct {
	router        *chi.Mux
	store         market.Store
	redis         *redis.Client
	mr            *miniredis.Miniredis
	created       *recordingPublisher
	statusChanged *recordingPublisher
	metrics       *Metrics
}

type envOption func(*ListingsHandler)

func newTestEnv(t *testing.T, store market.Store, opts ...envOption) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redisx.New(mr.Addr())
	t.Cleanup(func() { _ = rdb.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := market.NewService(store, 100)
	m := NewMetrics()
	r := NewRouter(log, m, svc.Ping)

	env := &testEnv{
		router:        r,
		store:         store,
		redis:         rdb,
		mr:            mr,
		created:       &recordingPublisher{},
		statusChanged: &recordingPublisher{},
		metrics:       m,
	}
	lh := &ListingsHandler{
		Service:       svc,
		Redis:         rdb,
		Created:       env.created,
		StatusChanged: env.statusChanged,
		Metrics:       m,
		Log:           log,
		ServiceName:   "market-api",
		DefaultLimit:  10,
		SeedEnabled:   true,
	}
	for _, o := range opts {
		o(lh)
	}
	lh.Register(r)

	gh := &GamesHandler{Games: NewFallbackGameProvider(svc, rdb, m, log), Redis: rdb, Log: log}
	gh.Register(r)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/seed", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    *pageMeta       `json:"meta"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func decodeData[T any](t *testing.T, resp apiResponse) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out), string(resp.Data))
	return out
}

// brokenStore fails every listing and game read like an unreachable database.
type brokenStore struct {
	*market.MemStore
}

var errDown = errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")

func storeDown(op string) error {
	return fmt.Errorf("%w: %s: %w", market.ErrStoreUnavailable, op, errDown)
}

func (brokenStore) ListListings(context.Context, market.Filter, int, int) ([]market.Listing, error) {
	return nil, storeDown("list listings")
}

func (brokenStore) CountListings(context.Context, market.Filter) (int, error) {
	return 0, storeDown("count listings")
}

func (brokenStore) ListGames(context.Context) ([]market.Game, error) {
	return nil, storeDown("list games")
}

func (brokenStore) GetGameBySlug(context.Context, string) (*market.Game, error) {
	return nil, storeDown("get game")
}

func (brokenStore) Ping(context.Context) error {
	return storeDown("ping")
}
