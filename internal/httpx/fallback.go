package httpx

import (
	"context"

	"github.com/ariefcatur/game-account-market/internal/market"
	"github.com/ariefcatur/game-account-market/internal/redisx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type GameSource interface {
	ListGames(ctx context.Context) ([]market.Game, error)
	GameBySlug(ctx context.Context, slug string) (*market.Game, error)
}

// FallbackGameProvider serves the game catalogue and never fails: store errors and an empty
// catalogue are answered from Fallback. Non-empty store results are cached in Redis when Cache is set.
type FallbackGameProvider struct {
	Source   GameSource
	Cache    *redis.Client
	Fallback []market.Game
	Metrics  *Metrics
	Log      logrus.FieldLogger
}

func NewFallbackGameProvider(src GameSource, cache *redis.Client, m *Metrics, log logrus.FieldLogger) *FallbackGameProvider {
	return &FallbackGameProvider{
		Source:   src,
		Cache:    cache,
		Fallback: market.ReferenceGames(),
		Metrics:  m,
		Log:      log,
	}
}

// Games reports whether the answer came from the fallback list.
func (p *FallbackGameProvider) Games(ctx context.Context) (games []market.Game, fallback bool) {
	if p.Cache != nil {
		var cached []market.Game
		ok, err := redisx.GetJSON(ctx, p.Cache, redisx.KeyGamesAll, &cached)
		if err != nil {
			p.Log.WithError(err).Debug("games cache read failed")
		}
		if ok && len(cached) > 0 {
			return cached, false
		}
	}

	games, err := p.Source.ListGames(ctx)
	switch {
	case err != nil:
		p.Log.WithError(err).Warn("game catalogue unavailable, serving fallback list")
		p.countFallback("store_error")
		return p.fallback(), true
	case len(games) == 0:
		p.countFallback("empty")
		return p.fallback(), true
	}

	if p.Cache != nil {
		if err := redisx.SetJSON(ctx, p.Cache, redisx.KeyGamesAll, games, redisx.TTLGamesCache); err != nil {
			p.Log.WithError(err).Debug("games cache write failed")
		}
	}
	return games, false
}

// GameBySlug resolves against the store and, only when the store errors, against the fallback list.
func (p *FallbackGameProvider) GameBySlug(ctx context.Context, slug string) *market.Game {
	g, err := p.Source.GameBySlug(ctx, slug)
	if err == nil {
		return g
	}
	p.Log.WithError(err).WithField("slug", slug).Warn("game lookup failed, using fallback list")
	p.countFallback("store_error")
	for _, fg := range p.fallback() {
		if fg.Slug == slug {
			return &fg
		}
	}
	return nil
}

func (p *FallbackGameProvider) fallback() []market.Game {
	return append([]market.Game(nil), p.Fallback...)
}

func (p *FallbackGameProvider) countFallback(reason string) {
	if p.Metrics != nil {
		p.Metrics.gamesFallback.WithLabelValues(reason).Inc()
	}
}
