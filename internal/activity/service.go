// Package activity keeps per-game listing counters fed by the listing event topics.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	kafkax "github.com/ariefcatur/game-account-market/internal/kafka"
	"github.com/ariefcatur/game-account-market/internal/market"
	"github.com/ariefcatur/game-account-market/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Counters struct {
	Created int64 `json:"created"`
	Sold    int64 `json:"sold"`
	Deleted int64 `json:"deleted"`
}

type Service struct {
	Redis       *redis.Client
	ServiceName string
	Log         logrus.FieldLogger
}

// HandleListingEvent is the consumer handler for both listing topics.
// Malformed messages are logged and acknowledged; Redis failures are returned and the consumer retries the message.
func (s *Service) HandleListingEvent(ctx context.Context, m kafkago.Message) error {
	var env market.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		s.Log.WithError(err).WithField("offset", m.Offset).Warn("skipping undecodable envelope")
		return nil
	}

	var (
		gameID int64
		field  string
	)
	switch env.EventType {
	case market.EventListingCreated:
		p, err := kafkax.UnwrapPayload[market.ListingCreatedPayload](env.Payload)
		if err != nil {
			s.Log.WithError(err).WithField("event_id", env.EventID).Warn("skipping bad payload")
			return nil
		}
		gameID, field = p.GameID, "created"
	case market.EventListingStatusChanged:
		p, err := kafkax.UnwrapPayload[market.ListingStatusChangedPayload](env.Payload)
		if err != nil {
			s.Log.WithError(err).WithField("event_id", env.EventID).Warn("skipping bad payload")
			return nil
		}
		if p.To != market.StatusSold && p.To != market.StatusDeleted {
			return nil
		}
		gameID, field = p.GameID, string(p.To)
	default:
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	first, err := s.Redis.SetNX(ctx, dkey, "1", redisx.TTLDedup).Result()
	if err != nil {
		return err
	}
	if !first {
		return nil
	}
	if err := s.Redis.HIncrBy(ctx, fmt.Sprintf(redisx.KeyGameActivity, gameID), field, 1).Err(); err != nil {
		_ = s.Redis.Del(ctx, dkey).Err()
		return err
	}
	s.Log.WithFields(logrus.Fields{"event_id": env.EventID, "game_id": gameID, "field": field}).Debug("activity counted")
	return nil
}

// Read returns the counters for one game; a game with no events reads as zeros.
func Read(ctx context.Context, rdb *redis.Client, gameID int64) (Counters, error) {
	h, err := rdb.HGetAll(ctx, fmt.Sprintf(redisx.KeyGameActivity, gameID)).Result()
	if err != nil {
		return Counters{}, err
	}
	var c Counters
	for field, dst := range map[string]*int64{"created": &c.Created, "sold": &c.Sold, "deleted": &c.Deleted} {
		if v, ok := h[field]; ok {
			if *dst, err = strconv.ParseInt(v, 10, 64); err != nil {
				return Counters{}, fmt.Errorf("activity %s: %w", field, err)
			}
		}
	}
	return c, nil
}
