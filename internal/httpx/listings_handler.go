package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	kafkax "github.com/ariefcatur/game-account-market/internal/kafka"
	"github.com/ariefcatur/game-account-market/internal/market"
	"github.com/ariefcatur/game-account-market/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type ListingsHandler struct {
	Service       *market.Service
	Redis         *redis.Client // optional, enables Idempotency-Key
	Created       Publisher     // optional
	StatusChanged Publisher     // optional
	CreateLimiter *RateLimiter  // optional
	Metrics       *Metrics
	Log           logrus.FieldLogger
	ServiceName   string
	DefaultLimit  int
	SeedEnabled   bool
}

func (h *ListingsHandler) Register(r chi.Router) {
	r.Get("/listings", h.listListings)
	r.Get("/listings/{id}", h.getListing)
	r.Post("/listings/{id}/sold", h.markSold)
	r.Delete("/listings/{id}", h.deleteListing)
	if h.CreateLimiter != nil {
		r.With(h.CreateLimiter.Handler).Post("/listings", h.createListing)
	} else {
		r.Post("/listings", h.createListing)
	}
	if h.SeedEnabled {
		r.Post("/seed", h.seed)
	}
}

func (h *ListingsHandler) listListings(w http.ResponseWriter, r *http.Request) {
	q, err := market.ParseListingQuery(r.URL.Query(), h.DefaultLimit)
	if err != nil {
		writeError(w, err, "Failed to fetch game accounts")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	page, err := h.Service.FetchPage(ctx, q)
	if err != nil {
		h.logErr(r, err, "fetch listings")
		writeError(w, err, "Failed to fetch game accounts")
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    page.Listings,
		Meta: &pageMeta{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

func (h *ListingsHandler) createListing(w http.ResponseWriter, r *http.Request) {
	var in market.NewListing
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Fast-path replay: the key maps to the listing created by the first request.
	idemKey := ""
	if k := strings.TrimSpace(r.Header.Get("Idempotency-Key")); k != "" && h.Redis != nil {
		idemKey = fmt.Sprintf(redisx.KeyIdemListingCreate, k)
		if id, err := h.Redis.Get(ctx, idemKey).Int64(); err == nil {
			if l, err := h.Service.GetListing(ctx, id); err == nil {
				writeJSON(w, http.StatusOK, envelope{Success: true, Data: l})
				return
			}
		}
	}

	l, err := h.Service.CreateListing(ctx, in)
	if err != nil {
		h.logErr(r, err, "create listing")
		writeError(w, err, "Failed to create game account")
		return
	}
	h.Metrics.listingsCreated.Inc()

	if idemKey != "" {
		_ = h.Redis.Set(ctx, idemKey, l.ID, redisx.TTLIdempotency).Err()
	}

	h.publish(h.Created, r, market.EventListingCreated, l.ID, market.ListingCreatedPayload{
		ListingID: l.ID,
		SellerID:  l.SellerID,
		GameID:    l.GameID,
		Price:     l.Price,
	})

	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: l})
}

func listingID(r *http.Request) (int64, error) {
	s := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: listing id %q is not a number", market.ErrInvalidArgument, s)
	}
	return id, nil
}

func (h *ListingsHandler) getListing(w http.ResponseWriter, r *http.Request) {
	id, err := listingID(r)
	if err != nil {
		writeError(w, err, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	l, err := h.Service.GetListing(ctx, id)
	if err != nil {
		h.logErr(r, err, "get listing")
		writeError(w, err, "Failed to fetch game account")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: l})
}

func (h *ListingsHandler) markSold(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, market.StatusSold)
}

func (h *ListingsHandler) deleteListing(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, market.StatusDeleted)
}

func (h *ListingsHandler) changeStatus(w http.ResponseWriter, r *http.Request, to market.Status) {
	id, err := listingID(r)
	if err != nil {
		writeError(w, err, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	before, after, err := h.Service.ChangeStatus(ctx, id, to)
	if err != nil {
		h.logErr(r, err, "change listing status")
		writeError(w, err, "Failed to update game account")
		return
	}

	h.publish(h.StatusChanged, r, market.EventListingStatusChanged, id, market.ListingStatusChangedPayload{
		ListingID: id,
		GameID:    after.GameID,
		From:      before.Status,
		To:        after.Status,
	})
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: after})
}

type seedResult struct {
	InsertedCount int     `json:"insertedCount"`
	Inserted      []int64 `json:"inserted"`
}

func (h *ListingsHandler) seed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ids, err := h.Service.Seed(ctx)
	if err != nil {
		h.logErr(r, err, "seed demo data")
		writeError(w, err, "Failed to seed demo data")
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: seedResult{InsertedCount: len(ids), Inserted: ids}})
}

func (h *ListingsHandler) publish(p Publisher, r *http.Request, eventType string, listingID int64, payload any) {
	if p == nil {
		return
	}
	ev := market.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.ServiceName,
		TraceID:       middleware.GetReqID(r.Context()),
		CorrelationID: strconv.FormatInt(listingID, 10),
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(market.PartitionKey(listingID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// logErr logs server-side failures; client mistakes are not logged.
func (h *ListingsHandler) logErr(r *http.Request, err error, op string) {
	if statusFor(err) < http.StatusInternalServerError {
		return
	}
	h.Log.WithError(err).WithField("path", r.URL.Path).Error(op)
}
