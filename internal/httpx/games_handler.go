package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/game-account-market/internal/activity"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type GamesHandler struct {
	Games *FallbackGameProvider
	Redis *redis.Client
	Log   logrus.FieldLogger
}

func (h *GamesHandler) Register(r chi.Router) {
	r.Get("/games", h.listGames)
	r.Get("/games/{slug}", h.getGame)
	r.Get("/games/{slug}/activity", h.getActivity)
}

func (h *GamesHandler) listGames(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	games, _ := h.Games.Games(ctx)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: games})
}

func (h *GamesHandler) getGame(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	g := h.Games.GameBySlug(ctx, chi.URLParam(r, "slug"))
	if g == nil {
		writeJSON(w, http.StatusNotFound, envelope{Error: "game not found"})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: g})
}

func (h *GamesHandler) getActivity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	g := h.Games.GameBySlug(ctx, chi.URLParam(r, "slug"))
	if g == nil {
		writeJSON(w, http.StatusNotFound, envelope{Error: "game not found"})
		return
	}
	c, err := activity.Read(ctx, h.Redis, g.ID)
	if err != nil {
		h.Log.WithError(err).WithField("game_id", g.ID).Error("read activity")
		writeJSON(w, http.StatusInternalServerError, envelope{Error: "Failed to read activity"})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: c})
}
