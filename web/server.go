// Package web serves the counter screen to browsers: the page itself, a small
// REST api for the buttons and a websocket pushing every state change.
package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/1gm/counter"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// Controller applies button presses, see binder.Binder.
type Controller interface {
	State(ctx context.Context) (counter.State, error)
	Increment(ctx context.Context) (counter.State, error)
	Decrement(ctx context.Context) (counter.State, error)
	Set(ctx context.Context, v int) (counter.State, error)
}

// NewRouter returns the http.Handler for the page, the api and the websocket.
// Websockets are closed once bgContext is done.
func NewRouter(bgContext context.Context, log *zap.SugaredLogger, hub *Hub, ctl Controller) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ws", hub.ServeWS(bgContext))

	r.Get("/api/counter", handleState(log, ctl.State))
	r.Put("/api/counter", handleSet(log, ctl))
	r.Post("/api/counter/increment", handleState(log, ctl.Increment))
	r.Post("/api/counter/decrement", handleState(log, ctl.Decrement))

	r.With(noCache).Get("/*", handleAsset(log))
	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func handleState(log *zap.SugaredLogger, fn func(context.Context) (counter.State, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := fn(r.Context())
		if err != nil {
			renderError(w, r, log, err)
			return
		}
		render.JSON(w, r, newStateMessage(s))
	}
}

type setRequest struct {
	Value *int `json:"value"`
}

func handleSet(log *zap.SugaredLogger, ctl Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, errorResponse{Error: "invalid body: " + err.Error()})
			return
		} else if req.Value == nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, errorResponse{Error: "value is required"})
			return
		}

		s, err := ctl.Set(r.Context(), *req.Value)
		if err != nil {
			renderError(w, r, log, err)
			return
		}
		render.JSON(w, r, newStateMessage(s))
	}
}

func renderError(w http.ResponseWriter, r *http.Request, log *zap.SugaredLogger, err error) {
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		// client went away
		return
	}
	log.Warnf("%s %s: %v", r.Method, r.URL.Path, err)
	render.Status(r, http.StatusServiceUnavailable)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}

func handleAsset(log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if p == "/" {
			p = "index.html"
		}

		body, contentType, err := ReadAsset(p)
		if err == nil {
			w.Header().Set("Content-Type", contentType)
			_, _ = io.Copy(w, body)
			return
		}
		log.Debugf("read asset at %s: %v", r.URL.Path, err)

		http.Error(w, "not found", http.StatusNotFound)
	}
}

func noCache(next http.Handler) http.Handler {
	epoch := time.Unix(0, 0).UTC().Format(http.TimeFormat)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, v := range []string{"ETag", "If-Modified-Since", "If-Match", "If-None-Match", "If-Range", "If-Unmodified-Since"} {
			r.Header.Del(v)
		}

		w.Header().Set("Expires", epoch)
		w.Header().Set("Cache-Control", "no-cache, no-store, private, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		next.ServeHTTP(w, r)
	})
}
