// Package inspector serves a local debug endpoint that streams every
// dispatched event to attached devtools clients over a websocket. It is a
// development aid and stays off unless enabled in config.
package inspector

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/NudgeKit/nudgekit-sdk/pkg/sdk"
)

type Server struct {
	log *zap.Logger
	bus sdk.Bus
	r   *chi.Mux
}

func New(log *zap.Logger, bus sdk.Bus) *Server {
	r := chi.NewRouter()
	// Browser-based devtools load from arbitrary local origins.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
	}))
	s := &Server{log: log, bus: bus, r: r}
	s.routes()
	return s
}

func (s *Server) Router() http.Handler { return s.r }

func (s *Server) routes() {
	s.r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	s.r.Get("/v1/events", func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			s.log.Warn("ws upgrade failed", zap.Error(err))
			return
		}

		ch, detach := s.bus.Subscribe()

		// Writer: push dispatched events to the client until it goes away.
		go func() {
			defer func() {
				detach()
				_ = conn.Close()
			}()
			for ev := range ch {
				if err := conn.WriteJSON(ev); err != nil {
					s.log.Debug("ws write error", zap.Error(err))
					return
				}
			}
		}()

		// Minimal reader to notice client close via control frames.
		conn.SetReadLimit(1024)
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				detach()
				return
			}
		}
	})
}
