package http

import (
	"net/http"

	httpmw "github.com/cwrk-planet/chat-service/internal/transport/http/middleware"
	"github.com/cwrk-planet/chat-service/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *Handler, wsServer *ws.Server, clientOrigin string) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)
	r.Use(httpmw.Logging)

	allowed := []string{"*"}
	if clientOrigin != "" {
		allowed = []string{clientOrigin}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowCredentials: clientOrigin != "",
	}))

	// WS endpoint
	r.Get("/ws", wsServer.HandleWS)

	// read-only query surface
	r.Route("/api", func(ar chi.Router) {
		ar.Get("/messages", h.GetMessages)
		ar.Get("/users", h.GetUsers)
		ar.Get("/rooms", h.GetRooms)
	})

	r.Get("/", h.Root)

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
