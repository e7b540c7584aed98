package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sportmatch/backend/internal/config"
	"github.com/sportmatch/backend/internal/httperr"
)

// Start boots the HTTP server and registers all provided services.
func Start(cfg *config.Config, registrars ...Registrar) error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httperr.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// register all services
	for _, r := range registrars {
		r.Register(mux)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           withCORS(cfg.CORS.Origins, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
