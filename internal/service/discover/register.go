package discover

import (
	"net/http"

	"github.com/sportmatch/backend/internal/app"
)

// Registrar ties the discover service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the discover service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the discover routes to the mux. Everything here requires
// authentication.
func (r *Registrar) Register(mux *http.ServeMux) {
	s := NewDiscoverService(r.appCtx)
	authed := r.appCtx.Tokens.Middleware

	mux.HandleFunc("GET /discover", authed(s.handleCandidates))
	mux.HandleFunc("POST /discover/{id}/like", authed(s.handleLike))
	mux.HandleFunc("POST /discover/{id}/pass", authed(s.handlePass))
	mux.HandleFunc("GET /discover/liked-you", authed(s.handleLikedYou))
	mux.HandleFunc("GET /discover/liked-you/count", authed(s.handleLikedYouCount))
	mux.HandleFunc("GET /matches", authed(s.handleMatches))
}
