package account

import (
	"net/http"

	"github.com/sportmatch/backend/internal/app"
)

// Registrar ties the account service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the account service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the account routes to the mux.
func (r *Registrar) Register(mux *http.ServeMux) {
	s := NewAccountService(r.appCtx)
	authed := r.appCtx.Tokens.Middleware

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("GET /users/me", authed(s.handleMe))
	mux.HandleFunc("PUT /users/me", authed(s.handleUpdateMe))
	mux.HandleFunc("GET /users/{id}", authed(s.handleGetUser))
}
