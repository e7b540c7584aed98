package media

import (
	"net/http"

	"github.com/sportmatch/backend/internal/app"
)

// Registrar ties the media service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the media service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches upload routes and static file serving to the mux.
func (r *Registrar) Register(mux *http.ServeMux) {
	s := NewMediaService(r.appCtx)
	authed := r.appCtx.Tokens.Middleware

	mux.HandleFunc("POST /media/photo", authed(s.handleUploadPhoto))
	mux.HandleFunc("POST /media/video", authed(s.handleUploadVideo))
	mux.Handle("GET /static/", http.StripPrefix("/static/",
		http.FileServer(http.Dir(r.appCtx.Config.Upload.Dir))))
}
