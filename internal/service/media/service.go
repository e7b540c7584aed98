package media

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sportmatch/backend/internal/app"
	"github.com/sportmatch/backend/internal/auth"
	"github.com/sportmatch/backend/internal/httperr"
	"github.com/sportmatch/backend/internal/repository"
)

const (
	maxPhotoBytes = 5 << 20  // 5MB
	maxVideoBytes = 50 << 20 // 50MB
)

// Service implements media uploads: profile photos and videos land in the
// upload directory under a generated unique name and the resulting public
// URL is stored on the user row.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
}

// NewMediaService creates a new media service with dependencies from AppContext.
func NewMediaService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
	}
}

func (s *Service) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, "image/", maxPhotoBytes, "photo_url")
}

func (s *Service) handleUploadVideo(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, "video/", maxVideoBytes, "video_url")
}

// handleUpload accepts a multipart "file" field, checks its content type
// against the wanted prefix and its size against the ceiling, writes it to
// disk via tmp+rename, and stores the public URL on the caller's profile.
func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request, wantPrefix string, maxBytes int64, column string) {
	userID := auth.UserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		httperr.Write(w, &httperr.Error{Status: http.StatusRequestEntityTooLarge, Code: "file_too_large_or_missing"})
		return
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		httperr.Write(w, httperr.Invalid("missing_file"))
		return
	}
	defer f.Close()

	// Sniff MIME from the first bytes; fall back to the declared type when
	// sniffing is inconclusive (common for video containers).
	head := make([]byte, 512)
	n, _ := f.Read(head)
	ctype := http.DetectContentType(head[:n])
	if ctype == "application/octet-stream" {
		ctype = header.Header.Get("Content-Type")
	}
	if !strings.HasPrefix(ctype, wantPrefix) {
		httperr.Write(w, httperr.Invalid("unsupported_media_type"))
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		httperr.Write(w, err)
		return
	}

	if err := os.MkdirAll(s.appCtx.Config.Upload.Dir, 0o755); err != nil {
		httperr.Write(w, err)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".bin"
	}
	filename := uuid.NewString() + ext
	dst := filepath.Join(s.appCtx.Config.Upload.Dir, filename)
	tmp := dst + ".tmp"

	out, err := os.Create(tmp)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	if _, err := io.Copy(out, f); err != nil {
		out.Close()
		_ = os.Remove(tmp)
		httperr.Write(w, err)
		return
	}
	out.Close()
	if err := os.Rename(tmp, dst); err != nil {
		httperr.Write(w, err)
		return
	}

	url := s.appCtx.Config.Upload.BaseURL + "/static/" + filename
	if err := s.users.UpdateFields(r.Context(), userID, map[string]any{column: url}); err != nil {
		// leave the file in place but report the failure
		s.appCtx.Logger.Error("failed to store media url", "user_id", userID, "err", err)
		httperr.Write(w, err)
		return
	}

	s.appCtx.Logger.Info("media uploaded", "user_id", userID, "file", filename, "type", ctype)
	httperr.WriteJSON(w, http.StatusCreated, map[string]string{column: url})
}
