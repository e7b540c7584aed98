package account

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sportmatch/backend/internal/app"
	"github.com/sportmatch/backend/internal/auth"
	"github.com/sportmatch/backend/internal/db"
	"github.com/sportmatch/backend/internal/httperr"
	"github.com/sportmatch/backend/internal/matching"
	"github.com/sportmatch/backend/internal/repository"
)

// Service implements the account endpoints: registration, login, own-profile
// read/update and public profile lookup.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
}

// NewAccountService creates a new account service with dependencies from AppContext.
func NewAccountService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
	}
}

// userResponse is the owner's view of a profile. PasswordHash never leaves
// the server.
type userResponse struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	Age       int       `json:"age,omitempty"`
	Location  string    `json:"location,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Sports    string    `json:"sports,omitempty"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	VideoURL  string    `json:"video_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// publicUserResponse is what other users see: no email.
type publicUserResponse struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Age      int    `json:"age,omitempty"`
	Location string `json:"location,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Sports   string `json:"sports,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
	VideoURL string `json:"video_url,omitempty"`
}

func toUserResponse(u *db.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		Location:  u.Location,
		Bio:       u.Bio,
		Sports:    u.Sports,
		PhotoURL:  u.PhotoURL,
		VideoURL:  u.VideoURL,
		CreatedAt: u.CreatedAt,
	}
}

func toPublicUserResponse(u *db.User) publicUserResponse {
	return publicUserResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Age:      u.Age,
		Location: u.Location,
		Bio:      u.Bio,
		Sports:   u.Sports,
		PhotoURL: u.PhotoURL,
		VideoURL: u.VideoURL,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
	Sports   string `json:"sports"`
}

// handleRegister creates a new user and logs them in.
//
// Behavior:
//   - Requires username, email and password.
//   - Taken username/email → 409.
//   - Sports input is normalized to the canonical JSON encoding; whatever
//     cannot be parsed is stored as the empty set.
//   - Responds 201 with a bearer token and the created profile.
func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, httperr.Invalid("invalid_json"))
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		httperr.Write(w, httperr.Invalid("missing_fields"))
		return
	}
	if !strings.Contains(req.Email, "@") {
		httperr.Write(w, httperr.Invalid("invalid_email"))
		return
	}
	if req.Age < 0 {
		httperr.Write(w, httperr.Invalid("invalid_age"))
		return
	}

	ctx := r.Context()
	taken, err := s.users.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		s.appCtx.Logger.Error("register: uniqueness check failed", "err", err)
		httperr.Write(w, err)
		return
	}
	if taken {
		httperr.Write(w, httperr.Conflict("username_or_email_taken"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	user := db.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Age:          req.Age,
		Location:     strings.TrimSpace(req.Location),
		Bio:          req.Bio,
		Sports:       matching.EncodeSports(matching.ParseSports(req.Sports)),
		Active:       true,
		LastLoginAt:  time.Now(),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		s.appCtx.Logger.Error("register: create failed", "err", err)
		httperr.Write(w, err)
		return
	}

	token, err := s.appCtx.Tokens.Issue(user.ID)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	s.appCtx.Logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	httperr.WriteJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user":  toUserResponse(&user),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin verifies credentials and issues a bearer token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, httperr.Invalid("invalid_json"))
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httperr.Write(w, httperr.Invalid("missing_fields"))
		return
	}

	ctx := r.Context()
	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Write(w, httperr.Unauthorized("invalid_credentials"))
		return
	} else if err != nil {
		httperr.Write(w, err)
		return
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		httperr.Write(w, httperr.Unauthorized("invalid_credentials"))
		return
	}

	if err := s.users.UpdateFields(ctx, user.ID, map[string]any{"last_login_at": time.Now()}); err != nil {
		s.appCtx.Logger.Warn("login: failed to update last_login_at", "user_id", user.ID, "err", err)
	}

	token, err := s.appCtx.Tokens.Issue(user.ID)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	httperr.WriteJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserResponse(user),
	})
}

// handleMe returns the authenticated user's own profile.
func (s *Service) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.FindByID(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		httperr.Write(w, err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// updateRequest carries optional fields for a partial profile update.
// Only fields present in the request body are applied.
type updateRequest struct {
	Username *string `json:"username"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Age      *int    `json:"age"`
	Location *string `json:"location"`
	Bio      *string `json:"bio"`
	Sports   *string `json:"sports"`
}

// handleUpdateMe merges the provided fields onto the caller's profile.
func (s *Service) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, httperr.Invalid("invalid_json"))
		return
	}

	fields := map[string]any{}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			httperr.Write(w, httperr.Invalid("invalid_username"))
			return
		}
		fields["username"] = username
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if !strings.Contains(email, "@") {
			httperr.Write(w, httperr.Invalid("invalid_email"))
			return
		}
		fields["email"] = email
	}
	if req.Age != nil {
		if *req.Age < 0 {
			httperr.Write(w, httperr.Invalid("invalid_age"))
			return
		}
		fields["age"] = *req.Age
	}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		fields["location"] = strings.TrimSpace(*req.Location)
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Sports != nil {
		fields["sports"] = matching.EncodeSports(matching.ParseSports(*req.Sports))
	}

	ctx := r.Context()
	userID := auth.UserID(ctx)
	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		s.appCtx.Logger.Error("update profile failed", "user_id", userID, "err", err)
		httperr.Write(w, err)
		return
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// handleGetUser returns another user's public profile.
// Absent or deactivated users both yield 404.
func (s *Service) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		httperr.Write(w, httperr.Invalid("invalid_user_id"))
		return
	}

	user, err := s.users.FindByID(r.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Write(w, httperr.NotFound("user_not_found"))
		return
	} else if err != nil {
		httperr.Write(w, err)
		return
	}
	if !user.Active {
		httperr.Write(w, httperr.NotFound("user_not_found"))
		return
	}
	httperr.WriteJSON(w, http.StatusOK, toPublicUserResponse(user))
}
