package account_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sportmatch/backend/internal/app"
	"github.com/sportmatch/backend/internal/auth"
	"github.com/sportmatch/backend/internal/config"
	"github.com/sportmatch/backend/internal/db"
	"github.com/sportmatch/backend/internal/service/account"
)

func setupMux(t *testing.T) (*http.ServeMux, *app.AppContext) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbase.AutoMigrate(&db.User{}, &db.Like{}, &db.Match{}))

	cfg := config.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(cfg, dbase, nil, auth.NewManager(cfg), logger)

	mux := http.NewServeMux()
	account.NewRegistrar(appCtx).Register(mux)
	return mux, appCtx
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeAuth(t *testing.T, rec *httptest.ResponseRecorder) (token string, userID uint64) {
	t.Helper()
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID uint64 `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

const registerBody = `{
	"username": "ana",
	"name": "Ana",
	"email": "ana@example.com",
	"password": "secret123",
	"age": 27,
	"location": "Palermo",
	"sports": "Football (Intermediate), Tennis"
}`

func TestRegisterLoginFlow(t *testing.T) {
	mux, _ := setupMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token, userID := decodeAuth(t, rec)
	require.NotEmpty(t, token)
	require.NotZero(t, userID)

	// sports were normalized to the canonical encoding
	assert.Contains(t, rec.Body.String(), `[{\"sport\":\"Football\",\"level\":\"Intermediate\"},{\"sport\":\"Tennis\",\"level\":\"Beginner\"}]`)

	rec = doJSON(t, mux, http.MethodPost, "/auth/login", "", `{"email":"ana@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	loginToken, _ := decodeAuth(t, rec)
	assert.NotEmpty(t, loginToken)

	rec = doJSON(t, mux, http.MethodGet, "/users/me", loginToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"ana"`)
	// password hash never leaves the server
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterValidation(t *testing.T) {
	mux, _ := setupMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/register", "", `{"username":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/auth/register", "", `{"username":"x","email":"not-an-email","password":"p"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	mux, _ := setupMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/auth/register", "", registerBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginBadCredentials(t *testing.T) {
	mux, _ := setupMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/auth/login", "", `{"email":"ana@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/auth/login", "", `{"email":"nobody@example.com","password":"secret123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPartialProfileUpdate(t *testing.T) {
	mux, appCtx := setupMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	token, userID := decodeAuth(t, rec)

	rec = doJSON(t, mux, http.MethodPut, "/users/me", token, `{"bio":"weekend footballer","age":28}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var user db.User
	require.NoError(t, appCtx.DB.First(&user, userID).Error)
	assert.Equal(t, "weekend footballer", user.Bio)
	assert.Equal(t, 28, user.Age)
	// untouched fields keep their values
	assert.Equal(t, "ana", user.Username)
	assert.Equal(t, "Palermo", user.Location)
}

func TestGetUserPublicView(t *testing.T) {
	mux, appCtx := setupMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	token, _ := decodeAuth(t, rec)

	other := db.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x", Active: true}
	require.NoError(t, appCtx.DB.Create(&other).Error)

	rec = doJSON(t, mux, http.MethodGet, fmt.Sprintf("/users/%d", other.ID), token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"bob"`)
	assert.NotContains(t, rec.Body.String(), "bob@example.com")

	rec = doJSON(t, mux, http.MethodGet, "/users/9999", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// deactivated users are hidden
	require.NoError(t, appCtx.DB.Model(&db.User{}).Where("id = ?", other.ID).Update("active", false).Error)
	rec = doJSON(t, mux, http.MethodGet, fmt.Sprintf("/users/%d", other.ID), token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
