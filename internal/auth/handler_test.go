package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/auth"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

type stubRepo struct {
	user        *auth.User
	registered  *auth.Registration
	registerErr error
	sessions    map[string]int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{sessions: map[string]int64{}}
}

func (s *stubRepo) FindByIdentity(ctx context.Context, identity string) (*auth.User, error) {
	if s.user == nil {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) Register(ctx context.Context, reg auth.Registration) (int64, error) {
	if s.registerErr != nil {
		return 0, s.registerErr
	}
	s.registered = &reg
	return 7, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	s.sessions[id] = userID
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func newAuthRouter(t *testing.T, repo auth.Repository) (chi.Router, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := auth.NewHandler(logger, auth.NewService(repo), sessionManager)

	r := chi.NewRouter()
	r.Route("/auth", handler.MountRoutes)
	return r, sessionManager
}

// serve loads a session, attaches it to the request and commits it after the
// handler runs, mirroring the session middleware.
func serve(t *testing.T, router chi.Router, sm *shared.SessionManager, req *http.Request) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	ctx := shared.ContextWithSession(req.Context(), sess)
	req = req.WithContext(ctx)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.NoError(t, sm.Commit(ctx, res, req, sess))
	return res, sess
}

func TestRegisterVendor(t *testing.T) {
	repo := newStubRepo()
	router, sm := newAuthRouter(t, repo)

	body := `{
		"name": "Ravi Chaat Corner",
		"phone_number": "9876543210",
		"password": "secret123",
		"confirm_password": "secret123",
		"user_type": "vendor",
		"location_pincode": "560041",
		"type_of_food": "chaat"
	}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, _ := serve(t, router, sm, req)

	assert.Equal(t, http.StatusCreated, res.Code)
	assert.Contains(t, res.Body.String(), `"user_id":7`)

	require.NotNil(t, repo.registered)
	assert.Equal(t, auth.RoleVendor, repo.registered.Role)
	assert.Equal(t, "560041", repo.registered.LocationPincode)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.registered.PasswordHash), []byte("secret123")))
}

func TestRegisterPasswordMismatch(t *testing.T) {
	router, sm := newAuthRouter(t, newStubRepo())

	body := `{
		"name": "Ravi Chaat Corner",
		"phone_number": "9876543210",
		"password": "secret123",
		"confirm_password": "different1",
		"user_type": "vendor",
		"location_pincode": "560041"
	}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, _ := serve(t, router, sm, req)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestRegisterDuplicateIdentity(t *testing.T) {
	repo := newStubRepo()
	repo.registerErr = auth.ErrDuplicateIdentity
	router, sm := newAuthRouter(t, repo)

	body := `{
		"name": "Ravi Chaat Corner",
		"phone_number": "9876543210",
		"password": "secret123",
		"confirm_password": "secret123",
		"user_type": "vendor",
		"location_pincode": "560041"
	}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, _ := serve(t, router, sm, req)
	assert.Equal(t, http.StatusConflict, res.Code)
}

func loginUser(t *testing.T) *auth.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &auth.User{
		ID:           1,
		PhoneNumber:  "9876543210",
		PasswordHash: string(hash),
		Role:         auth.RoleVendor,
		IsActive:     true,
	}
}

func TestLogin(t *testing.T) {
	repo := newStubRepo()
	repo.user = loginUser(t)
	router, sm := newAuthRouter(t, repo)

	body := `{"identity": "9876543210", "password": "secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, sess := serve(t, router, sm, req)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "1", sess.User())
	assert.Equal(t, int64(1), repo.sessions[sess.ID])
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newStubRepo()
	repo.user = loginUser(t)
	router, sm := newAuthRouter(t, repo)

	body := `{"identity": "9876543210", "password": "wrongpass1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, sess := serve(t, router, sm, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Empty(t, sess.User())
}

func TestLoginInactiveAccount(t *testing.T) {
	repo := newStubRepo()
	repo.user = loginUser(t)
	repo.user.IsActive = false
	router, sm := newAuthRouter(t, repo)

	body := `{"identity": "9876543210", "password": "secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, _ := serve(t, router, sm, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLogout(t *testing.T) {
	repo := newStubRepo()
	repo.user = loginUser(t)
	router, sm := newAuthRouter(t, repo)

	loginBody := `{"identity": "9876543210", "password": "secret123"}`
	loginReq := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(loginBody))
	loginReq.Header.Set("Content-Type", "application/json")
	loginRes, sess := serve(t, router, sm, loginReq)
	require.Equal(t, http.StatusOK, loginRes.Code)

	logoutReq := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	logoutReq.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: sess.ID})

	res, _ := serve(t, router, sm, logoutReq)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Empty(t, repo.sessions)
}