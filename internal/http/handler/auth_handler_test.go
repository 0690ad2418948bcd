package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dilkhush-raj/hrms/internal/config"
	"github.com/dilkhush-raj/hrms/internal/domain"
	httptransport "github.com/dilkhush-raj/hrms/internal/http"
	httphandler "github.com/dilkhush-raj/hrms/internal/http/handler"
	httpmiddleware "github.com/dilkhush-raj/hrms/internal/http/middleware"
	"github.com/dilkhush-raj/hrms/internal/password"
	"github.com/dilkhush-raj/hrms/internal/repository"
	"github.com/dilkhush-raj/hrms/internal/service"
	"github.com/dilkhush-raj/hrms/internal/token"
)

type stubAccountRepo struct {
	mu       sync.Mutex
	accounts map[int64]domain.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[int64]domain.Account)}
}

func (r *stubAccountRepo) GetByEmail(_ context.Context, email string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if strings.EqualFold(account.Email, email) {
			return account, nil
		}
	}
	return domain.Account{}, repository.ErrNotFound
}

func (r *stubAccountRepo) GetByID(_ context.Context, id int64) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, repository.ErrNotFound
	}
	return account, nil
}

func (r *stubAccountRepo) Create(_ context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if strings.EqualFold(existing.Email, account.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *stubAccountRepo) UpdateRole(_ context.Context, id int64, role domain.Role, profile domain.Profile) error {
	return r.update(id, func(a *domain.Account) { a.Role = role; a.Profile = profile })
}

func (r *stubAccountRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	return r.update(id, func(a *domain.Account) { a.PasswordHash = hash })
}

func (r *stubAccountRepo) SetRefreshToken(_ context.Context, id int64, refreshToken string) error {
	return r.update(id, func(a *domain.Account) { a.RefreshToken = refreshToken })
}

func (r *stubAccountRepo) ClearRefreshToken(_ context.Context, id int64) error {
	return r.update(id, func(a *domain.Account) { a.RefreshToken = "" })
}

func (r *stubAccountRepo) SetEmailVerified(_ context.Context, id int64) error {
	return r.update(id, func(a *domain.Account) { a.EmailVerified = true })
}

func (r *stubAccountRepo) DeleteByEmail(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, account := range r.accounts {
		if strings.EqualFold(account.Email, email) {
			delete(r.accounts, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubAccountRepo) update(id int64, fn func(*domain.Account)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&account)
	r.accounts[id] = account
	return nil
}

type stubOTPStore struct {
	mu    sync.Mutex
	codes map[string]string
}

func newStubOTPStore() *stubOTPStore {
	return &stubOTPStore{codes: make(map[string]string)}
}

func (s *stubOTPStore) SaveCode(_ context.Context, email, code string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = code
	return nil
}

func (s *stubOTPStore) GetCode(_ context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[email], nil
}

func (s *stubOTPStore) DeleteCode(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	return nil
}

type silentMailer struct{}

func (silentMailer) Send(context.Context, string, string, string) error { return nil }

type testServer struct {
	router *gin.Engine
	repo   *stubAccountRepo
	otp    *stubOTPStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg := config.Config{
		AccessTokenTTL:   time.Minute,
		HRAccessTokenTTL: 2 * time.Hour,
		RefreshTokenTTL:  time.Hour,
		OTPTTL:           5 * time.Minute,
		ServiceName:      "hrms-auth-test",
	}

	repo := newStubAccountRepo()
	otp := newStubOTPStore()
	issuer := token.NewIssuer("test-access-secret-0123456789abcdef", "test-refresh-secret-0123456789abcdef", cfg.AccessTokenTTL, cfg.HRAccessTokenTTL, cfg.RefreshTokenTTL)
	svc := service.NewAccountService(repo, otp, silentMailer{}, password.NewHasher(password.Default()), issuer, node, cfg, zap.NewNop())

	router := httptransport.NewRouter(
		cfg,
		httphandler.NewAuthHandler(svc, cfg),
		httphandler.NewVerifyHandler(svc),
		&httpmiddleware.Auth{Issuer: issuer},
		nil,
	)
	return &testServer{router: router, repo: repo, otp: otp}
}

func (ts *testServer) do(t *testing.T, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestPing(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/ping", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "pong", decodeBody(t, w)["message"])
}

func TestRegisterEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/auth/register", `{"name":"Jess","email":"jess@example.com","password":"pass1234"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "User registered successfully", decodeBody(t, w)["message"])

	w = ts.do(t, http.MethodPost, "/auth/register", `{"name":"Jess","email":"jess@example.com","password":"pass1234"}`, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "User already exists", decodeBody(t, w)["error"])

	w = ts.do(t, http.MethodPost, "/auth/register", `{"name":"Jess","email":"bad-email","password":"pass1234"}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginSetsSessionCookies(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/auth/register", `{"name":"Jess","email":"jess@example.com","password":"pass1234"}`, nil)

	w := ts.do(t, http.MethodPost, "/auth/login", `{"email":"jess@example.com","password":"pass1234"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "success", body["status"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "jess@example.com", user["email"])

	cookies := w.Result().Cookies()
	access := cookieByName(cookies, httpmiddleware.AccessCookie)
	refresh := cookieByName(cookies, httpmiddleware.RefreshCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	require.True(t, access.HttpOnly)
	require.True(t, refresh.HttpOnly)
	require.NotEmpty(t, access.Value)
	require.NotEmpty(t, refresh.Value)
}

func TestAccessCookieMaxAgeFollowsRole(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/auth/register", `{"name":"Cand","email":"cand@example.com","password":"pass1234"}`, nil)
	ts.do(t, http.MethodPost, "/auth/register", `{"name":"Head","email":"head@example.com","password":"pass1234"}`, nil)

	hrAccount, err := ts.repo.GetByEmail(context.Background(), "head@example.com")
	require.NoError(t, err)
	require.NoError(t, ts.repo.UpdateRole(context.Background(), hrAccount.ID, domain.RoleHR, domain.DefaultProfile(domain.RoleHR)))

	// Default window for a candidate.
	candCookies := loginCookies(t, ts, "cand@example.com", "pass1234")
	candAccess := cookieByName(candCookies, httpmiddleware.AccessCookie)
	require.NotNil(t, candAccess)
	require.Equal(t, 60, candAccess.MaxAge)

	// HR override for an hr session; the cookie must outlive the default
	// window just like the token does.
	hrCookies := loginCookies(t, ts, "head@example.com", "pass1234")
	hrAccess := cookieByName(hrCookies, httpmiddleware.AccessCookie)
	require.NotNil(t, hrAccess)
	require.Equal(t, int((2 * time.Hour).Seconds()), hrAccess.MaxAge)

	// Refresh re-mints the access cookie with the same role-aware lifetime.
	w := ts.do(t, http.MethodPost, "/auth/refresh", "", hrCookies)
	require.Equal(t, http.StatusOK, w.Code)
	refreshed := cookieByName(w.Result().Cookies(), httpmiddleware.AccessCookie)
	require.NotNil(t, refreshed)
	require.Equal(t, int((2 * time.Hour).Seconds()), refreshed.MaxAge)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/auth/register", `{"name":"Jess","email":"jess@example.com","password":"pass1234"}`, nil)

	w := ts.do(t, http.MethodPost, "/auth/login", `{"email":"jess@example.com","password":"nope12345"}`, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Invalid email or password", decodeBody(t, w)["error"])
}

func loginCookies(t *testing.T, ts *testServer, email, pass string) []*http.Cookie {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/auth/login", `{"email":"`+email+`","password":"`+pass+`"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Result().Cookies()
}

func TestCheckAuthRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/auth/check-auth", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckAuthWithCookie(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/auth/register", `{"name":"Jess","email":"jess@example.com","password":"pass1234"}`, nil)
	cookies := loginCookies(t, ts, "jess@example.com", "pass1234")

	w := ts.do(t, http.MethodGet, "/auth/check-auth", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "jess@example.com", user["email"])
}

func TestCheckAuthWithBearerHeader(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/auth/register", `{"name":"Jess","email":"jess@example.com","password":"pass1234"}`, nil)
	cookies := loginCookies(t, ts, "jess@example.com", "pass1234")
	access := cookieByName(cookies, httpmiddleware.AccessCookie)
	require.NotNil(t, access)

	req := httptest.NewRequest(http.MethodGet, "/auth/check-auth", nil)
	req.Header.Set("Authorization", "Bearer "+access.Value)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, decodeBody(t, w)["success"])
}

func TestRefreshEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/auth/register", `{"name":"Jess","email":"jess@example.com","password":"pass1234"}`, nil)
	cookies := loginCookies(t, ts, "jess@example.com", "pass1234")

	w := ts.do(t, http.MethodPost, "/auth/refresh", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, cookieByName(w.Result().Cookies(), httpmiddleware.AccessCookie))

	w = ts.do(t, http.MethodPost, "/auth/refresh", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutInvalidatesRefresh(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/auth/register", `{"name":"Jess","email":"jess@example.com","password":"pass1234"}`, nil)
	cookies := loginCookies(t, ts, "jess@example.com", "pass1234")

	w := ts.do(t, http.MethodPost, "/auth/logout", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)

	for _, cookie := range w.Result().Cookies() {
		require.Empty(t, cookie.Value)
	}

	w = ts.do(t, http.MethodPost, "/auth/refresh", "", cookies)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateRoleEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/auth/register", `{"name":"Boss","email":"boss@example.com","password":"pass1234"}`, nil)
	ts.do(t, http.MethodPost, "/auth/register", `{"name":"Cand","email":"cand@example.com","password":"pass1234"}`, nil)

	// A freshly registered caller is a candidate, so the policy denies it.
	cookies := loginCookies(t, ts, "boss@example.com", "pass1234")
	w := ts.do(t, http.MethodPost, "/auth/update-role", `{"email":"cand@example.com","newRole":"employee"}`, cookies)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "You are not authorized to update user roles", decodeBody(t, w)["error"])
}

func TestChangePasswordEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/auth/register", `{"name":"Jess","email":"jess@example.com","password":"pass1234"}`, nil)
	cookies := loginCookies(t, ts, "jess@example.com", "pass1234")

	w := ts.do(t, http.MethodPost, "/auth/change-password", `{"password":"newpass99"}`, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/auth/login", `{"email":"jess@example.com","password":"pass1234"}`, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/auth/login", `{"email":"jess@example.com","password":"newpass99"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/auth/register", `{"name":"Jess","email":"jess@example.com","password":"pass1234"}`, nil)
	cookies := loginCookies(t, ts, "jess@example.com", "pass1234")

	w := ts.do(t, http.MethodPost, "/auth/delete", `{"email":"jess@example.com"}`, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/auth/login", `{"email":"jess@example.com","password":"pass1234"}`, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/auth/register", `{"name":"Jess","email":"jess@example.com","password":"pass1234"}`, nil)

	w := ts.do(t, http.MethodPost, "/verify/send", `{"email":"jess@example.com"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	code, err := ts.otp.GetCode(context.Background(), "jess@example.com")
	require.NoError(t, err)
	require.Len(t, code, 6)

	w = ts.do(t, http.MethodPost, "/verify/otp", `{"email":"jess@example.com","otp":"`+code+`"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Email verified successfully", decodeBody(t, w)["message"])

	w = ts.do(t, http.MethodPost, "/verify/send", `{"email":"ghost@example.com"}`, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
