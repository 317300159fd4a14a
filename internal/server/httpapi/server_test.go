package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkalvans/authcore/internal/domain"
	"github.com/mkalvans/authcore/internal/logging"
	"github.com/mkalvans/authcore/internal/server/attempts"
	"github.com/mkalvans/authcore/internal/server/authflow"
	"github.com/mkalvans/authcore/internal/server/captcha"
	"github.com/mkalvans/authcore/internal/server/credentials"
	"github.com/mkalvans/authcore/internal/server/hashing"
	"github.com/mkalvans/authcore/internal/server/notify"
	"github.com/mkalvans/authcore/internal/server/revocation"
	"github.com/mkalvans/authcore/internal/server/sessions"
	"github.com/mkalvans/authcore/internal/server/twofa"
)

const (
	testEmail    = "user@example.com"
	testPassword = "Sup3r$ecret"
	cookieName   = "jwt"
)

type fixture struct {
	srv        *httptest.Server
	challenges *twofa.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hasher := hashing.NewPool(hashing.NewArgon2Hasher(hashing.Params{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}), 2)
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	challenges := twofa.NewMemoryStore(time.Minute)
	flows := authflow.New(authflow.Deps{
		Credentials: credentials.NewService(credentials.NewMemoryRepository(), hasher),
		Tokens:      sessions.NewService("test-secret"),
		Revoked:     revocation.NewMemoryStore(time.Hour),
		Attempts:    attempts.NewMemoryTracker(3, time.Hour),
		Challenges:  challenges,
		Captcha:     captcha.StaticVerifier{Allow: true},
		Notifier:    notify.NewLogSender(logger),
		Logger:      logger,
		TokenTTL:    10 * time.Minute,
	})

	srv := httptest.NewServer(NewServer(flows, logger, cookieName, 10*time.Minute).Router())
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, challenges: challenges}
}

func (f *fixture) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (f *fixture) signUp(t *testing.T, requiresTwoFA bool) {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/signup", map[string]any{
		"email":          testEmail,
		"password":       testPassword,
		"requires2FA":    requiresTwoFA,
		"recaptchaToken": "captcha-ok",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func sessionCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSignUp(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, false)

	resp := f.do(t, http.MethodPost, "/signup", map[string]any{
		"email":          testEmail,
		"password":       testPassword,
		"requires2FA":    false,
		"recaptchaToken": "captcha-ok",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "User already exists", decodeBody[map[string]string](t, resp)["error"])
}

func TestSignUp_InvalidInput(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/signup", map[string]any{
		"email":          "not-an-email",
		"password":       testPassword,
		"recaptchaToken": "captcha-ok",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogIn_SetsSessionCookie(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, false)

	resp := f.do(t, http.MethodPost, "/login", map[string]any{
		"email":    testEmail,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", decodeBody[map[string]string](t, resp)["status"])

	c := sessionCookie(resp, cookieName)
	require.NotNil(t, c, "login must set the session cookie")
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestLogIn_WrongPassword(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, false)

	resp := f.do(t, http.MethodPost, "/login", map[string]any{
		"email":    testEmail,
		"password": "Wr0ng$ecret",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Incorrect credentials", decodeBody[map[string]string](t, resp)["error"])
}

func TestLogIn_SecondFactorRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, true)

	resp := f.do(t, http.MethodPost, "/login", map[string]any{
		"email":    testEmail,
		"password": testPassword,
	})
	require.Equal(t, http.StatusPartialContent, resp.StatusCode)
	assert.Nil(t, sessionCookie(resp, cookieName), "no session cookie before the second factor")

	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "2fa_required", body["status"])
	attemptID := body["loginAttemptId"]
	require.NotEmpty(t, attemptID)

	email, err := domain.ParseEmail(testEmail)
	require.NoError(t, err)
	ch, err := f.challenges.GetCode(context.Background(), email)
	require.NoError(t, err)

	resp = f.do(t, http.MethodPost, "/verify-2fa", map[string]any{
		"email":          testEmail,
		"loginAttemptId": attemptID,
		"2FACode":        ch.Code,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, sessionCookie(resp, cookieName))
}

func TestVerifyTwoFactor_WrongCode(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, true)

	resp := f.do(t, http.MethodPost, "/login", map[string]any{
		"email":    testEmail,
		"password": testPassword,
	})
	require.Equal(t, http.StatusPartialContent, resp.StatusCode)
	attemptID := decodeBody[map[string]string](t, resp)["loginAttemptId"]

	resp = f.do(t, http.MethodPost, "/verify-2fa", map[string]any{
		"email":          testEmail,
		"loginAttemptId": attemptID,
		"2FACode":        "000000",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogIn_ChallengeEscalation(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, false)

	for i := 0; i < 3; i++ {
		resp := f.do(t, http.MethodPost, "/login", map[string]any{
			"email":    testEmail,
			"password": "Wr0ng$ecret",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp := f.do(t, http.MethodPost, "/login", map[string]any{
		"email":    testEmail,
		"password": testPassword,
	})
	assert.Equal(t, http.StatusPreconditionRequired, resp.StatusCode)
	assert.Equal(t, "recaptcha_required", decodeBody[map[string]string](t, resp)["status"])

	resp = f.do(t, http.MethodPost, "/login", map[string]any{
		"email":          testEmail,
		"password":       testPassword,
		"recaptchaToken": "captcha-ok",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestVerifyToken(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, false)

	resp := f.do(t, http.MethodPost, "/login", map[string]any{
		"email":    testEmail,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := sessionCookie(resp, cookieName).Value

	resp = f.do(t, http.MethodPost, "/verify-token", map[string]any{"token": token})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/verify-token", map[string]any{"token": "not.a.jwt"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogOut(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, false)

	resp := f.do(t, http.MethodPost, "/login", map[string]any{
		"email":    testEmail,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := sessionCookie(resp, cookieName)

	resp = f.do(t, http.MethodPost, "/logout", nil, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cleared := sessionCookie(resp, cookieName)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0, "logout must drop the cookie")

	// The token is revoked even though it has not expired.
	resp = f.do(t, http.MethodPost, "/verify-token", map[string]any{"token": session.Value})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogOut_NoCookie(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing token", decodeBody[map[string]string](t, resp)["error"])
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, false)

	resp := f.do(t, http.MethodDelete, "/delete-account", map[string]any{
		"email":    testEmail,
		"password": "Wr0ng$ecret",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.do(t, http.MethodDelete, "/delete-account", map[string]any{
		"email":    testEmail,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/login", map[string]any{
		"email":    testEmail,
		"password": testPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
