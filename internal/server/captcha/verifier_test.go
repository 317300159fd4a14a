package captcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkalvans/authcore/internal/domain"
)

func newSiteverifyServer(t *testing.T, handler func(r *http.Request) siteverifyResponse) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		resp := handler(r)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleVerifier_Success(t *testing.T) {
	var gotSecret, gotResponse, gotRemoteIP string
	srv := newSiteverifyServer(t, func(r *http.Request) siteverifyResponse {
		gotSecret = r.PostFormValue("secret")
		gotResponse = r.PostFormValue("response")
		gotRemoteIP = r.PostFormValue("remoteip")
		return siteverifyResponse{Success: true}
	})

	v := NewGoogleVerifierWithEndpoint(domain.NewSecret("shhh"), srv.URL)
	err := v.Verify(context.Background(), "tok-1", "203.0.113.9")

	require.NoError(t, err)
	assert.Equal(t, "shhh", gotSecret)
	assert.Equal(t, "tok-1", gotResponse)
	assert.Equal(t, "203.0.113.9", gotRemoteIP)
}

func TestGoogleVerifier_RejectedToken(t *testing.T) {
	srv := newSiteverifyServer(t, func(r *http.Request) siteverifyResponse {
		return siteverifyResponse{Success: false, ErrorCodes: []string{"invalid-input-response"}}
	})

	v := NewGoogleVerifierWithEndpoint(domain.NewSecret("shhh"), srv.URL)
	err := v.Verify(context.Background(), "bad-token", "")

	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGoogleVerifier_BadSecretIsUnexpected(t *testing.T) {
	srv := newSiteverifyServer(t, func(r *http.Request) siteverifyResponse {
		return siteverifyResponse{Success: false, ErrorCodes: []string{"invalid-input-secret"}}
	})

	v := NewGoogleVerifierWithEndpoint(domain.NewSecret("wrong"), srv.URL)
	err := v.Verify(context.Background(), "tok-1", "")

	assert.ErrorIs(t, err, domain.ErrUnexpected)
	assert.NotErrorIs(t, err, domain.ErrValidation)
}

func TestGoogleVerifier_EmptyTokenNeverLeavesProcess(t *testing.T) {
	called := false
	srv := newSiteverifyServer(t, func(r *http.Request) siteverifyResponse {
		called = true
		return siteverifyResponse{Success: true}
	})

	v := NewGoogleVerifierWithEndpoint(domain.NewSecret("shhh"), srv.URL)
	err := v.Verify(context.Background(), "   ", "")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, called)
}

func TestGoogleVerifier_ProviderDown(t *testing.T) {
	srv := newSiteverifyServer(t, func(r *http.Request) siteverifyResponse {
		return siteverifyResponse{Success: true}
	})
	srv.Close()

	v := NewGoogleVerifierWithEndpoint(domain.NewSecret("shhh"), srv.URL)
	err := v.Verify(context.Background(), "tok-1", "")

	assert.ErrorIs(t, err, domain.ErrUnexpected)
}

func TestStaticVerifier(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, StaticVerifier{Allow: true}.Verify(ctx, "tok", ""))
	assert.ErrorIs(t, StaticVerifier{Allow: false}.Verify(ctx, "tok", ""), ErrVerificationFailed)
	assert.ErrorIs(t, StaticVerifier{Allow: true}.Verify(ctx, "", ""), domain.ErrValidation)
}
