// Package captcha verifies human-verification challenge tokens. The live
// implementation talks to Google's siteverify endpoint; a static verifier
// serves tests and deployments without a captcha provider.
package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mkalvans/authcore/internal/domain"
)

// ErrVerificationFailed means the provider rejected the token. It is a
// validation-class failure, distinct from transport errors.
var ErrVerificationFailed = fmt.Errorf("%w: captcha verification failed", domain.ErrValidation)

// Verifier checks a challenge token supplied by a caller. remoteIP is
// optional and forwarded to the provider when present.
type Verifier interface {
	Verify(ctx context.Context, token string, remoteIP string) error
}

// DefaultEndpoint is Google's token verification endpoint.
const DefaultEndpoint = "https://www.google.com/recaptcha/api/siteverify"

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// GoogleVerifier verifies tokens against the reCAPTCHA siteverify API.
type GoogleVerifier struct {
	secret   domain.Secret
	endpoint string
	client   *http.Client
}

// NewGoogleVerifier builds a verifier using DefaultEndpoint.
func NewGoogleVerifier(secret domain.Secret) *GoogleVerifier {
	return NewGoogleVerifierWithEndpoint(secret, DefaultEndpoint)
}

// NewGoogleVerifierWithEndpoint allows overriding the endpoint, used by
// tests to point at a local server.
func NewGoogleVerifierWithEndpoint(secret domain.Secret, endpoint string) *GoogleVerifier {
	return &GoogleVerifier{
		secret:   secret,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string, remoteIP string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: empty captcha token", domain.ErrValidation)
	}

	form := url.Values{}
	form.Set("secret", v.secret.Expose())
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.Unexpected(fmt.Errorf("build siteverify request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return domain.Unexpected(fmt.Errorf("siteverify request failed: %w", err))
	}
	defer resp.Body.Close()

	var sr siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return domain.Unexpected(fmt.Errorf("decode siteverify response: %w", err))
	}
	if sr.Success {
		return nil
	}
	for _, code := range sr.ErrorCodes {
		if code == "invalid-input-secret" {
			return domain.Unexpected(errors.New("captcha secret rejected by provider"))
		}
	}
	return ErrVerificationFailed
}

var _ Verifier = (*GoogleVerifier)(nil)

// StaticVerifier accepts or rejects every non-empty token. Used in tests
// and in configurations without a captcha provider.
type StaticVerifier struct {
	Allow bool
}

func (v StaticVerifier) Verify(ctx context.Context, token string, remoteIP string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: empty captcha token", domain.ErrValidation)
	}
	if !v.Allow {
		return ErrVerificationFailed
	}
	return nil
}

var _ Verifier = StaticVerifier{}
