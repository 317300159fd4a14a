// Package authflow coordinates the credential store, session tokens,
// revocation list, attempt tracker, second-factor challenges and captcha
// verification into the authentication flows. It owns the ordering rules;
// the stores stay policy-free.
package authflow

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/mkalvans/authcore/internal/domain"
	"github.com/mkalvans/authcore/internal/logging"
	"github.com/mkalvans/authcore/internal/server/attempts"
	"github.com/mkalvans/authcore/internal/server/captcha"
	"github.com/mkalvans/authcore/internal/server/credentials"
	"github.com/mkalvans/authcore/internal/server/notify"
	"github.com/mkalvans/authcore/internal/server/revocation"
	"github.com/mkalvans/authcore/internal/server/sessions"
	"github.com/mkalvans/authcore/internal/server/twofa"
)

// LoginStatus discriminates the three non-error outcomes of LogIn.
type LoginStatus int

const (
	// StatusAuthenticated means credentials were accepted and Token holds a
	// fresh session token.
	StatusAuthenticated LoginStatus = iota

	// StatusChallengeRequired means the identity has accumulated enough
	// failures that a captcha token must accompany the next submission.
	// Credentials were not checked.
	StatusChallengeRequired

	// StatusPendingSecondFactor means credentials were accepted but the
	// account requires a second factor; AttemptID identifies the issued
	// challenge.
	StatusPendingSecondFactor
)

// LoginResult is the outcome of a LogIn call that did not fail outright.
type LoginResult struct {
	Status    LoginStatus
	Token     string
	AttemptID string
}

// Deps are the collaborators an Orchestrator is built from. All fields are
// required.
type Deps struct {
	Credentials *credentials.Service
	Tokens      *sessions.Service
	Revoked     revocation.Store
	Attempts    attempts.Tracker
	Challenges  twofa.Store
	Captcha     captcha.Verifier
	Notifier    notify.Sender
	Logger      logging.Logger
	TokenTTL    time.Duration
}

// Orchestrator implements the authentication flows. It holds no state of
// its own and is safe for concurrent use.
type Orchestrator struct {
	deps Deps
}

func New(deps Deps) *Orchestrator {
	return &Orchestrator{deps: deps}
}

// SignUp registers a new account. The captcha token is verified before any
// input validation or store access; account creation is always gated on a
// human check.
func (o *Orchestrator) SignUp(ctx context.Context, rawEmail string, rawPassword string, requiresTwoFactor bool, captchaToken, remoteIP string) error {
	if err := o.deps.Captcha.Verify(ctx, captchaToken, remoteIP); err != nil {
		return err
	}

	email, err := domain.ParseEmail(rawEmail)
	if err != nil {
		return err
	}
	password, err := domain.ParsePassword(rawPassword)
	if err != nil {
		return err
	}

	if err := o.deps.Credentials.Add(ctx, email, password, requiresTwoFactor); err != nil {
		return err
	}
	o.deps.Logger.Info(ctx, "account created", "requires_2fa", requiresTwoFactor)
	return nil
}

// LogIn runs the login state machine:
//
//  1. read the attempt summary;
//  2. if it demands a challenge and no captcha token came with the request,
//     stop before touching credentials (StatusChallengeRequired);
//  3. if a token came, a failed verification is a hard credential failure;
//  4. check the password and record the attempt exactly once, success
//     meaning password correctness;
//  5. mint a token directly, or defer behind a second-factor challenge.
//
// An unknown identity and a wrong password are indistinguishable to the
// caller.
func (o *Orchestrator) LogIn(ctx context.Context, rawEmail string, rawPassword string, captchaToken, remoteIP string) (LoginResult, error) {
	email, err := domain.ParseEmail(rawEmail)
	if err != nil {
		return LoginResult{}, err
	}
	password, err := domain.ParsePassword(rawPassword)
	if err != nil {
		return LoginResult{}, err
	}

	summary, err := o.deps.Attempts.GetSummary(ctx, email.Expose())
	if err != nil {
		return LoginResult{}, domain.Unexpected(err)
	}
	if summary.RequiresChallenge {
		if captchaToken == "" {
			o.deps.Logger.Info(ctx, "login gated on challenge", "failed_count", summary.FailedCount)
			return LoginResult{Status: StatusChallengeRequired}, nil
		}
		if err := o.deps.Captcha.Verify(ctx, captchaToken, remoteIP); err != nil {
			if errors.Is(err, domain.ErrUnexpected) {
				return LoginResult{}, err
			}
			return LoginResult{}, domain.ErrIncorrectCredentials
		}
	}

	cred, err := o.deps.Credentials.Validate(ctx, email, password)
	if err != nil && errors.Is(err, domain.ErrUnexpected) {
		return LoginResult{}, err
	}

	// The credential check ran to a verdict; this submission counts.
	if recErr := o.deps.Attempts.RecordAttempt(ctx, email.Expose(), err == nil); recErr != nil {
		return LoginResult{}, domain.Unexpected(recErr)
	}
	o.deps.Logger.Debug(ctx, "attempt recorded", "success", err == nil)

	if err != nil {
		return LoginResult{}, domain.ErrIncorrectCredentials
	}

	if cred.RequiresTwoFactor {
		return o.deferToSecondFactor(ctx, email)
	}

	token, err := o.deps.Tokens.Mint(email, o.deps.TokenTTL)
	if err != nil {
		return LoginResult{}, err
	}
	o.deps.Logger.Info(ctx, "login accepted")
	return LoginResult{Status: StatusAuthenticated, Token: token}, nil
}

func (o *Orchestrator) deferToSecondFactor(ctx context.Context, email domain.Email) (LoginResult, error) {
	ch, err := twofa.NewChallenge()
	if err != nil {
		return LoginResult{}, err
	}
	if err := o.deps.Challenges.AddCode(ctx, email, ch); err != nil {
		return LoginResult{}, err
	}
	body := fmt.Sprintf("Your verification code is: %s", ch.Code)
	if err := o.deps.Notifier.Send(ctx, email, "Your verification code", body); err != nil {
		return LoginResult{}, domain.Unexpected(err)
	}
	o.deps.Logger.Info(ctx, "second factor issued")
	return LoginResult{Status: StatusPendingSecondFactor, AttemptID: ch.AttemptID}, nil
}

// VerifyTwoFactor completes a deferred login. Both the attempt id and the
// code must match the pending challenge; any mismatch reports the same
// credential failure and leaves the challenge in place for a retry within
// its lifetime. A full match consumes the challenge, clears the failure
// counter and mints a session token.
func (o *Orchestrator) VerifyTwoFactor(ctx context.Context, rawEmail string, attemptID string, code string) (string, error) {
	email, err := domain.ParseEmail(rawEmail)
	if err != nil {
		return "", err
	}
	if attemptID == "" || code == "" {
		return "", fmt.Errorf("%w: missing challenge fields", domain.ErrValidation)
	}

	ch, err := o.deps.Challenges.GetCode(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrIncorrectCredentials
	}
	if err != nil {
		return "", err
	}

	idOK := subtle.ConstantTimeCompare([]byte(ch.AttemptID), []byte(attemptID)) == 1
	codeOK := subtle.ConstantTimeCompare([]byte(ch.Code), []byte(code)) == 1
	if !idOK || !codeOK {
		return "", domain.ErrIncorrectCredentials
	}

	if err := o.deps.Challenges.RemoveCode(ctx, email); err != nil {
		return "", err
	}
	if err := o.deps.Attempts.Reset(ctx, email.Expose()); err != nil {
		return "", domain.Unexpected(err)
	}

	token, err := o.deps.Tokens.Mint(email, o.deps.TokenTTL)
	if err != nil {
		return "", err
	}
	o.deps.Logger.Info(ctx, "second factor accepted")
	return token, nil
}

// Authenticate authorizes a bearer token. The revocation list is consulted
// before structural validation, so a revoked token reports
// domain.ErrTokenRevoked even if it has since expired or the signing key
// rotated.
func (o *Orchestrator) Authenticate(ctx context.Context, token string) (*sessions.Claims, error) {
	if token == "" {
		return nil, domain.ErrMissingToken
	}

	revoked, err := o.deps.Revoked.Contains(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		o.deps.Logger.Debug(ctx, "revoked token presented")
		return nil, domain.ErrTokenRevoked
	}

	return o.deps.Tokens.Validate(token)
}

// LogOut revokes a session token. The token must authenticate first; an
// empty token is a validation failure before any store access.
func (o *Orchestrator) LogOut(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrMissingToken
	}
	if _, err := o.Authenticate(ctx, token); err != nil {
		return err
	}
	if err := o.deps.Revoked.Store(ctx, token); err != nil {
		return err
	}
	o.deps.Logger.Info(ctx, "session revoked")
	return nil
}

// DeleteAccount removes an account after re-validating its credentials. An
// unknown identity reports the same failure as a wrong password.
func (o *Orchestrator) DeleteAccount(ctx context.Context, rawEmail string, rawPassword string) error {
	email, err := domain.ParseEmail(rawEmail)
	if err != nil {
		return err
	}
	password, err := domain.ParsePassword(rawPassword)
	if err != nil {
		return err
	}

	err = o.deps.Credentials.Delete(ctx, email, password)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrIncorrectCredentials) {
		return domain.ErrIncorrectCredentials
	}
	if err != nil {
		return err
	}
	o.deps.Logger.Info(ctx, "account deleted")
	return nil
}
