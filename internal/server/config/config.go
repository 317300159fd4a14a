// Package config handles configuration for the authentication server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the authentication core.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx); empty selects the in-memory credential store.
//   - RedisAddr / RedisPassword: Redis backend for revocation and 2FA codes;
//     empty address selects the in-memory backends.
//   - SecretKey: HMAC secret for signing session tokens (HS256). Do not use test defaults in prod.
//   - CookieName: name of the HTTP-only session cookie.
//   - TokenTTL: session token lifetime.
//   - RevokedTokenTTL: lifetime of revocation entries; must not be shorter than TokenTTL.
//   - TwoFACodeTTL: lifetime of a pending second-factor challenge.
//   - AttemptWindow: inactivity window after which a failure summary is treated as absent.
//   - ChallengeThreshold: consecutive failures that trigger the human-verification gate.
//   - HashWorkers: size of the bounded password-hashing pool.
//   - CaptchaSecret: shared secret for the external human-verification service.
type Config struct {
	EndpointAddrHTTP   string
	DatabaseDSN        string
	RedisAddr          string
	RedisPassword      string
	SecretKey          string
	CookieName         string
	TokenTTL           time.Duration
	RevokedTokenTTL    time.Duration
	TwoFACodeTTL       time.Duration
	AttemptWindow      time.Duration
	ChallengeThreshold int
	HashWorkers        int
	CaptchaSecret      string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3000"
	c.DatabaseDSN = ""
	c.RedisAddr = ""
	c.RedisPassword = ""
	c.SecretKey = "secretKey"
	c.CookieName = "jwt"
	c.TokenTTL = 10 * time.Minute
	c.RevokedTokenTTL = 10 * time.Minute
	c.TwoFACodeTTL = 10 * time.Minute
	c.AttemptWindow = 1 * time.Hour
	c.ChallengeThreshold = 3
	c.HashWorkers = 4
	c.CaptchaSecret = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
