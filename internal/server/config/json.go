package config

import (
	"encoding/json"
	"os"

	"github.com/mkalvans/authcore/internal/flagx"
	"github.com/mkalvans/authcore/internal/timex"
)

// JsonConfig is the intermediate DTO used only for reading JSON
// configuration files. It uses timex.Duration for interval fields, which
// allows parsing both string values such as "10m" and integer nanoseconds.
// After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP   string         `json:"endpoint_addr_http"`
	DatabaseDSN        string         `json:"database_dsn"`
	RedisAddr          string         `json:"redis_addr"`
	RedisPassword      string         `json:"redis_password"`
	SecretKey          string         `json:"secret_key"`
	CookieName         string         `json:"cookie_name"`
	TokenTTL           timex.Duration `json:"token_ttl"`
	RevokedTokenTTL    timex.Duration `json:"revoked_token_ttl"`
	TwoFACodeTTL       timex.Duration `json:"two_fa_code_ttl"`
	AttemptWindow      timex.Duration `json:"attempt_window"`
	ChallengeThreshold int            `json:"challenge_threshold"`
	HashWorkers        int            `json:"hash_workers"`
	CaptchaSecret      string         `json:"captcha_secret"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config flags; when
// neither is set, no file is loaded. Unreadable or invalid files panic,
// matching flag-parsing behavior.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.RedisAddr = c.RedisAddr
	config.RedisPassword = c.RedisPassword
	config.SecretKey = c.SecretKey
	config.CookieName = c.CookieName
	config.TokenTTL = c.TokenTTL.Duration
	config.RevokedTokenTTL = c.RevokedTokenTTL.Duration
	config.TwoFACodeTTL = c.TwoFACodeTTL.Duration
	config.AttemptWindow = c.AttemptWindow.Duration
	config.ChallengeThreshold = c.ChallengeThreshold
	config.HashWorkers = c.HashWorkers
	config.CaptchaSecret = c.CaptchaSecret
}
