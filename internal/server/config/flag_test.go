package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"cmd",
		"-a", "127.0.0.1:9090", "-d", "postgres://db", "-r", "127.0.0.1:6379",
		"-w", "redispass", "-s", "secret", "-t", "5", "-n", "5", "-k", "captcha-secret",
	}

	config := &Config{}
	parseFlags(config)

	assert.Equal(t, "127.0.0.1:9090", config.EndpointAddrHTTP)
	assert.Equal(t, "postgres://db", config.DatabaseDSN)
	assert.Equal(t, "127.0.0.1:6379", config.RedisAddr)
	assert.Equal(t, "redispass", config.RedisPassword)
	assert.Equal(t, "secret", config.SecretKey)
	assert.Equal(t, 5*time.Minute, config.TokenTTL)
	assert.Equal(t, 5, config.ChallengeThreshold)
	assert.Equal(t, "captcha-secret", config.CaptchaSecret)
}

func TestParseFlags_RevokedTTLAtLeastTokenTTL(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"cmd", "-t", "30"}

	config := &Config{RevokedTokenTTL: 10 * time.Minute}
	parseFlags(config)

	assert.Equal(t, 30*time.Minute, config.TokenTTL)
	assert.Equal(t, 30*time.Minute, config.RevokedTokenTTL, "revocation TTL must cover the token lifetime")
}

func TestParseFlags_NoFlagsKeepsValues(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"cmd"}

	config := &Config{EndpointAddrHTTP: ":9999", SecretKey: "k", TokenTTL: 2 * time.Minute, RevokedTokenTTL: 2 * time.Minute}
	parseFlags(config)

	assert.Equal(t, ":9999", config.EndpointAddrHTTP)
	assert.Equal(t, "k", config.SecretKey)
	assert.Equal(t, 2*time.Minute, config.TokenTTL)
}
