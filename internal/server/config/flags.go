package config

import (
	"flag"
	"os"
	"time"

	"github.com/mkalvans/authcore/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN (empty: in-memory credential store)
//	-r string   Redis address (empty: in-memory revocation/2FA stores)
//	-w string   Redis password
//	-s string   session token HMAC secret key
//	-t int      session token validity, minutes
//	-n int      failed-login threshold for the human-verification gate
//	-k string   captcha verifier secret
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-w", "-s", "-t", "-n", "-k"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.RedisPassword, "w", config.RedisPassword, "redis password")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenTTL := fs.Int("t", int(config.TokenTTL.Minutes()), "session token validity (in minutes)")

	fs.IntVar(&config.ChallengeThreshold, "n", config.ChallengeThreshold, "failed-login threshold for human verification")
	fs.StringVar(&config.CaptchaSecret, "k", config.CaptchaSecret, "captcha verifier secret")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenTTL = time.Duration(*tokenTTL) * time.Minute
	if config.RevokedTokenTTL < config.TokenTTL {
		config.RevokedTokenTTL = config.TokenTTL
	}
}
