package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIURL is the mock corpus endpoint the directory was first built against.
const DefaultAPIURL = "https://mocki.io/v1/46161237-0246-4d75-a89d-3b07cf72b257"

// Config holds runtime settings loaded from environment variables.
type Config struct {
	Env            string
	IsProd         bool
	SecretKey      []byte
	DBPath         string
	StaticDir      string
	Host           string
	Port           string
	CookieSecure   bool
	CookieSameSite http.SameSite
	DisableCSRF    bool
	APIURL         string
	RequestTimeout time.Duration
	MinLatency     time.Duration
	AvatarMaxBytes int64
	ImageRateLimit int
	LogLevel       string
	LogDev         bool
}

// LoadConfig reads environment variables, applies defaults, and validates required settings.
func LoadConfig() (Config, error) {
	env := strings.ToLower(strings.TrimSpace(getEnv("USERDIR_ENV", "development")))
	isProd := env == "production"

	secret := os.Getenv("USERDIR_SECRET_KEY")
	if secret == "" && isProd {
		return Config{}, errors.New("USERDIR_SECRET_KEY is required in production")
	}
	if secret == "" {
		secret = randomSecret(32)
	}

	sameSite := http.SameSiteLaxMode
	switch strings.ToLower(getEnv("USERDIR_COOKIE_SAMESITE", "lax")) {
	case "strict":
		sameSite = http.SameSiteStrictMode
	case "none":
		sameSite = http.SameSiteNoneMode
	}

	avatarMax := int64(2 * 1024 * 1024)
	if v := os.Getenv("USERDIR_AVATAR_MAX_BYTES"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			avatarMax = parsed
		}
	}

	imageRate := 120
	if v := os.Getenv("USERDIR_IMAGE_RATE_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			imageRate = parsed
		}
	}

	timeout, err := envDuration("USERDIR_REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	minLatency, err := envDuration("USERDIR_MIN_LATENCY", time.Second)
	if err != nil {
		return Config{}, err
	}
	if timeout <= 0 {
		return Config{}, errors.New("USERDIR_REQUEST_TIMEOUT must be positive")
	}
	if minLatency < 0 {
		return Config{}, errors.New("USERDIR_MIN_LATENCY must not be negative")
	}

	logDev := envBool("USERDIR_LOG_DEV", false)
	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("USERDIR_LOG_LEVEL")))
	if logLevel == "" {
		logLevel = "info"
		if logDev {
			logLevel = "debug"
		}
	}

	return Config{
		Env:            env,
		IsProd:         isProd,
		SecretKey:      []byte(secret),
		DBPath:         getEnv("USERDIR_DB_PATH", filepath.Join(getBaseDir(), "userdir.db")),
		StaticDir:      getEnv("USERDIR_STATIC_DIR", filepath.Join(getBaseDir(), "static")),
		Host:           getEnv("USERDIR_HOST", "127.0.0.1"),
		Port:           getEnv("USERDIR_PORT", "5000"),
		CookieSecure:   envBool("USERDIR_COOKIE_SECURE", isProd),
		CookieSameSite: sameSite,
		DisableCSRF:    envBool("USERDIR_DISABLE_CSRF", false),
		APIURL:         strings.TrimSpace(getEnv("USERDIR_API_URL", DefaultAPIURL)),
		RequestTimeout: timeout,
		MinLatency:     minLatency,
		AvatarMaxBytes: avatarMax,
		ImageRateLimit: imageRate,
		LogLevel:       logLevel,
		LogDev:         logDev,
	}, nil
}

// getBaseDir returns the working directory or executable directory as a fallback.
func getBaseDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// randomSecret returns a hex token, falling back to a timestamp on RNG failure.
func randomSecret(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// getEnv returns the environment value or fallback when empty.
func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// envBool parses common boolean env values and falls back when empty/invalid.
func envBool(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// envDuration accepts Go duration strings ("10s") or bare milliseconds ("1000").
func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback, nil
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}
