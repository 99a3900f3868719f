package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Bind string

	KeyBackend string
	KeyFile    string
	MongoURL   string

	RecaptchaSiteKey   string
	RecaptchaSecretKey string
	RecaptchaURL       string
	RecaptchaMinScore  float64
	VerifierTimeout    time.Duration

	InsecureHTTP  bool
	ShowCacheSize int
	DecryptRate   int
}

// LoadEnv loads the first of each existing dotenv file without overriding
// variables that are already set.
func LoadEnv(filenames ...string) {
	for _, filename := range filenames {
		if s, err := os.Stat(filename); err == nil && !s.IsDir() {
			godotenv.Load(filename)
		}
	}
}

func Load() (*Config, error) {
	if _, ok := os.LookupEnv("ENV"); !ok {
		os.Setenv("ENV", "development")
	}
	env := os.Getenv("ENV")
	LoadEnv(".env."+env+".local", ".env."+env, ".env.local", ".env")

	return FromEnv(os.LookupEnv)
}

func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key string, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	c := Config{
		Env:                get("ENV", "development"),
		Bind:               get("SORTASECRET_BIND", ":8080"),
		KeyBackend:         get("SORTASECRET_KEY_BACKEND", "file"),
		KeyFile:            get("SORTASECRET_KEYFILE", ""),
		MongoURL:           get("SORTASECRET_MONGO_URL", ""),
		RecaptchaSiteKey:   get("RECAPTCHA_SITE_KEY", ""),
		RecaptchaSecretKey: get("RECAPTCHA_SECRET_KEY", ""),
		RecaptchaURL:       get("RECAPTCHA_VERIFY_URL", ""),
		InsecureHTTP:       get("SORTASECRET_INSECURE_HTTP", "") == "true",
	}

	if port := get("PORT", ""); port != "" && get("SORTASECRET_BIND", "") == "" {
		c.Bind = ":" + port
	}

	var err error
	if c.RecaptchaMinScore, err = strconv.ParseFloat(get("RECAPTCHA_MIN_SCORE", "0"), 64); err != nil {
		return nil, fmt.Errorf("invalid RECAPTCHA_MIN_SCORE: %v", err)
	} else if c.VerifierTimeout, err = time.ParseDuration(get("SORTASECRET_VERIFIER_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid SORTASECRET_VERIFIER_TIMEOUT: %v", err)
	} else if c.ShowCacheSize, err = strconv.Atoi(get("SORTASECRET_SHOW_CACHE_SIZE", "4096")); err != nil {
		return nil, fmt.Errorf("invalid SORTASECRET_SHOW_CACHE_SIZE: %v", err)
	} else if c.DecryptRate, err = strconv.Atoi(get("SORTASECRET_DECRYPT_RATE", "60")); err != nil {
		return nil, fmt.Errorf("invalid SORTASECRET_DECRYPT_RATE: %v", err)
	}

	return &c, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Bind == "" {
		return fmt.Errorf("no bind address configured, set SORTASECRET_BIND or --bind")
	}

	switch c.KeyBackend {
	case "file":
		if c.KeyFile == "" {
			return fmt.Errorf("no key file configured, set SORTASECRET_KEYFILE or --keyfile")
		}
	case "mongo":
		if c.MongoURL == "" {
			return fmt.Errorf("mongo key backend requires SORTASECRET_MONGO_URL")
		}
	default:
		return fmt.Errorf("invalid key backend: %s, expected file or mongo", c.KeyBackend)
	}

	if c.RecaptchaSecretKey == "" {
		return fmt.Errorf("no RECAPTCHA_SECRET_KEY configured")
	} else if c.RecaptchaMinScore < 0 || c.RecaptchaMinScore > 1 {
		return fmt.Errorf("RECAPTCHA_MIN_SCORE must be between 0 and 1, got %v", c.RecaptchaMinScore)
	} else if c.VerifierTimeout <= 0 {
		return fmt.Errorf("SORTASECRET_VERIFIER_TIMEOUT must be positive")
	} else if c.ShowCacheSize <= 0 {
		return fmt.Errorf("SORTASECRET_SHOW_CACHE_SIZE must be positive")
	}

	return nil
}
