package verifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

const DefaultRecaptchaURL = "https://www.google.com/recaptcha/api/siteverify"

type RecaptchaConfig struct {
	Secret   string
	URL      string
	MinScore float64
	Timeout  time.Duration
	Client   *http.Client
}

type recaptchaResponse struct {
	Success     bool     `json:"success"`
	Score       *float64 `json:"score,omitempty"`
	Action      string   `json:"action,omitempty"`
	Hostname    string   `json:"hostname,omitempty"`
	ChallengeTS string   `json:"challenge_ts,omitempty"`
	ErrorCodes  []string `json:"error-codes,omitempty"`
}

type recaptcha struct {
	config RecaptchaConfig
}

var _ Verifier = &recaptcha{}

func NewRecaptcha(config RecaptchaConfig) (Verifier, error) {
	if strings.TrimSpace(config.Secret) == "" {
		return nil, fmt.Errorf("recaptcha secret key not configured, set RECAPTCHA_SECRET_KEY")
	}
	if config.URL == "" {
		config.URL = DefaultRecaptchaURL
	}
	if config.Client == nil {
		config.Client = http.DefaultClient
	}

	r := recaptcha{config: config}
	return &r, nil
}

func (r *recaptcha) Verify(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	form := url.Values{}
	form.Set("secret", r.config.Secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrVerifierUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var body recaptchaResponse
	if res, err := r.config.Client.Do(req); err != nil {
		return false, fmt.Errorf("%w: %w", ErrVerifierUnavailable, err)
	} else if b, err := readBody(res); err != nil {
		return false, fmt.Errorf("%w: %w", ErrVerifierUnavailable, err)
	} else if res.StatusCode < 200 || res.StatusCode >= 300 {
		return false, fmt.Errorf("%w: unexpected status %s", ErrVerifierUnavailable, res.Status)
	} else if err := json.Unmarshal(b, &body); err != nil {
		return false, fmt.Errorf("%w: decoding response: %v", ErrVerifierUnavailable, err)
	} else if !body.Success {
		log.Infof("recaptcha rejected token: %v", body.ErrorCodes)
		return false, nil
	} else if r.config.MinScore > 0 && (body.Score == nil || *body.Score < r.config.MinScore) {
		log.Infof("recaptcha score below threshold %.2f", r.config.MinScore)
		return false, nil
	} else {
		return true, nil
	}
}

func readBody(res *http.Response) ([]byte, error) {
	defer res.Body.Close()
	return io.ReadAll(io.LimitReader(res.Body, 1<<16))
}
