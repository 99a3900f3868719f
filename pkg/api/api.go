package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sortasecret/sortasecret/pkg/api/interop"
	"github.com/sortasecret/sortasecret/pkg/gate"
)

type API interface {
	App() *fiber.App
}

type Options struct {
	SiteKey       string
	ShowCacheSize int
	// DecryptRate limits decrypt calls per client IP per minute. Zero disables it.
	DecryptRate int
}

type api struct {
	app     *fiber.App
	gate    gate.Gate
	shown   *lru.Cache[string, struct{}]
	siteKey string
}

var _ API = &api{}

func NewAPI(g gate.Gate, opts Options) (API, error) {
	a := api{gate: g, siteKey: opts.SiteKey}

	size := opts.ShowCacheSize
	if size <= 0 {
		size = 4096
	}
	if c, err := lru.New[string, struct{}](size); err != nil {
		return nil, err
	} else {
		a.shown = c
	}

	a.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code, message := errorStatus(err)
			return c.Status(code).JSON(interop.NewErrorResponse(message))
		},
	})

	decrypt := []fiber.Handler{}
	if opts.DecryptRate > 0 {
		decrypt = append(decrypt, limiter.New(limiter.Config{
			Max:        opts.DecryptRate,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return fiber.NewError(fiber.StatusTooManyRequests, "too many decrypt requests, try again later")
			},
		}))
	}
	decrypt = append(decrypt, a.Decrypt)

	a.app.Get("/pubkey", a.PublicKey)
	a.app.Get("/encrypt", a.Encrypt)
	a.app.Get("/show", a.Show)
	a.app.Put("/decrypt", decrypt...)
	a.app.Get("/status", a.Status)
	a.app.Get("/config.json", a.ClientConfig)

	return &a, nil
}

func (a *api) App() *fiber.App {
	return a.app
}
