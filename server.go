package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sortasecret/sortasecret/pkg/api"
	"github.com/sortasecret/sortasecret/pkg/config"
	"github.com/sortasecret/sortasecret/pkg/gate"
	"github.com/sortasecret/sortasecret/pkg/storage"
	"github.com/sortasecret/sortasecret/pkg/tls"
	"github.com/sortasecret/sortasecret/pkg/verifier"
)

type serverOptions struct {
	bind    string
	keyfile string
}

func (o serverOptions) apply(c *config.Config) {
	if o.bind != "" {
		c.Bind = o.bind
	}
	if o.keyfile != "" {
		c.KeyBackend = "file"
		c.KeyFile = o.keyfile
	}
}

func newApp(c *config.Config) (*fiber.App, func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	keys, err := storage.NewKeyStore(ctx, c)
	if err != nil {
		return nil, nil, err
	}

	if k, err := keys.Load(ctx); err != nil {
		keys.Close(ctx)
		return nil, nil, err
	} else if v, err := verifier.NewRecaptcha(verifier.RecaptchaConfig{
		Secret:   c.RecaptchaSecretKey,
		URL:      c.RecaptchaURL,
		MinScore: c.RecaptchaMinScore,
		Timeout:  c.VerifierTimeout,
	}); err != nil {
		keys.Close(ctx)
		return nil, nil, err
	} else if g, err := gate.NewGate(k, v); err != nil {
		keys.Close(ctx)
		return nil, nil, err
	} else if a, err := api.NewAPI(g, api.Options{
		SiteKey:       c.RecaptchaSiteKey,
		ShowCacheSize: c.ShowCacheSize,
		DecryptRate:   c.DecryptRate,
	}); err != nil {
		keys.Close(ctx)
		return nil, nil, err
	} else {
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		app.Use(recover.New())
		app.Use(logger.New())

		app.Mount("/v1", a.App())

		log.Infof("serving recipient public key %s", k.PublicHex())
		return app, keys.Close, nil
	}
}

func runServer(opts serverOptions) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	opts.apply(c)

	if err := c.Validate(); err != nil {
		return err
	}

	app, closeKeys, err := newApp(c)
	if err != nil {
		return err
	}
	defer closeKeys(context.Background())

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		app.ShutdownWithTimeout(10 * time.Second)
	}()

	if c.InsecureHTTP {
		log.Infof("🚀 started sortasecret %s on %s", versioninfo.Short(), c.Bind)
		return app.Listen(c.Bind)
	}

	host, _, err := net.SplitHostPort(c.Bind)
	if err != nil {
		return fmt.Errorf("invalid bind address %s: %v", c.Bind, err)
	}

	if cert, err := tls.CreateServerCert([]string{"localhost", host}, tls.DefaultValidity); err != nil {
		return fmt.Errorf("error creating tls certificate: %v", err)
	} else {
		log.Infof("🚀 started sortasecret %s on %s (tls)", versioninfo.Short(), c.Bind)
		return app.ListenTLSWithCertificate(c.Bind, cert)
	}
}
