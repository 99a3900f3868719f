package api

import (
	"github.com/carlmjohnson/versioninfo"
	"github.com/gofiber/fiber/v2"
	"github.com/sortasecret/sortasecret/pkg/api/interop"
)

type StatusResponse struct {
	PublicKey string `json:"publicKey"`
	Version   string `json:"version"`
	ShowCache int    `json:"showCache"`
}

func (a *api) Status(c *fiber.Ctx) error {
	return c.JSON(interop.NewResponse(StatusResponse{
		PublicKey: a.gate.PublicHex(),
		Version:   versioninfo.Short(),
		ShowCache: a.shown.Len(),
	}))
}

type ClientConfigResponse struct {
	SiteKey string `json:"siteKey"`
}

// ClientConfig gives the browser script the reCAPTCHA site key it needs to
// request a token.
func (a *api) ClientConfig(c *fiber.Ctx) error {
	return c.JSON(ClientConfigResponse{SiteKey: a.siteKey})
}
