package api

import (
	"errors"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sortasecret/sortasecret/pkg/api/interop"
	"github.com/sortasecret/sortasecret/pkg/codec"
)

func (a *api) PublicKey(c *fiber.Ctx) error {
	return c.SendString(a.gate.PublicHex())
}

func (a *api) Encrypt(c *fiber.Ctx) error {
	if !c.Context().QueryArgs().Has("secret") {
		return fiber.NewError(fiber.StatusBadRequest, "missing secret parameter")
	}

	secret := c.Query("secret")
	if !utf8.ValidString(secret) {
		return fiber.NewError(fiber.StatusBadRequest, "secret parameter is not valid utf-8")
	} else if ciphertext, err := a.gate.Seal(secret); err != nil {
		return err
	} else {
		return c.SendString(ciphertext)
	}
}

type ShowResponse struct {
	Secret string `json:"secret"`
}

// Show only confirms that secret is a ciphertext this server can open. The
// plaintext is never returned here; see Decrypt.
func (a *api) Show(c *fiber.Ctx) error {
	secret := utils.CopyString(c.Query("secret"))

	if secret == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing secret parameter")
	} else if a.shown.Contains(secret) {
		return c.JSON(interop.NewResponse(ShowResponse{Secret: secret}))
	} else if err := a.gate.Check(secret); errors.Is(err, codec.ErrInvalidHex) {
		return fiber.NewError(fiber.StatusBadRequest, "malformed secret")
	} else if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "secret not found")
	} else {
		a.shown.Add(secret, struct{}{})
		return c.JSON(interop.NewResponse(ShowResponse{Secret: secret}))
	}
}

func (a *api) Decrypt(c *fiber.Ctx) error {
	if res, err := a.gate.Handle(c.UserContext(), c.Body()); err != nil {
		return err
	} else {
		return c.JSON(res)
	}
}
