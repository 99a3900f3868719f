package gate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sortasecret/sortasecret/pkg/keypair"
	"github.com/sortasecret/sortasecret/pkg/sealedbox"
	"github.com/sortasecret/sortasecret/pkg/verifier"
)

var (
	ErrMalformedRequest = errors.New("malformed request")
	ErrRejected         = errors.New("human verification failed")
	ErrInvalidUTF8      = errors.New("plaintext is not valid utf-8")
)

type Gate interface {
	PublicHex() string
	Seal(plaintext string) (string, error)
	Check(secret string) error

	Handle(ctx context.Context, body []byte) (*Result, error)
	Decrypt(ctx context.Context, req Request) (*Result, error)
}

type gate struct {
	keypair  *keypair.Keypair
	verifier verifier.Verifier
}

var _ Gate = &gate{}

func NewGate(k *keypair.Keypair, v verifier.Verifier) (Gate, error) {
	if k == nil {
		return nil, fmt.Errorf("gate requires a keypair")
	} else if v == nil {
		return nil, fmt.Errorf("gate requires a verifier")
	}

	g := gate{keypair: k, verifier: v}
	return &g, nil
}

func (g *gate) PublicHex() string {
	return g.keypair.PublicHex()
}

func (g *gate) Seal(plaintext string) (string, error) {
	return sealedbox.SealHex([]byte(plaintext), g.keypair.PublicKey())
}

// Check reports whether secret is a ciphertext this gate can open. The
// plaintext is discarded.
func (g *gate) Check(secret string) error {
	_, err := g.open(secret)
	return err
}

func (g *gate) open(secret string) (string, error) {
	if plaintext, err := sealedbox.OpenHex(secret, g.keypair.PublicKey(), g.keypair.SecretKey()); err != nil {
		return "", err
	} else if !utf8.Valid(plaintext) {
		return "", ErrInvalidUTF8
	} else {
		return string(plaintext), nil
	}
}

// Handle parses body and runs it through Decrypt.
func (g *gate) Handle(ctx context.Context, body []byte) (*Result, error) {
	if req, err := ParseRequest(body); err != nil {
		return nil, err
	} else {
		return g.Decrypt(ctx, req)
	}
}

func (g *gate) Decrypt(ctx context.Context, req Request) (*Result, error) {
	if ok, err := g.verifier.Verify(ctx, req.Token); err != nil {
		log.Errorf("human verification call failed: %v", err)
		if errors.Is(err, verifier.ErrVerifierUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", verifier.ErrVerifierUnavailable, err)
	} else if !ok {
		return nil, ErrRejected
	}

	r := Result{Entries: make([]Entry, len(req.Secrets))}
	for i, secret := range req.Secrets {
		plaintext, err := g.open(secret)
		r.Entries[i] = Entry{Secret: secret, Plaintext: plaintext, Err: err}
	}
	return &r, nil
}

type Request struct {
	Token   string   `json:"token"`
	Secrets []string `json:"secrets"`
}

func ParseRequest(body []byte) (Request, error) {
	var raw struct {
		Token   *string  `json:"token"`
		Secrets []string `json:"secrets"`
	}

	if err := json.Unmarshal(body, &raw); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	} else if raw.Token == nil {
		return Request{}, fmt.Errorf("%w: missing token", ErrMalformedRequest)
	} else if raw.Secrets == nil {
		return Request{}, fmt.Errorf("%w: missing secrets", ErrMalformedRequest)
	} else {
		return Request{Token: *raw.Token, Secrets: raw.Secrets}, nil
	}
}
