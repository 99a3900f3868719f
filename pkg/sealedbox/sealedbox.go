// Package sealedbox encrypts values for a recipient public key without any
// shared secret or caller managed nonce. Every Seal draws a fresh ephemeral
// X25519 keypair, so the output is compatible with libsodium's
// crypto_box_seal.
package sealedbox

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/sortasecret/sortasecret/pkg/codec"
	"golang.org/x/crypto/nacl/box"
)

// Overhead is the number of bytes a sealed ciphertext adds to its plaintext:
// the ephemeral public key followed by the Poly1305 tag.
const Overhead = box.AnonymousOverhead

var ErrAuthenticationFailure = errors.New("authentication failure")

func Seal(plaintext []byte, recipient *[32]byte) ([]byte, error) {
	return seal(rand.Reader, plaintext, recipient)
}

func seal(r io.Reader, plaintext []byte, recipient *[32]byte) ([]byte, error) {
	if ciphertext, err := box.SealAnonymous(nil, plaintext, recipient, r); err != nil {
		return nil, fmt.Errorf("sealing: %w", err)
	} else {
		return ciphertext, nil
	}
}

// Open never returns partial plaintext: either the tag verifies and the
// whole message is returned, or ErrAuthenticationFailure.
func Open(ciphertext []byte, public *[32]byte, secret *[32]byte) ([]byte, error) {
	if len(ciphertext) < Overhead {
		return nil, fmt.Errorf("%w: ciphertext too short (%d bytes)", ErrAuthenticationFailure, len(ciphertext))
	} else if plaintext, ok := box.OpenAnonymous(nil, ciphertext, public, secret); !ok {
		return nil, ErrAuthenticationFailure
	} else if plaintext == nil {
		return []byte{}, nil
	} else {
		return plaintext, nil
	}
}

func SealHex(plaintext []byte, recipient *[32]byte) (string, error) {
	if ciphertext, err := Seal(plaintext, recipient); err != nil {
		return "", err
	} else {
		return codec.Encode(ciphertext), nil
	}
}

// OpenHex decodes s before opening it, so malformed input surfaces as
// codec.ErrInvalidHex rather than an authentication failure.
func OpenHex(s string, public *[32]byte, secret *[32]byte) ([]byte, error) {
	if ciphertext, err := codec.Decode(s); err != nil {
		return nil, err
	} else {
		return Open(ciphertext, public, secret)
	}
}
