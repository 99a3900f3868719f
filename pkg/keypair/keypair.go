package keypair

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sortasecret/sortasecret/pkg/codec"
	"golang.org/x/crypto/curve25519"
)

// KeySize is the length in bytes of both halves of a recipient keypair.
const KeySize = 32

var ErrInvalidKeyLength = errors.New("invalid key length")

type KeyLengthError struct {
	Expected int
	Actual   int
}

func (e *KeyLengthError) Error() string {
	return fmt.Sprintf("%s: expected %d bytes, got %d", ErrInvalidKeyLength, e.Expected, e.Actual)
}

func (e *KeyLengthError) Unwrap() error {
	return ErrInvalidKeyLength
}

// Keypair is the recipient X25519 keypair. It is never mutated after
// construction and may be shared between goroutines.
type Keypair struct {
	public    [KeySize]byte
	secret    [KeySize]byte
	publicHex string
}

func Generate() (*Keypair, error) {
	return generate(rand.Reader)
}

func generate(r io.Reader) (*Keypair, error) {
	var secret [KeySize]byte
	if _, err := io.ReadFull(r, secret[:]); err != nil {
		return nil, fmt.Errorf("reading random secret key: %w", err)
	}
	return fromSecret(secret)
}

// Decode reconstructs a keypair from the hex form of its secret key.
func Decode(secretHex string) (*Keypair, error) {
	if b, err := codec.Decode(secretHex); err != nil {
		return nil, err
	} else if len(b) != KeySize {
		return nil, &KeyLengthError{Expected: KeySize, Actual: len(b)}
	} else {
		var secret [KeySize]byte
		copy(secret[:], b)
		return fromSecret(secret)
	}
}

func fromSecret(secret [KeySize]byte) (*Keypair, error) {
	if public, err := curve25519.X25519(secret[:], curve25519.Basepoint); err != nil {
		return nil, fmt.Errorf("deriving public key: %w", err)
	} else {
		k := Keypair{secret: secret}
		copy(k.public[:], public)
		k.publicHex = codec.Encode(k.public[:])
		return &k, nil
	}
}

// Encode returns the secret key hex. It is meant for key files only and must
// never be sent over the network.
func (k *Keypair) Encode() string {
	return codec.Encode(k.secret[:])
}

func (k *Keypair) PublicHex() string {
	return k.publicHex
}

func (k *Keypair) PublicKey() *[KeySize]byte {
	p := k.public
	return &p
}

func (k *Keypair) SecretKey() *[KeySize]byte {
	s := k.secret
	return &s
}

// Equal reports whether both keypairs hold the same secret key.
func (k *Keypair) Equal(o *Keypair) bool {
	if k == nil || o == nil {
		return k == o
	}
	return subtle.ConstantTimeCompare(k.secret[:], o.secret[:]) == 1
}

func (k *Keypair) EncodeFile(path string) error {
	return os.WriteFile(path, []byte(k.Encode()), 0600)
}

func DecodeFile(path string) (*Keypair, error) {
	if b, err := os.ReadFile(path); err != nil {
		return nil, err
	} else {
		return Decode(strings.TrimSpace(string(b)))
	}
}
