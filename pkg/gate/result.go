package gate

import (
	"encoding/json"
	"errors"

	"github.com/sortasecret/sortasecret/pkg/codec"
)

const (
	PlaceholderInvalidHex    = "[invalid secret encoding]"
	PlaceholderUndecryptable = "[unable to decrypt secret]"
	PlaceholderInvalidText   = "[secret is not valid text]"
)

// Entry is the outcome of one secret in a batch. Exactly one of Plaintext or
// Err is meaningful.
type Entry struct {
	Secret    string
	Plaintext string
	Err       error
}

func (e Entry) OK() bool {
	return e.Err == nil
}

// Text is the value shown to the client: the plaintext, or a fixed
// placeholder for the kind of failure. The underlying error never leaves the
// process.
func (e Entry) Text() string {
	switch {
	case e.Err == nil:
		return e.Plaintext
	case errors.Is(e.Err, codec.ErrInvalidHex):
		return PlaceholderInvalidHex
	case errors.Is(e.Err, ErrInvalidUTF8):
		return PlaceholderInvalidText
	default:
		// sealedbox.ErrAuthenticationFailure
		return PlaceholderUndecryptable
	}
}

// Result holds one entry per requested secret, in request order.
type Result struct {
	Entries []Entry
}

var _ json.Marshaler = &Result{}

func (r *Result) Decrypted() map[string]string {
	out := make(map[string]string, len(r.Entries))
	for _, e := range r.Entries {
		out[e.Secret] = e.Text()
	}
	return out
}

func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"decrypted": r.Decrypted(),
	})
}
