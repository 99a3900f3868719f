package gate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sortasecret/sortasecret/pkg/codec"
	"github.com/sortasecret/sortasecret/pkg/keypair"
	"github.com/sortasecret/sortasecret/pkg/sealedbox"
	"github.com/sortasecret/sortasecret/pkg/verifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingVerifier struct {
	calls  int
	tokens []string
	ok     bool
	err    error
}

func (v *countingVerifier) Verify(ctx context.Context, token string) (bool, error) {
	v.calls++
	v.tokens = append(v.tokens, token)
	return v.ok, v.err
}

func newGate(t *testing.T, v verifier.Verifier) (Gate, *keypair.Keypair) {
	k, err := keypair.Generate()
	require.NoError(t, err)
	g, err := NewGate(k, v)
	require.NoError(t, err)
	return g, k
}

func TestNewGateRequiresCollaborators(t *testing.T) {
	k, err := keypair.Generate()
	require.NoError(t, err)

	_, err = NewGate(nil, verifier.Static(true))
	assert.Error(t, err)
	_, err = NewGate(k, nil)
	assert.Error(t, err)
}

func TestSealAndCheck(t *testing.T) {
	g, k := newGate(t, verifier.Static(true))

	secret, err := g.Seal("hello world")
	require.NoError(t, err)
	require.NoError(t, g.Check(secret))

	plaintext, err := sealedbox.OpenHex(secret, k.PublicKey(), k.SecretKey())
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(plaintext))
	assert.Equal(t, k.PublicHex(), g.PublicHex())
}

func TestCheckRejectsNonCiphertext(t *testing.T) {
	g, _ := newGate(t, verifier.Static(true))
	other, _ := newGate(t, verifier.Static(true))

	assert.ErrorIs(t, g.Check("<script>alert(1)</script>"), codec.ErrInvalidHex)
	assert.ErrorIs(t, g.Check("deadbeef"), sealedbox.ErrAuthenticationFailure)

	foreign, err := other.Seal("not for g")
	require.NoError(t, err)
	assert.ErrorIs(t, g.Check(foreign), sealedbox.ErrAuthenticationFailure)
}

func TestCheckRejectsInvalidUTF8(t *testing.T) {
	g, k := newGate(t, verifier.Static(true))

	secret, err := sealedbox.SealHex([]byte{0xff, 0xfe, 0xfd}, k.PublicKey())
	require.NoError(t, err)
	assert.ErrorIs(t, g.Check(secret), ErrInvalidUTF8)
}

func TestDecryptMixedBatch(t *testing.T) {
	v := &countingVerifier{ok: true}
	g, _ := newGate(t, v)

	valid, err := g.Seal("hello world")
	require.NoError(t, err)

	r, err := g.Decrypt(context.Background(), Request{Token: "t", Secrets: []string{valid, "not-hex"}})
	require.NoError(t, err)
	assert.Equal(t, 1, v.calls)
	assert.Equal(t, []string{"t"}, v.tokens)

	require.Len(t, r.Entries, 2)
	assert.True(t, r.Entries[0].OK())
	assert.False(t, r.Entries[1].OK())

	d := r.Decrypted()
	assert.Len(t, d, 2)
	assert.Equal(t, "hello world", d[valid])
	assert.Equal(t, PlaceholderInvalidHex, d["not-hex"])
}

func TestDecryptIsolatesEveryFailureKind(t *testing.T) {
	g, k := newGate(t, verifier.Static(true))
	other, _ := newGate(t, verifier.Static(true))

	a, err := g.Seal("first")
	require.NoError(t, err)
	b, err := g.Seal("")
	require.NoError(t, err)
	foreign, err := other.Seal("foreign")
	require.NoError(t, err)
	binary, err := sealedbox.SealHex([]byte{0xc3, 0x28}, k.PublicKey())
	require.NoError(t, err)

	tampered := []byte(a)
	if tampered[len(tampered)-1] == '0' {
		tampered[len(tampered)-1] = '1'
	} else {
		tampered[len(tampered)-1] = '0'
	}

	secrets := []string{a, "zz", foreign, b, binary, string(tampered), "abc", a}
	r, err := g.Decrypt(context.Background(), Request{Token: "t", Secrets: secrets})
	require.NoError(t, err)
	require.Len(t, r.Entries, len(secrets))

	texts := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		assert.Equal(t, secrets[i], e.Secret)
		texts[i] = e.Text()
	}
	assert.Equal(t, []string{
		"first",
		PlaceholderInvalidHex,
		PlaceholderUndecryptable,
		"",
		PlaceholderInvalidText,
		PlaceholderUndecryptable,
		PlaceholderInvalidHex,
		"first",
	}, texts)
}

func TestDecryptRejected(t *testing.T) {
	g, _ := newGate(t, verifier.Static(false))

	valid, err := g.Seal("hello world")
	require.NoError(t, err)

	r, err := g.Decrypt(context.Background(), Request{Token: "t", Secrets: []string{valid}})
	assert.ErrorIs(t, err, ErrRejected)
	assert.Nil(t, r)
}

func TestDecryptVerifierError(t *testing.T) {
	v := &countingVerifier{err: errors.New("connection refused")}
	g, _ := newGate(t, v)

	valid, err := g.Seal("hello world")
	require.NoError(t, err)

	r, err := g.Decrypt(context.Background(), Request{Token: "t", Secrets: []string{valid}})
	assert.ErrorIs(t, err, verifier.ErrVerifierUnavailable)
	assert.Nil(t, r)
	assert.Equal(t, 1, v.calls, "verifier must not be retried")
}

func TestHandleMalformedBodySkipsVerifier(t *testing.T) {
	v := &countingVerifier{ok: true}
	g, _ := newGate(t, v)

	for _, body := range []string{``, `not json`, `{"token": 1, "secrets": []}`, `{"secrets": []}`, `{"token": "t"}`, `{"token": "t", "secrets": "x"}`} {
		_, err := g.Handle(context.Background(), []byte(body))
		assert.ErrorIs(t, err, ErrMalformedRequest, body)
	}
	assert.Equal(t, 0, v.calls)
}

func TestHandleEmptyBatch(t *testing.T) {
	g, _ := newGate(t, verifier.Static(true))

	r, err := g.Handle(context.Background(), []byte(`{"token": "t", "secrets": []}`))
	require.NoError(t, err)
	assert.Empty(t, r.Entries)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"decrypted": {}}`, string(b))
}

func TestResultJSON(t *testing.T) {
	g, _ := newGate(t, verifier.Static(true))

	valid, err := g.Seal("hello world")
	require.NoError(t, err)

	body, err := json.Marshal(Request{Token: "t", Secrets: []string{valid, "not-hex"}})
	require.NoError(t, err)

	r, err := g.Handle(context.Background(), body)
	require.NoError(t, err)

	b, err := json.Marshal(r)
	require.NoError(t, err)

	var out struct {
		Decrypted map[string]string `json:"decrypted"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, map[string]string{valid: "hello world", "not-hex": PlaceholderInvalidHex}, out.Decrypted)
}
