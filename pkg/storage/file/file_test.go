package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sortasecret/sortasecret/pkg/codec"
	"github.com/sortasecret/sortasecret/pkg/keypair"
	"github.com/sortasecret/sortasecret/pkg/storage/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	k, err := keypair.Generate()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, k.EncodeFile(path))

	s, err := NewFileKeyStore(path)
	require.NoError(t, err)
	defer s.Close(context.Background())

	loaded, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, k.Equal(loaded))
}

func TestLoadMissing(t *testing.T) {
	s, err := NewFileKeyStore(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)

	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(bad, []byte("not a key"), 0600))
	s, err := NewFileKeyStore(bad)
	require.NoError(t, err)
	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, codec.ErrInvalidHex)

	short := filepath.Join(dir, "short")
	require.NoError(t, os.WriteFile(short, []byte("deadbeef"), 0600))
	s, err = NewFileKeyStore(short)
	require.NoError(t, err)
	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, keypair.ErrInvalidKeyLength)
}

func TestNewFileKeyStoreRequiresPath(t *testing.T) {
	_, err := NewFileKeyStore("")
	assert.Error(t, err)
}
