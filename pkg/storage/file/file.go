package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/sortasecret/sortasecret/pkg/keypair"
	"github.com/sortasecret/sortasecret/pkg/storage/interfaces"
)

type fileKeyStore struct {
	path string
}

var _ interfaces.IKeyStore = &fileKeyStore{}

func NewFileKeyStore(path string) (interfaces.IKeyStore, error) {
	if path == "" {
		return nil, fmt.Errorf("key file path not configured")
	}
	return &fileKeyStore{path: path}, nil
}

func (s *fileKeyStore) Load(ctx context.Context) (*keypair.Keypair, error) {
	if k, err := keypair.DecodeFile(s.path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist, create it with genkey --file", interfaces.ErrKeyNotFound, s.path)
	} else if err != nil {
		return nil, fmt.Errorf("reading key file %s: %w", s.path, err)
	} else {
		return k, nil
	}
}

func (s *fileKeyStore) Close(ctx context.Context) error {
	return nil
}
