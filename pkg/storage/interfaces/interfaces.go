package interfaces

import (
	"context"
	"errors"

	"github.com/sortasecret/sortasecret/pkg/keypair"
)

var ErrKeyNotFound = errors.New("recipient key not found")

// IKeyStore loads the recipient keypair once at startup.
type IKeyStore interface {
	Load(ctx context.Context) (*keypair.Keypair, error)
	Close(ctx context.Context) error
}
