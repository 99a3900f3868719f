package storage

import (
	"context"
	"fmt"

	"github.com/sortasecret/sortasecret/pkg/config"
	"github.com/sortasecret/sortasecret/pkg/storage/file"
	"github.com/sortasecret/sortasecret/pkg/storage/interfaces"
	"github.com/sortasecret/sortasecret/pkg/storage/mongo"
)

const DefaultKeyName = "recipient"

func NewKeyStore(ctx context.Context, c *config.Config) (interfaces.IKeyStore, error) {
	switch c.KeyBackend {
	case "", "file":
		return file.NewFileKeyStore(c.KeyFile)
	case "mongo":
		return mongo.NewMongoKeyStore(ctx, c.MongoURL, DefaultKeyName)
	default:
		return nil, fmt.Errorf("invalid key backend: %s, check SORTASECRET_KEY_BACKEND", c.KeyBackend)
	}
}
