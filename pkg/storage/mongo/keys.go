package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sortasecret/sortasecret/pkg/keypair"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type keyDocument struct {
	Name    string    `bson:"name"`
	Secret  string    `bson:"secret"`
	Public  string    `bson:"public"`
	Created time.Time `bson:"created"`
}

func (s *mongoKeyStore) find(ctx context.Context) (*keypair.Keypair, error) {
	var d keyDocument

	if err := s.db.Collection(keysCollection).FindOne(ctx, bson.M{"name": s.name}).Decode(&d); err != nil {
		return nil, err
	} else if k, err := keypair.Decode(d.Secret); err != nil {
		return nil, fmt.Errorf("stored key %s: %w", s.name, err)
	} else {
		return k, nil
	}
}

// Load returns the stored keypair, generating and inserting one the first
// time. Concurrent first starts converge on whichever insert won.
func (s *mongoKeyStore) Load(ctx context.Context) (*keypair.Keypair, error) {
	if k, err := s.find(ctx); err == nil {
		return k, nil
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	k, err := keypair.Generate()
	if err != nil {
		return nil, err
	}

	d := keyDocument{
		Name:    s.name,
		Secret:  k.Encode(),
		Public:  k.PublicHex(),
		Created: time.Now().UTC(),
	}

	if _, err := s.db.Collection(keysCollection).InsertOne(ctx, &d); mongo.IsDuplicateKeyError(err) {
		return s.find(ctx)
	} else if err != nil {
		return nil, err
	} else {
		log.Infof("generated recipient key %s with public key %s", s.name, k.PublicHex())
		return k, nil
	}
}
