package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sortasecret/sortasecret/pkg/storage/interfaces"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const keysCollection = "keys"

type mongoKeyStore struct {
	client *mongo.Client
	db     *mongo.Database
	name   string
}

var _ interfaces.IKeyStore = &mongoKeyStore{}

// NewMongoKeyStore connects to mongoURL. The database is taken from the URL
// path and the keypair is stored under name.
func NewMongoKeyStore(ctx context.Context, mongoURL string, name string) (interfaces.IKeyStore, error) {
	s := &mongoKeyStore{name: name}

	if u, err := url.Parse(mongoURL); err != nil {
		return nil, err
	} else if database := strings.TrimPrefix(u.Path, "/"); database == "" {
		return nil, fmt.Errorf("mongo url must name a database, e.g. mongodb://host:27017/sortasecret")
	} else if client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL)); err != nil {
		return nil, err
	} else {
		s.client = client
		s.db = client.Database(database)
	}

	if err := s.EnsureIndex(ctx, keysCollection, mongo.IndexModel{
		Keys:    bson.M{"name": 1},
		Options: options.Index().SetName("name").SetUnique(true),
	}); err != nil {
		s.client.Disconnect(ctx)
		return nil, err
	}

	return s, nil
}

func (s *mongoKeyStore) EnsureIndex(ctx context.Context, collectionName string, model mongo.IndexModel) error {
	idxs := s.db.Collection(collectionName).Indexes()

	if model.Options == nil || model.Options.Name == nil {
		return fmt.Errorf("must provide a name for index")
	}
	expectedName := *model.Options.Name

	cur, err := idxs.List(ctx)
	if err != nil {
		return fmt.Errorf("unable to list indexes: %s", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var d bson.M
		if err := cur.Decode(&d); err != nil {
			return fmt.Errorf("unable to decode bson index document: %s", err)
		}

		if v, ok := d["name"].(string); ok && v == expectedName {
			return nil
		}
	}

	_, err = idxs.CreateOne(ctx, model)
	return err
}

func (s *mongoKeyStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
