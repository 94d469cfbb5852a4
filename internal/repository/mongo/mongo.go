// Package mongo implements the repository interfaces on MongoDB. Users are
// stored as documents with an embedded exercises array; meals live in their
// own collection. Selected when DATABASE_URL is a mongodb:// or
// mongodb+srv:// URI.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/fitness-tracker/internal/apperror"
	"github.com/sakif/fitness-tracker/internal/repository"
)

const (
	usersCollection = "users"
	mealsCollection = "meals"

	connectTimeout = 10 * time.Second
)

var _ repository.Store = (*Store)(nil)

type Store struct {
	client *mongo.Client
	users  *UserStore
	meals  *MealStore
}

// New connects to uri, pings the primary and ensures indexes on dbName.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client: client,
		users:  &UserStore{coll: db.Collection(usersCollection)},
		meals:  &MealStore{coll: db.Collection(mealsCollection)},
	}

	_, err = s.users.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: create email index: %w", err)
	}

	return s, nil
}

func (s *Store) Users() repository.UserRepository { return s.users }
func (s *Store) Meals() repository.MealRepository { return s.meals }

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo: disconnect: %w", err)
	}
	return nil
}

// objectID parses a hex id. Anything that is not a valid ObjectID cannot
// name a stored document, so it is reported as not found.
func objectID(resource, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperror.NotFound(resource, id)
	}
	return oid, nil
}
