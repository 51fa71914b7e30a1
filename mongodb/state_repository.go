package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/himuexe/Utsavia/domain"
)

type authStateDoc struct {
	State     string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// AuthStateRepository implements domain.AuthStateRepository on MongoDB. It is
// the server side of the OAuth redirect round-trip: a state value is stored
// before redirecting to the provider and consumed exactly once on callback.
// Leftover documents (abandoned logins) are reaped by a TTL index.
type AuthStateRepository struct {
	states *mongo.Collection
}

// NewAuthStateRepository creates an AuthStateRepository and ensures the TTL
// index on the collection.
func NewAuthStateRepository(ctx context.Context, db *mongo.Database) (*AuthStateRepository, error) {
	repo := &AuthStateRepository{
		states: db.Collection(AuthStatesCollection),
	}

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
	if _, err := repo.states.Indexes().CreateMany(ctx, indexModels); err != nil {
		log.Warn().Err(err).Msgf("Failed to create indexes for %s collection", AuthStatesCollection)
	}

	return repo, nil
}

// Put stores a state value until expiresAt.
func (r *AuthStateRepository) Put(ctx context.Context, state string, expiresAt time.Time) error {
	doc := authStateDoc{
		State:     state,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
	}
	if _, err := r.states.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to store auth state: %w", err)
	}
	return nil
}

// Take consumes a state value. Find-and-delete keeps this single use even
// when two callbacks race on the same state.
func (r *AuthStateRepository) Take(ctx context.Context, state string) error {
	var doc authStateDoc
	err := r.states.FindOneAndDelete(ctx, bson.M{"_id": state}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrStateNotFound
		}
		return fmt.Errorf("failed to take auth state: %w", err)
	}

	// The TTL reaper runs about once a minute; treat anything past its
	// expiry as gone even if the document was still present.
	if time.Now().After(doc.ExpiresAt) {
		return domain.ErrStateNotFound
	}
	return nil
}

var _ domain.AuthStateRepository = (*AuthStateRepository)(nil)
