package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"simple-microservice/internal/domain"
)

const tokensCollection = "tokens"

type mongoToken struct {
	ID          string    `bson:"_id"`
	Email       string    `bson:"email"`
	AccessToken string    `bson:"accessToken"`
	State       string    `bson:"state"`
	ExpiryDate  time.Time `bson:"expiryDate"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func fromDomainToken(t domain.TokenRecord) mongoToken {
	return mongoToken{
		ID:          t.ID,
		Email:       t.Email,
		AccessToken: t.AccessToken,
		State:       string(t.State),
		ExpiryDate:  t.ExpiryDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d mongoToken) toDomain() domain.TokenRecord {
	return domain.TokenRecord{
		ID:          d.ID,
		Email:       d.Email,
		AccessToken: d.AccessToken,
		State:       domain.TokenState(d.State),
		ExpiryDate:  d.ExpiryDate.UTC(),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// MongoTokenRepository implementa TokenRepository sobre la coleccion tokens.
type MongoTokenRepository struct {
	coll *mongo.Collection
}

func NewMongoTokenRepository(db *mongo.Database) *MongoTokenRepository {
	return &MongoTokenRepository{coll: db.Collection(tokensCollection)}
}

// EnsureIndexes indexa accessToken, que es la clave de busqueda en logout.
func (r *MongoTokenRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "accessToken", Value: 1}},
	})
	return err
}

func (r *MongoTokenRepository) Create(ctx context.Context, record domain.TokenRecord) error {
	_, err := r.coll.InsertOne(ctx, fromDomainToken(record))
	return err
}

func (r *MongoTokenRepository) GetByValue(ctx context.Context, accessToken string) (domain.TokenRecord, error) {
	if accessToken == "" {
		return domain.TokenRecord{}, ErrNotFound
	}
	var doc mongoToken
	filter := bson.M{"accessToken": accessToken, "state": string(domain.TokenActive)}
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.TokenRecord{}, ErrNotFound
	}
	if err != nil {
		return domain.TokenRecord{}, err
	}
	return doc.toDomain(), nil
}

func (r *MongoTokenRepository) Update(ctx context.Context, record domain.TokenRecord) error {
	update := bson.M{"$set": bson.M{
		"accessToken": record.AccessToken,
		"state":       string(record.State),
		"updatedAt":   record.UpdatedAt,
	}}
	res, err := r.coll.UpdateByID(ctx, record.ID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
