package repository

import (
	"context"
	"errors"

	"github.com/fairwayhq/teesheet/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type PlayerRepository struct {
	mongoClient  *mongo.Client
	databaseName string
}

func NewPlayerRepository(mongoClient *mongo.Client, databaseName string) *PlayerRepository {
	return &PlayerRepository{
		mongoClient:  mongoClient,
		databaseName: databaseName,
	}
}

func (r *PlayerRepository) collection() *mongo.Collection {
	return r.mongoClient.Database(r.databaseName).Collection("players")
}

// EnsureIndexes creates the unique email index. Called once at startup.
func (r *PlayerRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *PlayerRepository) FindAll(ctx context.Context) ([]*entity.Player, error) {
	cur, err := r.collection().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}

	var players []*entity.Player
	if err := cur.All(ctx, &players); err != nil {
		return nil, err
	}

	return players, nil
}

func (r *PlayerRepository) FindOneByID(ctx context.Context, id bson.ObjectID) (*entity.Player, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *PlayerRepository) FindOneByEmail(ctx context.Context, email string) (*entity.Player, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *PlayerRepository) FindOneByResetToken(ctx context.Context, token string) (*entity.Player, error) {
	return r.findOne(ctx, bson.M{"resetToken": token})
}

func (r *PlayerRepository) findOne(ctx context.Context, filter bson.M) (*entity.Player, error) {
	var player entity.Player
	err := r.collection().FindOne(ctx, filter).Decode(&player)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrPlayerNotFound
		}
		return nil, err
	}

	return &player, nil
}

func (r *PlayerRepository) CreateOne(ctx context.Context, player *entity.Player) (*entity.Player, error) {
	if player.ID.IsZero() {
		player.ID = bson.NewObjectID()
	}

	_, err := r.collection().InsertOne(ctx, player)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, entity.ErrEmailTaken
		}
		return nil, err
	}

	return player, nil
}

func (r *PlayerRepository) UpdateOne(ctx context.Context, player entity.Player) (*entity.Player, error) {
	filter := bson.M{"_id": player.ID}

	result := r.collection().FindOneAndUpdate(ctx, filter,
		bson.M{"$set": player},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, entity.ErrPlayerNotFound
		}
		return nil, result.Err()
	}

	var updated entity.Player
	if err := result.Decode(&updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// ClearResetToken unsets the reset token fields. $set with the struct
// can't do it because the fields are omitempty.
func (r *PlayerRepository) ClearResetToken(ctx context.Context, id bson.ObjectID) error {
	_, err := r.collection().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$unset": bson.M{"resetToken": "", "resetExpires": ""}},
	)
	return err
}

func (r *PlayerRepository) DeleteOneByID(ctx context.Context, id bson.ObjectID) error {
	_, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	return err
}
