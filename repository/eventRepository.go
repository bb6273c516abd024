package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fairwayhq/teesheet/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type EventRepository struct {
	mongoClient  *mongo.Client
	databaseName string
}

func NewEventRepository(mongoClient *mongo.Client, databaseName string) *EventRepository {
	return &EventRepository{
		mongoClient:  mongoClient,
		databaseName: databaseName,
	}
}

func (r *EventRepository) collection() *mongo.Collection {
	return r.mongoClient.Database(r.databaseName).Collection("events")
}

func (r *EventRepository) FindOneByID(ctx context.Context, id bson.ObjectID) (*entity.Event, error) {
	var event entity.Event
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

// FindManyUpcomingByOrganizations returns future events owned by any of
// the given organizations, soonest first.
func (r *EventRepository) FindManyUpcomingByOrganizations(ctx context.Context, orgIDs []bson.ObjectID) ([]*entity.Event, error) {
	if len(orgIDs) == 0 {
		return []*entity.Event{}, nil
	}

	cur, err := r.collection().Find(ctx,
		bson.M{
			"organizations": bson.M{"$in": orgIDs},
			"date":          bson.M{"$gt": time.Now()},
		},
		options.Find().SetSort(bson.M{"date": 1}),
	)
	if err != nil {
		return nil, err
	}

	var events []*entity.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepository) CreateOne(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	if event.ID.IsZero() {
		event.ID = bson.NewObjectID()
	}

	_, err := r.collection().InsertOne(ctx, event)
	if err != nil {
		return nil, err
	}

	return event, nil
}

// ReplaceOne persists the whole aggregate in a single write. The filter
// matches the revision the caller loaded; when another writer got there
// first the replace matches nothing and the save fails with ErrStaleEvent
// instead of overwriting their change.
func (r *EventRepository) ReplaceOne(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	replacement := *event
	replacement.Revision = event.Revision + 1

	res, err := r.collection().ReplaceOne(ctx,
		bson.M{"_id": event.ID, "revision": event.Revision},
		&replacement,
	)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, entity.ErrStaleEvent
	}

	return &replacement, nil
}
