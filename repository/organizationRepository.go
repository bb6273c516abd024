package repository

import (
	"context"

	"github.com/fairwayhq/teesheet/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type OrganizationRepository struct {
	mongoClient  *mongo.Client
	databaseName string
}

func NewOrganizationRepository(mongoClient *mongo.Client, databaseName string) *OrganizationRepository {
	return &OrganizationRepository{
		mongoClient:  mongoClient,
		databaseName: databaseName,
	}
}

func (r *OrganizationRepository) collection() *mongo.Collection {
	return r.mongoClient.Database(r.databaseName).Collection("organizations")
}

func (r *OrganizationRepository) FindManyByIDs(ctx context.Context, ids []bson.ObjectID) ([]*entity.Organization, error) {
	if len(ids) == 0 {
		return []*entity.Organization{}, nil
	}

	cur, err := r.collection().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	var orgs []*entity.Organization
	if err := cur.All(ctx, &orgs); err != nil {
		return nil, err
	}

	return orgs, nil
}
