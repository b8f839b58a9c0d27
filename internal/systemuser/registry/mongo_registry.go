package registry

import (
	"context"

	"systemuser/internal/systemuser/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRegistry reads the system register collection. It never writes.
type MongoRegistry struct {
	collection *mongo.Collection
}

func NewMongoRegistry(db *mongo.Database, collectionName string) *MongoRegistry {
	return &MongoRegistry{collection: db.Collection(collectionName)}
}

func (r *MongoRegistry) GetRegisteredSystem(ctx context.Context, systemID string) (*model.RegisteredSystem, error) {
	var result model.RegisteredSystem
	err := r.collection.FindOne(ctx, bson.M{"system_id": systemID, "is_deleted": bson.M{"$ne": true}}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "find registered system %s", systemID)
	}
	return &result, nil
}

func (r *MongoRegistry) GetDefaultRights(ctx context.Context, systemID string) ([]model.Right, error) {
	system, err := r.GetRegisteredSystem(ctx, systemID)
	if err != nil || system == nil {
		return nil, err
	}
	return system.Rights, nil
}
