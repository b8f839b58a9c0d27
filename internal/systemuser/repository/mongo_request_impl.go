package repository

import (
	"context"
	"time"

	"systemuser/internal/systemuser/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRequestRepository struct {
	Requests *mongo.Collection
}

func NewMongoRequestRepository(db *mongo.Database, collectionName string) *MongoRequestRepository {
	return &MongoRequestRepository{Requests: db.Collection(collectionName)}
}

func (r *MongoRequestRepository) EnsureIndexes(ctx context.Context) error {
	// (system_id, party_org_no, external_ref) unique among live requests
	idxExternalID := mongo.IndexModel{
		Keys: bson.D{
			{Key: "system_id", Value: 1},
			{Key: "party_org_no", Value: 1},
			{Key: "external_ref", Value: 1},
		},
		Options: options.Index().
			SetUnique(true).
			SetName("uniq_external_request_id").
			SetPartialFilterExpression(bson.M{"is_deleted": false}),
	}

	idxStatus := mongo.IndexModel{
		Keys:    bson.D{{Key: "status", Value: 1}},
		Options: options.Index().SetName("idx_status"),
	}

	_, err := r.Requests.Indexes().CreateMany(ctx, []mongo.IndexModel{idxExternalID, idxStatus})
	return errors.Wrap(err, "create request indexes")
}

func (r *MongoRequestRepository) Insert(ctx context.Context, req *model.Request) error {
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	req.IsDeleted = false

	_, err := r.Requests.InsertOne(ctx, req)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return errors.Wrap(err, "insert request")
	}
	return nil
}

func (r *MongoRequestRepository) FindByID(ctx context.Context, id string) (*model.Request, error) {
	return r.findOne(ctx, bson.M{"_id": id, "is_deleted": false})
}

func (r *MongoRequestRepository) FindByExternalID(ctx context.Context, ext model.ExternalRequestID) (*model.Request, error) {
	return r.findOne(ctx, bson.M{
		"system_id":    ext.SystemID,
		"party_org_no": ext.PartyOrgNo,
		"external_ref": ext.ExternalRef,
		"is_deleted":   false,
	})
}

func (r *MongoRequestRepository) findOne(ctx context.Context, filter bson.M) (*model.Request, error) {
	var result model.Request
	err := r.Requests.FindOne(ctx, filter).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, errors.Wrap(err, "find request")
	}
	return &result, nil
}

func (r *MongoRequestRepository) UpdateStatus(ctx context.Context, id string, from, to model.RequestStatus) error {
	return updateRequestStatus(ctx, r.Requests, id, from, to)
}

func (r *MongoRequestRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now()
	res, err := r.Requests.UpdateOne(ctx,
		bson.M{"_id": id, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true, "deleted_at": now, "updated_at": now}},
	)
	if err != nil {
		return errors.Wrap(err, "soft delete request")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// updateRequestStatus is shared with the approve transaction, which passes a session context.
func updateRequestStatus(ctx context.Context, coll *mongo.Collection, id string, from, to model.RequestStatus) error {
	if !from.CanTransitionTo(to) {
		return ErrStatusConflict
	}
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": from, "is_deleted": false},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}},
	)
	if err != nil {
		return errors.Wrap(err, "update request status")
	}
	if res.MatchedCount == 0 {
		return ErrStatusConflict
	}
	return nil
}
