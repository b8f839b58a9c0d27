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

var (
	_ RequestRepository    = (*MongoRequestRepository)(nil)
	_ SystemUserRepository = (*MongoSystemUserRepository)(nil)
)

type MongoSystemUserRepository struct {
	SystemUsers *mongo.Collection
	Requests    *mongo.Collection
	Client      *mongo.Client // for transactions
}

func NewMongoSystemUserRepository(db *mongo.Database, systemUserCollectionName, requestCollectionName string) *MongoSystemUserRepository {
	return &MongoSystemUserRepository{
		SystemUsers: db.Collection(systemUserCollectionName),
		Requests:    db.Collection(requestCollectionName),
		Client:      db.Client(),
	}
}

func (r *MongoSystemUserRepository) EnsureIndexes(ctx context.Context) error {
	// One live system user per (system, reportee, external ref)
	idxExternalID := mongo.IndexModel{
		Keys: bson.D{
			{Key: "system_id", Value: 1},
			{Key: "reportee_org_no", Value: 1},
			{Key: "external_ref", Value: 1},
		},
		Options: options.Index().
			SetUnique(true).
			SetName("uniq_system_user_external_id").
			SetPartialFilterExpression(bson.M{"is_deleted": false}),
	}

	idxParty := mongo.IndexModel{
		Keys:    bson.D{{Key: "party_id", Value: 1}, {Key: "is_deleted", Value: 1}},
		Options: options.Index().SetName("idx_party"),
	}

	_, err := r.SystemUsers.Indexes().CreateMany(ctx, []mongo.IndexModel{idxExternalID, idxParty})
	return errors.Wrap(err, "create system user indexes")
}

func (r *MongoSystemUserRepository) FindActiveByExternalID(ctx context.Context, ext model.ExternalRequestID) (*model.SystemUser, error) {
	return r.findOne(ctx, bson.M{
		"system_id":       ext.SystemID,
		"reportee_org_no": ext.PartyOrgNo,
		"external_ref":    ext.ExternalRef,
		"is_deleted":      false,
	})
}

func (r *MongoSystemUserRepository) FindByID(ctx context.Context, id string) (*model.SystemUser, error) {
	return r.findOne(ctx, bson.M{"_id": id, "is_deleted": false})
}

func (r *MongoSystemUserRepository) findOne(ctx context.Context, filter bson.M) (*model.SystemUser, error) {
	var result model.SystemUser
	err := r.SystemUsers.FindOne(ctx, filter).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, errors.Wrap(err, "find system user")
	}
	return &result, nil
}

func (r *MongoSystemUserRepository) ListActiveForParty(ctx context.Context, partyID string) ([]*model.SystemUser, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created", Value: 1}})
	cursor, err := r.SystemUsers.Find(ctx, bson.M{"party_id": partyID, "is_deleted": false}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list system users")
	}
	defer cursor.Close(ctx)

	results := []*model.SystemUser{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, errors.Wrap(err, "decode system users")
	}
	return results, nil
}

func (r *MongoSystemUserRepository) SoftDelete(ctx context.Context, id string) error {
	return softDeleteSystemUser(ctx, r.SystemUsers, id)
}

func (r *MongoSystemUserRepository) ApproveAndCreateSystemUser(ctx context.Context, requestID string, user *model.SystemUser) error {
	session, err := r.Client.StartSession()
	if err != nil {
		return errors.Wrap(err, "start session")
	}
	defer session.EndSession(ctx)

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		user.Created = time.Now()
		user.IsDeleted = false

		// 1. Persist the system user
		if _, err := r.SystemUsers.InsertOne(sessCtx, user); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, ErrDuplicate
			}
			return nil, errors.Wrap(err, "insert system user")
		}

		// 2. Accept the request, only if it is still New
		if err := updateRequestStatus(sessCtx, r.Requests, requestID, model.StatusNew, model.StatusAccepted); err != nil {
			return nil, err
		}

		// Caller gave up, abort instead of committing
		if err := sessCtx.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	_, err = session.WithTransaction(ctx, callback)
	return err
}

func (r *MongoSystemUserRepository) RevertApproval(ctx context.Context, requestID, systemUserID string) error {
	session, err := r.Client.StartSession()
	if err != nil {
		return errors.Wrap(err, "start session")
	}
	defer session.EndSession(ctx)

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		var req model.Request
		err := r.Requests.FindOne(sessCtx, bson.M{"_id": requestID}).Decode(&req)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Wrap(err, "find request")
		}
		requestGone := err != nil || req.IsDeleted
		if !requestGone && req.Status != model.StatusAccepted {
			return nil, ErrStatusConflict
		}

		if err := softDeleteSystemUser(sessCtx, r.SystemUsers, systemUserID); err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		// A deleted request has nothing to move back; only the user goes.
		if requestGone {
			return nil, nil
		}
		if err := updateRequestStatus(sessCtx, r.Requests, requestID, model.StatusAccepted, model.StatusNew); err != nil {
			return nil, err
		}
		return nil, nil
	}

	_, err = session.WithTransaction(ctx, callback)
	return err
}

func softDeleteSystemUser(ctx context.Context, coll *mongo.Collection, id string) error {
	now := time.Now()
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true, "deleted_at": now}},
	)
	if err != nil {
		return errors.Wrap(err, "soft delete system user")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
