package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"systemuser/internal/systemuser/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Needs a replica set for the transaction tests, e.g.
// SYSTEMUSER_TEST_MONGO_URI=mongodb://localhost:27017/?replicaSet=rs0
func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("SYSTEMUSER_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("SYSTEMUSER_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("systemuser_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestMongoRepositories(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()

	requests := NewMongoRequestRepository(db, "requests")
	users := NewMongoSystemUserRepository(db, "system_users", "requests")
	require.NoError(t, requests.EnsureIndexes(ctx))
	require.NoError(t, users.EnsureIndexes(ctx))

	t.Run("partial unique index rejects a live duplicate only", func(t *testing.T) {
		require.NoError(t, requests.Insert(ctx, newRequest("m1", "dup")))
		assert.ErrorIs(t, requests.Insert(ctx, newRequest("m2", "dup")), ErrDuplicate)

		require.NoError(t, requests.SoftDelete(ctx, "m1"))
		assert.NoError(t, requests.Insert(ctx, newRequest("m3", "dup")))
	})

	t.Run("find returns nil for missing rows", func(t *testing.T) {
		req, err := requests.FindByID(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, req)
	})

	t.Run("approve and revert in transactions", func(t *testing.T) {
		require.NoError(t, requests.Insert(ctx, newRequest("m10", "external")))
		user := newSystemUser("u10")
		require.NoError(t, users.ApproveAndCreateSystemUser(ctx, "m10", user))

		req, err := requests.FindByID(ctx, "m10")
		require.NoError(t, err)
		assert.Equal(t, model.StatusAccepted, req.Status)

		require.NoError(t, users.RevertApproval(ctx, "m10", "u10"))
		req, _ = requests.FindByID(ctx, "m10")
		assert.Equal(t, model.StatusNew, req.Status)
		u, _ := users.FindByID(ctx, "u10")
		assert.Nil(t, u)
	})

	t.Run("revert after the request was deleted removes the user", func(t *testing.T) {
		require.NoError(t, requests.Insert(ctx, newRequest("m30", "deleted")))
		user := newSystemUser("u30")
		user.ExternalRef = "deleted"
		require.NoError(t, users.ApproveAndCreateSystemUser(ctx, "m30", user))
		require.NoError(t, requests.SoftDelete(ctx, "m30"))

		require.NoError(t, users.RevertApproval(ctx, "m30", "u30"))

		u, _ := users.FindByID(ctx, "u30")
		assert.Nil(t, u)
		live, err := users.FindActiveByExternalID(ctx, model.ExternalRequestID{SystemID: "the_matrix", PartyOrgNo: "910493353", ExternalRef: "deleted"})
		require.NoError(t, err)
		assert.Nil(t, live)
	})

	t.Run("approve of a non New request rolls back the user insert", func(t *testing.T) {
		require.NoError(t, requests.Insert(ctx, newRequest("m20", "rejected")))
		require.NoError(t, requests.UpdateStatus(ctx, "m20", model.StatusNew, model.StatusRejected))

		user := newSystemUser("u20")
		user.ExternalRef = "rejected"
		assert.ErrorIs(t, users.ApproveAndCreateSystemUser(ctx, "m20", user), ErrStatusConflict)

		u, _ := users.FindByID(ctx, "u20")
		assert.Nil(t, u)
	})
}
