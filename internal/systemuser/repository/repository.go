package repository

import (
	"context"

	"systemuser/internal/systemuser/model"

	"github.com/pkg/errors"
)

var (
	ErrDuplicate = errors.New("duplicate record")
	// ErrStatusConflict means the row was not in the expected status when updated.
	ErrStatusConflict = errors.New("request status changed concurrently")
	ErrNotFound       = errors.New("record not found")
)

// RequestRepository stores system user requests. Lookups return (nil, nil)
// when nothing matches.
type RequestRepository interface {
	// Initialize Indexes
	EnsureIndexes(ctx context.Context) error
	// Insert a new request, ErrDuplicate if the external id is taken by a non-deleted request
	Insert(ctx context.Context, req *model.Request) error
	FindByID(ctx context.Context, id string) (*model.Request, error)
	FindByExternalID(ctx context.Context, ext model.ExternalRequestID) (*model.Request, error)
	// Compare-and-set the status, ErrStatusConflict if the request is not in status from
	UpdateStatus(ctx context.Context, id string, from, to model.RequestStatus) error
	// Soft delete, releases the external id
	SoftDelete(ctx context.Context, id string) error
}

// SystemUserRepository stores system users and owns the approve unit that
// spans both system users and requests.
type SystemUserRepository interface {
	EnsureIndexes(ctx context.Context) error
	FindActiveByExternalID(ctx context.Context, ext model.ExternalRequestID) (*model.SystemUser, error)
	FindByID(ctx context.Context, id string) (*model.SystemUser, error)
	ListActiveForParty(ctx context.Context, partyID string) ([]*model.SystemUser, error)
	SoftDelete(ctx context.Context, id string) error
	// Insert user and move the request New -> Accepted, all or nothing
	ApproveAndCreateSystemUser(ctx context.Context, requestID string, user *model.SystemUser) error
	// Undo an approval: soft delete the user and move the request Accepted -> New
	RevertApproval(ctx context.Context, requestID, systemUserID string) error
}
