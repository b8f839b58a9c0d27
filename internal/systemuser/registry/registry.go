package registry

import (
	"context"

	"systemuser/internal/systemuser/model"
)

// SystemRegistry resolves registered systems. GetRegisteredSystem returns
// (nil, nil) for unknown or deleted systems.
type SystemRegistry interface {
	GetRegisteredSystem(ctx context.Context, systemID string) (*model.RegisteredSystem, error)
	// The full right list of the system, used for delegation checks
	GetDefaultRights(ctx context.Context, systemID string) ([]model.Right, error)
}
