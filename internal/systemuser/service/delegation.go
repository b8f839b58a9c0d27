package service

import (
	"context"
	"log/slog"

	"systemuser/internal/systemuser/client"
	"systemuser/internal/systemuser/metrics"
	"systemuser/internal/systemuser/model"
	"systemuser/internal/systemuser/registry"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// DelegationCheckAggregator checks every default right of a system for a
// party. The outcome is all or nothing: one failed check fails the whole
// batch and no partial results are returned.
type DelegationCheckAggregator struct {
	Registry    registry.SystemRegistry
	Access      client.DelegationAccessClient
	Concurrency int
	logger      *slog.Logger
}

func (a *DelegationCheckAggregator) CheckAllDelegable(ctx context.Context, partyID, systemID string) ([]model.RightResponses, error) {
	rights, err := a.Registry.GetDefaultRights(ctx, systemID)
	if err != nil {
		return nil, errors.Wrap(err, "lookup default rights")
	}
	if len(rights) == 0 {
		return nil, model.ProblemRightsNotFoundOrNotDelegable
	}

	results := make([]model.RightResponses, len(rights))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Concurrency)

	for i, right := range rights {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			data, err := a.Access.CheckDelegationAccess(gctx, partyID, model.DelegationCheckRequest{Resource: right.Resource})
			if err != nil {
				if gctx.Err() == nil {
					a.logger.Warn("Delegation check failed", "party_id", partyID, "system_id", systemID, "error", err)
				}
				return model.ProblemRightsNotFoundOrNotDelegable
			}
			if !allDelegable(data) {
				metrics.RecordDelegationCheck(false)
				return model.ProblemRightsNotFoundOrNotDelegable
			}
			metrics.RecordDelegationCheck(true)
			results[i] = model.RightResponses{Right: right, Responses: data}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// the caller going away is not a delegability verdict
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func allDelegable(data []model.DelegationResponseData) bool {
	if len(data) == 0 {
		return false
	}
	for _, d := range data {
		if d.Status != model.DelegationStatusDelegable {
			return false
		}
	}
	return true
}
