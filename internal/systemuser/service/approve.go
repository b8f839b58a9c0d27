package service

import (
	"context"
	"strconv"
	"time"

	"systemuser/internal/systemuser/client"
	"systemuser/internal/systemuser/metrics"
	"systemuser/internal/systemuser/model"
	"systemuser/internal/systemuser/repository"

	"github.com/pkg/errors"
)

// ApprovalOrchestrator turns an approved request into a system user.
//
// The store unit (system user insert + request New -> Accepted) is atomic.
// The grant at the access management service happens after commit; when it
// fails the store unit is reverted so the request can be approved again.
type ApprovalOrchestrator struct {
	service             *Service
	Delegation          *DelegationCheckAggregator
	Access              client.DelegationAccessClient
	CompensationTimeout time.Duration
}

func (o *ApprovalOrchestrator) Approve(ctx context.Context, partyID int, requestID string) (bool, error) {
	s := o.service

	// 1. Request, party and system
	req, _, err := s.resolvePartyRequest(ctx, partyID, requestID)
	if err != nil {
		return false, err
	}
	if req.Status != model.StatusNew {
		return false, model.ProblemRequestStatusNotNew
	}

	system, err := s.Registry.GetRegisteredSystem(ctx, req.SystemID)
	if err != nil {
		return false, errors.Wrap(err, "lookup registered system")
	}
	if system == nil {
		return false, model.ProblemSystemIDNotFound
	}

	// 2. Draft system user
	partyIDStr := strconv.Itoa(partyID)
	user := &model.SystemUser{
		ID:               s.newID(),
		IntegrationTitle: system.DisplayName(),
		SystemID:         req.SystemID,
		SystemInternalID: system.SystemInternalID,
		PartyID:          partyIDStr,
		ReporteeOrgNo:    req.PartyOrgNo,
		ExternalRef:      req.ExternalRef,
		SupplierOrgNo:    system.SystemVendorOrgNumber,
	}

	// 3. Every default right must be delegable
	rightResponses, err := o.Delegation.CheckAllDelegable(ctx, partyIDStr, req.SystemID)
	if err != nil {
		return false, err
	}

	// 4. Atomic store unit
	if err := s.SystemUsers.ApproveAndCreateSystemUser(ctx, req.ID, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return false, model.ProblemSystemUserAlreadyExists
		case errors.Is(err, repository.ErrStatusConflict):
			return false, model.ProblemRequestStatusNotNew
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return false, err
		}
		s.logger.Error("Failed to create system user", "request_id", req.ID, "error", err)
		return false, errors.Wrap(err, "approve and create system user")
	}

	// 5. Grant exactly what was checked
	if err := o.Access.DelegateRightsToSystemUser(ctx, partyIDStr, user, rightResponses); err != nil {
		s.logger.Error("Failed to delegate rights, reverting approval",
			"request_id", req.ID, "system_user_id", user.ID, "error", err)
		if cerr := o.compensate(ctx, req.ID, user.ID); cerr != nil {
			metrics.RecordApproval("failed")
			return false, cerr
		}
		metrics.RecordApproval("compensated")
		return false, model.ProblemRightsFailedToDelegate
	}

	metrics.RecordApproval("approved")
	return true, nil
}

// compensate runs even when ctx is already cancelled.
func (o *ApprovalOrchestrator) compensate(ctx context.Context, requestID, systemUserID string) error {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.CompensationTimeout)
	defer cancel()

	if err := o.service.SystemUsers.RevertApproval(cctx, requestID, systemUserID); err != nil {
		o.service.logger.Error("Failed to revert approval",
			"request_id", requestID, "system_user_id", systemUserID, "error", err)
		return errors.Wrap(err, "revert approval")
	}
	return nil
}
