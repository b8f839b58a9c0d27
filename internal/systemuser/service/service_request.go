package service

import (
	"context"

	"systemuser/internal/systemuser/metrics"
	"systemuser/internal/systemuser/model"
	"systemuser/internal/systemuser/repository"

	"github.com/pkg/errors"
)

func (s *Service) CreateRequest(ctx context.Context, vendorOrgNo string, req model.CreateRequestReq) (*model.RequestResponse, error) {
	validated, err := s.Pipeline.Validate(ctx, vendorOrgNo, req)
	if err != nil {
		return nil, s.fail("create", err)
	}

	ext := validated.ExternalID
	request := &model.Request{
		ID:          s.newID(),
		SystemID:    ext.SystemID,
		PartyOrgNo:  ext.PartyOrgNo,
		ExternalRef: ext.ExternalRef,
		Rights:      validated.Rights,
		Status:      model.StatusNew,
		RedirectURL: validated.RedirectURL,
	}

	if err := s.Requests.Insert(ctx, request); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// A concurrent create won; answer as a sequential retry would
			conflict := s.Pipeline.CheckExternalIDConflict(ctx, ext)
			var p *model.Problem
			if !errors.As(conflict, &p) {
				conflict = model.ProblemExternalRequestIDPending
			}
			return nil, s.fail("create", conflict)
		}
		s.logger.Error("Failed to store request", "system_id", ext.SystemID, "error", err)
		return nil, s.fail("create", model.ProblemRequestCouldNotBeStored)
	}

	metrics.RecordRequestCreated()
	return model.NewRequestResponse(request), nil
}

func (s *Service) GetRequestByID(ctx context.Context, vendorOrgNo, requestID string) (*model.RequestResponse, error) {
	req, err := s.Requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, errors.Wrap(err, "find request")
	}
	if req == nil {
		return nil, s.fail("get", model.ProblemRequestNotFound)
	}
	if err := s.checkVendor(ctx, req, vendorOrgNo); err != nil {
		return nil, s.fail("get", err)
	}
	return model.NewRequestResponse(req), nil
}

func (s *Service) GetRequestByExternalRef(ctx context.Context, vendorOrgNo string, ext model.ExternalRequestID) (*model.RequestResponse, error) {
	req, err := s.Requests.FindByExternalID(ctx, ext)
	if err != nil {
		return nil, errors.Wrap(err, "find request by external id")
	}
	if req == nil {
		return nil, s.fail("get_by_external_ref", model.ProblemRequestNotFound)
	}
	if err := s.checkVendor(ctx, req, vendorOrgNo); err != nil {
		return nil, s.fail("get_by_external_ref", err)
	}
	return model.NewRequestResponse(req), nil
}

// DeleteRequest soft deletes a request in any status, which frees its external id.
func (s *Service) DeleteRequest(ctx context.Context, vendorOrgNo, requestID string) error {
	req, err := s.Requests.FindByID(ctx, requestID)
	if err != nil {
		return errors.Wrap(err, "find request")
	}
	if req == nil {
		return s.fail("delete", model.ProblemRequestNotFound)
	}
	if err := s.checkVendor(ctx, req, vendorOrgNo); err != nil {
		return s.fail("delete", err)
	}

	if err := s.Requests.SoftDelete(ctx, requestID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.fail("delete", model.ProblemRequestNotFound)
		}
		return errors.Wrap(err, "delete request")
	}
	return nil
}

func (s *Service) GetRequestByPartyAndRequestID(ctx context.Context, partyID int, requestID string) (*model.RequestResponse, error) {
	req, _, err := s.resolvePartyRequest(ctx, partyID, requestID)
	if err != nil {
		return nil, s.fail("get_by_party", err)
	}
	return model.NewRequestResponse(req), nil
}

func (s *Service) ApproveAndCreateSystemUser(ctx context.Context, partyID int, requestID string) (bool, error) {
	ok, err := s.Approval.Approve(ctx, partyID, requestID)
	if err != nil {
		return false, s.fail("approve", err)
	}
	return ok, nil
}

// RejectRequest is the customer declining a pending request.
func (s *Service) RejectRequest(ctx context.Context, partyID int, requestID string) (bool, error) {
	req, _, err := s.resolvePartyRequest(ctx, partyID, requestID)
	if err != nil {
		return false, s.fail("reject", err)
	}
	if req.Status != model.StatusNew {
		return false, s.fail("reject", model.ProblemRequestStatusNotNew)
	}

	if err := s.Requests.UpdateStatus(ctx, req.ID, model.StatusNew, model.StatusRejected); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return false, s.fail("reject", model.ProblemRequestStatusNotNew)
		}
		return false, errors.Wrap(err, "reject request")
	}
	metrics.RecordApproval("rejected")
	return true, nil
}
