package service

import (
	"context"
	"log/slog"

	"systemuser/internal/systemuser/model"
	"systemuser/internal/systemuser/registry"
	"systemuser/internal/systemuser/repository"

	"github.com/pkg/errors"
)

// OrgValidator decides whether a customer organization may receive requests.
type OrgValidator interface {
	ValidateOrg(ctx context.Context, orgNo string) (bool, error)
}

// RedirectValidator decides whether a redirect URL is acceptable for a system.
// It is only consulted for non-empty URLs.
type RedirectValidator interface {
	ValidateRedirectURL(ctx context.Context, system *model.RegisteredSystem, redirectURL string) (bool, error)
}

type AcceptAllOrgs struct{}

func (AcceptAllOrgs) ValidateOrg(ctx context.Context, orgNo string) (bool, error) {
	return true, nil
}

type AcceptAllRedirects struct{}

func (AcceptAllRedirects) ValidateRedirectURL(ctx context.Context, system *model.RegisteredSystem, redirectURL string) (bool, error) {
	return true, nil
}

// AllowListRedirectValidator requires an exact match with one of the system's allowed URLs.
type AllowListRedirectValidator struct{}

func (AllowListRedirectValidator) ValidateRedirectURL(ctx context.Context, system *model.RegisteredSystem, redirectURL string) (bool, error) {
	for _, allowed := range system.AllowedRedirectURLs {
		if allowed == redirectURL {
			return true, nil
		}
	}
	return false, nil
}

// ValidatedRequest is a create payload that passed every pipeline step.
type ValidatedRequest struct {
	ExternalID  model.ExternalRequestID
	System      *model.RegisteredSystem
	Rights      []model.Right
	RedirectURL string
}

// RequestValidationPipeline checks a create payload against the system
// register and the existing requests. It does not write anything.
type RequestValidationPipeline struct {
	Registry    registry.SystemRegistry
	Requests    repository.RequestRepository
	SystemUsers repository.SystemUserRepository
	Orgs        OrgValidator
	Redirects   RedirectValidator
	logger      *slog.Logger
}

func (p *RequestValidationPipeline) Validate(ctx context.Context, vendorOrgNo string, req model.CreateRequestReq) (*ValidatedRequest, error) {
	ext := req.ExternalID()

	// 1. System must exist
	system, err := p.Registry.GetRegisteredSystem(ctx, req.SystemID)
	if err != nil {
		p.logger.Error("Failed to lookup registered system", "system_id", req.SystemID, "error", err)
		return nil, errors.Wrap(err, "lookup registered system")
	}
	if system == nil {
		return nil, model.ProblemSystemIDNotFound
	}

	// 2. External id must be free
	if err := p.CheckExternalIDConflict(ctx, ext); err != nil {
		return nil, err
	}

	// 3. Caller must own the system, reported like an unknown system
	if system.SystemVendorOrgNumber != vendorOrgNo {
		return nil, model.ProblemSystemIDNotFound
	}

	// 4. Customer organization
	ok, err := p.Orgs.ValidateOrg(ctx, req.PartyOrgNo)
	if err != nil {
		p.logger.Error("Failed to validate customer org", "party_org_no", req.PartyOrgNo, "error", err)
		return nil, errors.Wrap(err, "validate customer org")
	}
	if !ok {
		return nil, model.ProblemReporteeOrgNoNotFound
	}

	// 5. Redirect url
	if req.RedirectURL != "" {
		ok, err := p.Redirects.ValidateRedirectURL(ctx, system, req.RedirectURL)
		if err != nil {
			p.logger.Error("Failed to validate redirect url", "system_id", req.SystemID, "error", err)
			return nil, errors.Wrap(err, "validate redirect url")
		}
		if !ok {
			return nil, model.ProblemRedirectURLNotValid
		}
	}

	// 6. Rights
	if !RightsAreSubset(req.Rights, system.Rights) {
		return nil, model.ProblemRightsInvalid
	}

	return &ValidatedRequest{
		ExternalID:  ext,
		System:      system,
		Rights:      req.Rights,
		RedirectURL: req.RedirectURL,
	}, nil
}

// CheckExternalIDConflict returns the problem a create gets when ext is
// already taken by a live system user or request, nil when it is free.
func (p *RequestValidationPipeline) CheckExternalIDConflict(ctx context.Context, ext model.ExternalRequestID) error {
	user, err := p.SystemUsers.FindActiveByExternalID(ctx, ext)
	if err != nil {
		p.logger.Error("Failed to lookup system user by external id",
			"system_id", ext.SystemID, "party_org_no", ext.PartyOrgNo, "external_ref", ext.ExternalRef, "error", err)
		return errors.Wrap(err, "lookup system user by external id")
	}
	if user != nil {
		return model.ProblemExternalRequestIDAlreadyAccepted
	}

	existing, err := p.Requests.FindByExternalID(ctx, ext)
	if err != nil {
		p.logger.Error("Failed to lookup request by external id",
			"system_id", ext.SystemID, "party_org_no", ext.PartyOrgNo, "external_ref", ext.ExternalRef, "error", err)
		return errors.Wrap(err, "lookup request by external id")
	}
	if existing != nil {
		return model.ConflictProblem(existing.Status)
	}
	return nil
}

// RightsAreSubset reports whether every requested right is covered by the
// allow-list. A right is covered when any of its attribute pairs equals any
// pair of any allowed right. Empty inputs never validate.
func RightsAreSubset(requested, allowed []model.Right) bool {
	if len(requested) == 0 || len(allowed) == 0 {
		return false
	}
	if len(requested) > len(allowed) {
		return false
	}

	for _, right := range requested {
		if len(right.Resource) == 0 || !rightMatches(right, allowed) {
			return false
		}
	}
	return true
}

func rightMatches(right model.Right, allowed []model.Right) bool {
	for _, pair := range right.Resource {
		for _, a := range allowed {
			for _, ap := range a.Resource {
				if ap.ID == pair.ID && ap.Value == pair.Value {
					return true
				}
			}
		}
	}
	return false
}
