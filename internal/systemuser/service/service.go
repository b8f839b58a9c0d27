package service

import (
	"context"
	"log/slog"
	"time"

	"systemuser/internal/systemuser/client"
	"systemuser/internal/systemuser/metrics"
	"systemuser/internal/systemuser/model"
	"systemuser/internal/systemuser/registry"
	"systemuser/internal/systemuser/repository"
	"systemuser/internal/systemuser/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrUnauthorized is returned by the transport when the caller has no vendor identity.
var ErrUnauthorized = errors.New("unauthorized")

const defaultCompensationTimeout = 10 * time.Second

type SystemUserRequestService interface {
	// Vendor side
	CreateRequest(ctx context.Context, vendorOrgNo string, req model.CreateRequestReq) (*model.RequestResponse, error)
	GetRequestByID(ctx context.Context, vendorOrgNo, requestID string) (*model.RequestResponse, error)
	GetRequestByExternalRef(ctx context.Context, vendorOrgNo string, ext model.ExternalRequestID) (*model.RequestResponse, error)
	DeleteRequest(ctx context.Context, vendorOrgNo, requestID string) error
	// Customer side
	GetRequestByPartyAndRequestID(ctx context.Context, partyID int, requestID string) (*model.RequestResponse, error)
	ApproveAndCreateSystemUser(ctx context.Context, partyID int, requestID string) (bool, error)
	RejectRequest(ctx context.Context, partyID int, requestID string) (bool, error)
	// System users
	ListSystemUsersForParty(ctx context.Context, partyID int) ([]*model.SystemUser, error)
	GetSystemUser(ctx context.Context, partyID int, systemUserID string) (*model.SystemUser, error)
	DeleteSystemUser(ctx context.Context, partyID int, systemUserID string) error
}

// Deps are the collaborators the service is assembled from.
type Deps struct {
	Requests    repository.RequestRepository
	SystemUsers repository.SystemUserRepository
	Registry    registry.SystemRegistry
	Parties     client.PartyResolver
	Access      client.DelegationAccessClient

	// Optional
	OrgValidator        OrgValidator
	RedirectValidator   RedirectValidator
	CheckConcurrency    int
	CompensationTimeout time.Duration
	NewID               func() string
	Logger              *slog.Logger
}

type Service struct {
	Requests    repository.RequestRepository
	SystemUsers repository.SystemUserRepository
	Registry    registry.SystemRegistry
	Parties     client.PartyResolver

	Pipeline   *RequestValidationPipeline
	Delegation *DelegationCheckAggregator
	Approval   *ApprovalOrchestrator

	newID  func() string
	logger *slog.Logger
}

var _ SystemUserRequestService = (*Service)(nil)

func NewService(d Deps) *Service {
	if d.OrgValidator == nil {
		d.OrgValidator = AcceptAllOrgs{}
	}
	if d.RedirectValidator == nil {
		d.RedirectValidator = AcceptAllRedirects{}
	}
	if d.CheckConcurrency < 1 {
		d.CheckConcurrency = 1
	}
	if d.CompensationTimeout <= 0 {
		d.CompensationTimeout = defaultCompensationTimeout
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	if d.Logger == nil {
		d.Logger = util.GetLogger()
	}

	s := &Service{
		Requests:    d.Requests,
		SystemUsers: d.SystemUsers,
		Registry:    d.Registry,
		Parties:     d.Parties,
		newID:       d.NewID,
		logger:      d.Logger,
	}
	s.Pipeline = &RequestValidationPipeline{
		Registry:    d.Registry,
		Requests:    d.Requests,
		SystemUsers: d.SystemUsers,
		Orgs:        d.OrgValidator,
		Redirects:   d.RedirectValidator,
		logger:      d.Logger,
	}
	s.Delegation = &DelegationCheckAggregator{
		Registry:    d.Registry,
		Access:      d.Access,
		Concurrency: d.CheckConcurrency,
		logger:      d.Logger,
	}
	s.Approval = &ApprovalOrchestrator{
		service:             s,
		Delegation:          s.Delegation,
		Access:              d.Access,
		CompensationTimeout: d.CompensationTimeout,
	}
	return s
}

// fail counts business problems per operation and passes err through.
func (s *Service) fail(op string, err error) error {
	var p *model.Problem
	if errors.As(err, &p) {
		metrics.RecordProblem(op, p.Code)
	}
	return err
}

// resolvePartyRequest loads a request on behalf of a party. A request that
// belongs to another organization is reported as not found.
func (s *Service) resolvePartyRequest(ctx context.Context, partyID int, requestID string) (*model.Request, *model.Party, error) {
	party, err := s.Parties.GetParty(ctx, partyID)
	if err != nil {
		s.logger.Error("Failed to resolve party", "party_id", partyID, "error", err)
		return nil, nil, errors.Wrap(err, "resolve party")
	}
	if party == nil || party.OrgNumber == "" {
		return nil, nil, model.ProblemReporteeOrgNoNotFound
	}

	req, err := s.Requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "find request")
	}
	if req == nil || req.PartyOrgNo != party.OrgNumber {
		return nil, nil, model.ProblemRequestNotFound
	}
	return req, party, nil
}

// checkVendor hides requests of systems the vendor does not own.
func (s *Service) checkVendor(ctx context.Context, req *model.Request, vendorOrgNo string) error {
	system, err := s.Registry.GetRegisteredSystem(ctx, req.SystemID)
	if err != nil {
		return errors.Wrap(err, "lookup registered system")
	}
	if system == nil || system.SystemVendorOrgNumber != vendorOrgNo {
		return model.ProblemSystemIDNotFound
	}
	return nil
}
