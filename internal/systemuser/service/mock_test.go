package service

import (
	"context"
	"log/slog"

	"systemuser/internal/systemuser/model"

	"github.com/stretchr/testify/mock"
)

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRequestRepository) Insert(ctx context.Context, req *model.Request) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequestRepository) FindByID(ctx context.Context, id string) (*model.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Request), args.Error(1)
}

func (m *MockRequestRepository) FindByExternalID(ctx context.Context, ext model.ExternalRequestID) (*model.Request, error) {
	args := m.Called(ctx, ext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Request), args.Error(1)
}

func (m *MockRequestRepository) UpdateStatus(ctx context.Context, id string, from, to model.RequestStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockRequestRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSystemUserRepository struct {
	mock.Mock
}

func (m *MockSystemUserRepository) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSystemUserRepository) FindActiveByExternalID(ctx context.Context, ext model.ExternalRequestID) (*model.SystemUser, error) {
	args := m.Called(ctx, ext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SystemUser), args.Error(1)
}

func (m *MockSystemUserRepository) FindByID(ctx context.Context, id string) (*model.SystemUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SystemUser), args.Error(1)
}

func (m *MockSystemUserRepository) ListActiveForParty(ctx context.Context, partyID string) ([]*model.SystemUser, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SystemUser), args.Error(1)
}

func (m *MockSystemUserRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSystemUserRepository) ApproveAndCreateSystemUser(ctx context.Context, requestID string, user *model.SystemUser) error {
	args := m.Called(ctx, requestID, user)
	return args.Error(0)
}

func (m *MockSystemUserRepository) RevertApproval(ctx context.Context, requestID, systemUserID string) error {
	args := m.Called(ctx, requestID, systemUserID)
	return args.Error(0)
}

type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) GetRegisteredSystem(ctx context.Context, systemID string) (*model.RegisteredSystem, error) {
	args := m.Called(ctx, systemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RegisteredSystem), args.Error(1)
}

func (m *MockRegistry) GetDefaultRights(ctx context.Context, systemID string) ([]model.Right, error) {
	args := m.Called(ctx, systemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Right), args.Error(1)
}

type MockPartyResolver struct {
	mock.Mock
}

func (m *MockPartyResolver) GetParty(ctx context.Context, partyID int) (*model.Party, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Party), args.Error(1)
}

type MockAccessClient struct {
	mock.Mock
}

func (m *MockAccessClient) CheckDelegationAccess(ctx context.Context, partyID string, req model.DelegationCheckRequest) ([]model.DelegationResponseData, error) {
	args := m.Called(ctx, partyID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DelegationResponseData), args.Error(1)
}

func (m *MockAccessClient) DelegateRightsToSystemUser(ctx context.Context, partyID string, user *model.SystemUser, rights []model.RightResponses) error {
	args := m.Called(ctx, partyID, user, rights)
	return args.Error(0)
}

// mocks bundles one fresh set of collaborators
type mocks struct {
	requests *MockRequestRepository
	users    *MockSystemUserRepository
	registry *MockRegistry
	parties  *MockPartyResolver
	access   *MockAccessClient
	logger   *slog.Logger
}

func newMocks() *mocks {
	return &mocks{
		requests: new(MockRequestRepository),
		users:    new(MockSystemUserRepository),
		registry: new(MockRegistry),
		parties:  new(MockPartyResolver),
		access:   new(MockAccessClient),
	}
}

func (m *mocks) service() *Service {
	return NewService(Deps{
		Requests:         m.requests,
		SystemUsers:      m.users,
		Registry:         m.registry,
		Parties:          m.parties,
		Access:           m.access,
		CheckConcurrency: 2,
		NewID:            func() string { return testRequestID },
		Logger:           m.logger,
	})
}

func (m *mocks) assertExpectations(t mock.TestingT) {
	m.requests.AssertExpectations(t)
	m.users.AssertExpectations(t)
	m.registry.AssertExpectations(t)
	m.parties.AssertExpectations(t)
	m.access.AssertExpectations(t)
}
