package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"systemuser/internal/systemuser/model"
)

var (
	_ RequestRepository    = (*MemoryRequestRepository)(nil)
	_ SystemUserRepository = (*MemorySystemUserRepository)(nil)
)

// MemoryStore keeps requests and system users in process. It enforces the
// same uniqueness and status rules as the Mongo implementation and is used
// for local runs and tests.
type MemoryStore struct {
	mu          sync.Mutex
	requests    map[string]*model.Request
	systemUsers map[string]*model.SystemUser
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		requests:    make(map[string]*model.Request),
		systemUsers: make(map[string]*model.SystemUser),
	}
}

func (s *MemoryStore) Requests() *MemoryRequestRepository {
	return &MemoryRequestRepository{store: s}
}

func (s *MemoryStore) SystemUsers() *MemorySystemUserRepository {
	return &MemorySystemUserRepository{store: s}
}

type MemoryRequestRepository struct {
	store *MemoryStore
}

func (r *MemoryRequestRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

func (r *MemoryRequestRepository) Insert(ctx context.Context, req *model.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findRequestByExternalID(req.ExternalID()) != nil {
		return ErrDuplicate
	}
	if _, exists := s.requests[req.ID]; exists {
		return ErrDuplicate
	}

	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	req.IsDeleted = false
	s.requests[req.ID] = copyRequest(req)
	return nil
}

func (r *MemoryRequestRepository) FindByID(ctx context.Context, id string) (*model.Request, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok || req.IsDeleted {
		return nil, nil
	}
	return copyRequest(req), nil
}

func (r *MemoryRequestRepository) FindByExternalID(ctx context.Context, ext model.ExternalRequestID) (*model.Request, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if req := s.findRequestByExternalID(ext); req != nil {
		return copyRequest(req), nil
	}
	return nil, nil
}

func (r *MemoryRequestRepository) UpdateStatus(ctx context.Context, id string, from, to model.RequestStatus) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateStatus(id, from, to)
}

func (r *MemoryRequestRepository) SoftDelete(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok || req.IsDeleted {
		return ErrNotFound
	}
	now := time.Now()
	req.IsDeleted = true
	req.DeletedAt = &now
	req.UpdatedAt = now
	return nil
}

type MemorySystemUserRepository struct {
	store *MemoryStore
}

func (r *MemorySystemUserRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

func (r *MemorySystemUserRepository) FindActiveByExternalID(ctx context.Context, ext model.ExternalRequestID) (*model.SystemUser, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if u := s.findUserByExternalID(ext); u != nil {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r *MemorySystemUserRepository) FindByID(ctx context.Context, id string) (*model.SystemUser, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.systemUsers[id]
	if !ok || u.IsDeleted {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *MemorySystemUserRepository) ListActiveForParty(ctx context.Context, partyID string) ([]*model.SystemUser, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	results := []*model.SystemUser{}
	for _, u := range s.systemUsers {
		if u.PartyID == partyID && !u.IsDeleted {
			c := *u
			results = append(results, &c)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Created.Before(results[j].Created) })
	return results, nil
}

func (r *MemorySystemUserRepository) SoftDelete(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.softDeleteUser(id)
}

func (r *MemorySystemUserRepository) ApproveAndCreateSystemUser(ctx context.Context, requestID string, user *model.SystemUser) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	ext := model.ExternalRequestID{SystemID: user.SystemID, PartyOrgNo: user.ReporteeOrgNo, ExternalRef: user.ExternalRef}
	if s.findUserByExternalID(ext) != nil {
		return ErrDuplicate
	}
	req, ok := s.requests[requestID]
	if !ok || req.IsDeleted || req.Status != model.StatusNew {
		return ErrStatusConflict
	}
	// nothing has been written yet, so a cancelled caller leaves no trace
	if err := ctx.Err(); err != nil {
		return err
	}

	user.Created = time.Now()
	user.IsDeleted = false
	c := *user
	s.systemUsers[user.ID] = &c
	req.Status = model.StatusAccepted
	req.UpdatedAt = time.Now()
	return nil
}

func (r *MemorySystemUserRepository) RevertApproval(ctx context.Context, requestID, systemUserID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	// A deleted request has nothing to move back; only the user goes.
	req, ok := s.requests[requestID]
	if ok && !req.IsDeleted && req.Status != model.StatusAccepted {
		return ErrStatusConflict
	}

	if err := s.softDeleteUser(systemUserID); err != nil && err != ErrNotFound {
		return err
	}
	if !ok || req.IsDeleted {
		return nil
	}
	return s.updateStatus(requestID, model.StatusAccepted, model.StatusNew)
}

// helpers below expect s.mu to be held

func (s *MemoryStore) findRequestByExternalID(ext model.ExternalRequestID) *model.Request {
	for _, req := range s.requests {
		if !req.IsDeleted && req.ExternalID() == ext {
			return req
		}
	}
	return nil
}

func (s *MemoryStore) findUserByExternalID(ext model.ExternalRequestID) *model.SystemUser {
	for _, u := range s.systemUsers {
		if !u.IsDeleted && u.SystemID == ext.SystemID && u.ReporteeOrgNo == ext.PartyOrgNo && u.ExternalRef == ext.ExternalRef {
			return u
		}
	}
	return nil
}

func (s *MemoryStore) updateStatus(id string, from, to model.RequestStatus) error {
	if !from.CanTransitionTo(to) {
		return ErrStatusConflict
	}
	req, ok := s.requests[id]
	if !ok || req.IsDeleted || req.Status != from {
		return ErrStatusConflict
	}
	req.Status = to
	req.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) softDeleteUser(id string) error {
	u, ok := s.systemUsers[id]
	if !ok || u.IsDeleted {
		return ErrNotFound
	}
	now := time.Now()
	u.IsDeleted = true
	u.DeletedAt = &now
	return nil
}

func copyRequest(req *model.Request) *model.Request {
	c := *req
	c.Rights = append([]model.Right(nil), req.Rights...)
	return &c
}
