package client

import (
	"context"
	"strconv"
	"sync"

	"systemuser/internal/systemuser/model"
)

// LocalBaseURL selects the in-process adapters instead of the HTTP clients.
const LocalBaseURL = "local"

// LocalAccessAdapter implements DelegationAccessClient in process. Every
// right is Delegable unless its resource value is listed in NotDelegable.
// Grants are recorded so local runs can be inspected.
type LocalAccessAdapter struct {
	NotDelegable map[string]bool

	mu     sync.Mutex
	grants map[string][]model.RightResponses
}

func NewLocalAccessAdapter(notDelegable ...string) *LocalAccessAdapter {
	a := &LocalAccessAdapter{
		NotDelegable: make(map[string]bool),
		grants:       make(map[string][]model.RightResponses),
	}
	for _, v := range notDelegable {
		a.NotDelegable[v] = true
	}
	return a
}

func (a *LocalAccessAdapter) CheckDelegationAccess(ctx context.Context, partyID string, req model.DelegationCheckRequest) ([]model.DelegationResponseData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	status := model.DelegationStatusDelegable
	for _, pair := range req.Resource {
		if a.NotDelegable[pair.Value] {
			status = "NotDelegable"
		}
	}
	return []model.DelegationResponseData{{
		RightKey: rightKey(req.Resource),
		Resource: req.Resource,
		Action:   "read",
		Status:   status,
	}}, nil
}

func (a *LocalAccessAdapter) DelegateRightsToSystemUser(ctx context.Context, partyID string, user *model.SystemUser, rights []model.RightResponses) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.grants[user.ID] = append(a.grants[user.ID], rights...)
	return nil
}

// Grants returns what was delegated to the system user.
func (a *LocalAccessAdapter) Grants(systemUserID string) []model.RightResponses {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.RightResponses(nil), a.grants[systemUserID]...)
}

// StaticPartyResolver resolves parties from a fixed party id -> org number map.
type StaticPartyResolver struct {
	parties map[int]string
}

// NewStaticPartyResolver skips entries whose key is not a party id.
func NewStaticPartyResolver(parties map[string]string) *StaticPartyResolver {
	r := &StaticPartyResolver{parties: make(map[int]string, len(parties))}
	for k, orgNo := range parties {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		r.parties[id] = orgNo
	}
	return r
}

func (r *StaticPartyResolver) GetParty(ctx context.Context, partyID int) (*model.Party, error) {
	orgNo, ok := r.parties[partyID]
	if !ok {
		return nil, nil
	}
	return &model.Party{PartyID: partyID, OrgNumber: orgNo}, nil
}

func rightKey(pairs []model.AttributePair) string {
	key := ""
	for i, p := range pairs {
		if i > 0 {
			key += ","
		}
		key += p.ID + ":" + p.Value
	}
	return key
}
