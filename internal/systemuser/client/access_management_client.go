package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"systemuser/internal/systemuser/model"
)

const systemUserUUIDAttribute = "urn:altinn:systemuser:uuid"

// AccessManagementClient talks to the access management delegation API.
type AccessManagementClient struct {
	baseURL    string
	httpClient *http.Client
}

type delegationTo struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type delegationRight struct {
	Resource []model.AttributePair `json:"resource"`
	Action   string                `json:"action,omitempty"`
}

// DelegationRequest is the body of the offered-delegation call.
type DelegationRequest struct {
	To     []delegationTo    `json:"to"`
	Rights []delegationRight `json:"rights"`
}

func NewAccessManagementClient(baseURL string, timeout time.Duration) *AccessManagementClient {
	return &AccessManagementClient{
		baseURL:    trimBaseURL(baseURL),
		httpClient: newHTTPClient(timeout),
	}
}

// CheckDelegationAccess posts a delegation check for one right on behalf of partyID.
// A 404 yields an empty result, which callers treat as not delegable.
func (c *AccessManagementClient) CheckDelegationAccess(ctx context.Context, partyID string, req model.DelegationCheckRequest) ([]model.DelegationResponseData, error) {
	url := fmt.Sprintf("%s/internal/%s/rights/delegation/delegationcheck", c.baseURL, partyID)

	var out []model.DelegationResponseData
	notFound, err := doJSON(ctx, c.httpClient, http.MethodPost, url, "delegation check", req, &out)
	if err != nil {
		return nil, err
	}
	if notFound {
		return nil, nil
	}
	return out, nil
}

// DelegateRightsToSystemUser grants every checked right to the system user.
func (c *AccessManagementClient) DelegateRightsToSystemUser(ctx context.Context, partyID string, user *model.SystemUser, rights []model.RightResponses) error {
	url := fmt.Sprintf("%s/internal/%s/rights/delegation/offered", c.baseURL, partyID)

	body := DelegationRequest{
		To: []delegationTo{{ID: systemUserUUIDAttribute, Value: user.ID}},
	}
	for _, rr := range rights {
		for _, resp := range rr.Responses {
			body.Rights = append(body.Rights, delegationRight{Resource: resp.Resource, Action: resp.Action})
		}
	}

	notFound, err := doJSON(ctx, c.httpClient, http.MethodPost, url, "delegate rights", body, nil)
	if err != nil {
		return err
	}
	if notFound {
		return &StatusError{Op: "delegate rights", StatusCode: http.StatusNotFound}
	}
	return nil
}
