package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"systemuser/internal/systemuser/model"
)

// PartyClient is the HTTP client for the party register
type PartyClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPartyClient(baseURL string, timeout time.Duration) *PartyClient {
	return &PartyClient{
		baseURL:    trimBaseURL(baseURL),
		httpClient: newHTTPClient(timeout),
	}
}

// GetParty fetches GET /parties/{partyId}
func (c *PartyClient) GetParty(ctx context.Context, partyID int) (*model.Party, error) {
	var party model.Party
	url := fmt.Sprintf("%s/parties/%d", c.baseURL, partyID)

	notFound, err := doJSON(ctx, c.httpClient, http.MethodGet, url, "get party", nil, &party)
	if err != nil {
		return nil, err
	}
	if notFound || party.IsDeleted {
		return nil, nil
	}
	return &party, nil
}
