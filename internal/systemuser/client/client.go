package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"systemuser/internal/systemuser/model"

	"github.com/pkg/errors"
)

// PartyResolver resolves a party id to its organization. GetParty returns
// (nil, nil) when the register does not know the party.
type PartyResolver interface {
	GetParty(ctx context.Context, partyID int) (*model.Party, error)
}

type DelegationAccessClient interface {
	CheckDelegationAccess(ctx context.Context, partyID string, req model.DelegationCheckRequest) ([]model.DelegationResponseData, error)
	DelegateRightsToSystemUser(ctx context.Context, partyID string, user *model.SystemUser, rights []model.RightResponses) error
}

// StatusError is returned when a downstream service answers with an unexpected status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed with status: %d", e.Op, e.StatusCode)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func trimBaseURL(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/")
}

// doJSON sends body (if any) as JSON and decodes a 200 response into out (if any).
// notFound reports whether the server answered 404.
func doJSON(ctx context.Context, hc *http.Client, method, url, op string, body, out interface{}) (notFound bool, err error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return false, errors.Wrap(err, op)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return false, errors.Wrap(err, op)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return false, errors.Wrap(err, op)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return true, nil
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(msg)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, errors.Wrap(err, op+": decode response")
		}
	}
	return false, nil
}
