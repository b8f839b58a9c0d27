package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"systemuser/internal/systemuser/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRight = model.Right{Resource: []model.AttributePair{{ID: "urn:altinn:resource", Value: "ske-krav-og-betalinger"}}}

// createMockServer serves the party register and access management endpoints
func createMockServer(t *testing.T, delegable string, delegateStatus int, gotDelegation *DelegationRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/parties/500000" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(model.Party{PartyID: 500000, OrgNumber: "910493353"})

		case r.URL.Path == "/parties/500001" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(model.Party{PartyID: 500001, OrgNumber: "910493354", IsDeleted: true})

		case r.URL.Path == "/parties/500666" && r.Method == http.MethodGet:
			http.Error(w, "boom", http.StatusInternalServerError)

		case r.URL.Path == "/internal/500000/rights/delegation/delegationcheck" && r.Method == http.MethodPost:
			var req model.DelegationCheckRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			json.NewEncoder(w).Encode([]model.DelegationResponseData{{
				RightKey: "k", Resource: req.Resource, Action: "read", Status: delegable,
			}})

		case r.URL.Path == "/internal/500000/rights/delegation/offered" && r.Method == http.MethodPost:
			if gotDelegation != nil {
				require.NoError(t, json.NewDecoder(r.Body).Decode(gotDelegation))
			}
			w.WriteHeader(delegateStatus)

		default:
			http.NotFound(w, r)
		}
	}))
}

func TestPartyClient(t *testing.T) {
	srv := createMockServer(t, model.DelegationStatusDelegable, http.StatusOK, nil)
	defer srv.Close()
	c := NewPartyClient(srv.URL+"/", time.Second)
	ctx := context.Background()

	t.Run("resolves a known party", func(t *testing.T) {
		party, err := c.GetParty(ctx, 500000)
		require.NoError(t, err)
		require.NotNil(t, party)
		assert.Equal(t, "910493353", party.OrgNumber)
	})

	t.Run("unknown party is nil without error", func(t *testing.T) {
		party, err := c.GetParty(ctx, 123)
		assert.NoError(t, err)
		assert.Nil(t, party)
	})

	t.Run("deleted party is nil", func(t *testing.T) {
		party, err := c.GetParty(ctx, 500001)
		assert.NoError(t, err)
		assert.Nil(t, party)
	})

	t.Run("server error surfaces as StatusError", func(t *testing.T) {
		_, err := c.GetParty(ctx, 500666)
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	})
}

func TestAccessManagementClient(t *testing.T) {
	ctx := context.Background()

	t.Run("delegation check returns the statuses", func(t *testing.T) {
		srv := createMockServer(t, model.DelegationStatusDelegable, http.StatusOK, nil)
		defer srv.Close()
		c := NewAccessManagementClient(srv.URL, time.Second)

		res, err := c.CheckDelegationAccess(ctx, "500000", model.DelegationCheckRequest{Resource: testRight.Resource})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, model.DelegationStatusDelegable, res[0].Status)
		assert.Equal(t, testRight.Resource, res[0].Resource)
	})

	t.Run("delegation check on unknown party is empty", func(t *testing.T) {
		srv := createMockServer(t, model.DelegationStatusDelegable, http.StatusOK, nil)
		defer srv.Close()
		c := NewAccessManagementClient(srv.URL, time.Second)

		res, err := c.CheckDelegationAccess(ctx, "42", model.DelegationCheckRequest{Resource: testRight.Resource})
		assert.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("delegate sends the system user and the checked rights", func(t *testing.T) {
		var got DelegationRequest
		srv := createMockServer(t, model.DelegationStatusDelegable, http.StatusOK, &got)
		defer srv.Close()
		c := NewAccessManagementClient(srv.URL, time.Second)

		rights := []model.RightResponses{{
			Right:     testRight,
			Responses: []model.DelegationResponseData{{Resource: testRight.Resource, Action: "read", Status: model.DelegationStatusDelegable}},
		}}
		err := c.DelegateRightsToSystemUser(ctx, "500000", &model.SystemUser{ID: "su-1"}, rights)
		require.NoError(t, err)
		require.Len(t, got.To, 1)
		assert.Equal(t, "su-1", got.To[0].Value)
		require.Len(t, got.Rights, 1)
		assert.Equal(t, "read", got.Rights[0].Action)
	})

	t.Run("delegate failure is an error", func(t *testing.T) {
		srv := createMockServer(t, model.DelegationStatusDelegable, http.StatusBadRequest, nil)
		defer srv.Close()
		c := NewAccessManagementClient(srv.URL, time.Second)

		err := c.DelegateRightsToSystemUser(ctx, "500000", &model.SystemUser{ID: "su-1"}, nil)
		assert.Error(t, err)
	})

	t.Run("cancelled context aborts the call", func(t *testing.T) {
		srv := createMockServer(t, model.DelegationStatusDelegable, http.StatusOK, nil)
		defer srv.Close()
		c := NewAccessManagementClient(srv.URL, time.Second)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := c.CheckDelegationAccess(cancelled, "500000", model.DelegationCheckRequest{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLocalAdapters(t *testing.T) {
	ctx := context.Background()

	t.Run("local access adapter denies listed resources", func(t *testing.T) {
		a := NewLocalAccessAdapter("secret")
		res, err := a.CheckDelegationAccess(ctx, "500000", model.DelegationCheckRequest{Resource: testRight.Resource})
		require.NoError(t, err)
		assert.Equal(t, model.DelegationStatusDelegable, res[0].Status)

		res, err = a.CheckDelegationAccess(ctx, "500000", model.DelegationCheckRequest{
			Resource: []model.AttributePair{{ID: "urn:altinn:resource", Value: "secret"}},
		})
		require.NoError(t, err)
		assert.NotEqual(t, model.DelegationStatusDelegable, res[0].Status)
	})

	t.Run("local access adapter records grants", func(t *testing.T) {
		a := NewLocalAccessAdapter()
		require.NoError(t, a.DelegateRightsToSystemUser(ctx, "500000", &model.SystemUser{ID: "su-1"}, []model.RightResponses{{Right: testRight}}))
		assert.Len(t, a.Grants("su-1"), 1)
	})

	t.Run("static party resolver", func(t *testing.T) {
		r := NewStaticPartyResolver(map[string]string{"500000": "910493353", "bad": "1"})
		party, err := r.GetParty(ctx, 500000)
		require.NoError(t, err)
		assert.Equal(t, "910493353", party.OrgNumber)

		party, err = r.GetParty(ctx, 1)
		assert.NoError(t, err)
		assert.Nil(t, party)
	})
}
