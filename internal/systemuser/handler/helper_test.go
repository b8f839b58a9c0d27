package handler_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"systemuser/internal/systemuser/client"
	"systemuser/internal/systemuser/handler"
	"systemuser/internal/systemuser/model"
	"systemuser/internal/systemuser/registry"
	"systemuser/internal/systemuser/repository"
	"systemuser/internal/systemuser/router"
	"systemuser/internal/systemuser/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const (
	vendorOrg   = "991825827"
	partyOrg    = "910493353"
	partyID     = "500000"
	apiBase     = "/api/v1/systemuser"
	testSystem  = "the_matrix"
	testProduct = "ske-krav-og-betalinger"
)

const testRegistry = `
systems:
  - system_id: the_matrix
    system_vendor_org_number: "991825827"
    name:
      nb: The Matrix
    rights:
      - resource:
          - id: urn:altinn:resource
            value: ske-krav-og-betalinger
  - system_id: other_system
    system_vendor_org_number: "111111111"
    name:
      en: Other
`

func vendorHeaders() map[string]string {
	return map[string]string{model.HeaderVendorOrgNo: vendorOrg}
}

func createBody() map[string]any {
	return map[string]any{
		"systemId":    testSystem,
		"partyOrgNo":  partyOrg,
		"externalRef": "external",
		"rights": []map[string]any{{
			"resource": []map[string]string{{"id": "urn:altinn:resource", "value": testProduct}},
		}},
	}
}

// SetupServer wires the real service over the in-memory backends.
func SetupServer(t *testing.T, notDelegable ...string) *echo.Echo {
	t.Helper()
	reg, err := registry.FileRegistryFromYAML([]byte(testRegistry))
	require.NoError(t, err)

	store := repository.NewMemoryStore()
	svc := service.NewService(service.Deps{
		Requests:    store.Requests(),
		SystemUsers: store.SystemUsers(),
		Registry:    reg,
		Parties:     client.NewStaticPartyResolver(map[string]string{partyID: partyOrg}),
		Access:      client.NewLocalAccessAdapter(notDelegable...),
	})
	return SetupServerWithService(svc)
}

func SetupServerWithService(svc service.SystemUserRequestService) *echo.Echo {
	e := echo.New()
	router.RegisterRoutes(e, handler.NewSystemUserHandler(svc))
	return e
}

func PerformRequest(e *echo.Echo, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var bodyReader *strings.Reader
	switch b := body.(type) {
	case nil:
		bodyReader = strings.NewReader("")
	case string:
		bodyReader = strings.NewReader(b)
	default:
		raw, _ := json.Marshal(b)
		bodyReader = strings.NewReader(string(raw))
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
