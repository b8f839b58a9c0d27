package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"systemuser/internal/systemuser/handler"
	"systemuser/internal/systemuser/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRoutes(t *testing.T) {
	e := echo.New()
	RegisterRoutes(e, handler.NewSystemUserHandler(nil))

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("cors preflight allows the vendor header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/systemuser/request/vendor", nil)
		req.Header.Set(echo.HeaderOrigin, "https://vendor.example")
		req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowHeaders), model.HeaderVendorOrgNo)
	})

	t.Run("routes are registered", func(t *testing.T) {
		want := []string{
			"POST /api/v1/systemuser/request/vendor",
			"GET /api/v1/systemuser/request/vendor/:requestId",
			"DELETE /api/v1/systemuser/request/vendor/:requestId",
			"GET /api/v1/systemuser/request/vendor/byexternalref/:systemId/:orgNo/:externalRef",
			"GET /api/v1/systemuser/request/:partyId/:requestId",
			"POST /api/v1/systemuser/request/:partyId/:requestId/approve",
			"POST /api/v1/systemuser/request/:partyId/:requestId/reject",
			"GET /api/v1/systemuser/:partyId",
			"GET /api/v1/systemuser/:partyId/:systemUserId",
			"DELETE /api/v1/systemuser/:partyId/:systemUserId",
		}
		registered := map[string]bool{}
		for _, r := range e.Routes() {
			registered[r.Method+" "+r.Path] = true
		}
		for _, route := range want {
			assert.True(t, registered[route], route)
		}
	})
}
