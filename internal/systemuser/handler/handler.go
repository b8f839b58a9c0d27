package handler

import (
	"net/http"
	"strings"

	"systemuser/internal/systemuser/model"
	"systemuser/internal/systemuser/service"

	"github.com/labstack/echo/v4"
)

type SystemUserHandler struct {
	Service service.SystemUserRequestService
}

func NewSystemUserHandler(s service.SystemUserRequestService) *SystemUserHandler {
	return &SystemUserHandler{Service: s}
}

// extractVendorOrgNo reads the vendor identity set by the authentication gateway.
func (h *SystemUserHandler) extractVendorOrgNo(c echo.Context) (string, error) {
	orgNo := strings.TrimSpace(c.Request().Header.Get(model.HeaderVendorOrgNo))
	if orgNo == "" {
		return "", service.ErrUnauthorized
	}
	return orgNo, nil
}

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
