package handler

import (
	"net/http"

	"systemuser/internal/systemuser/model"

	"github.com/labstack/echo/v4"
)

// PostRequest handles POST /systemuser/request/vendor
func (h *SystemUserHandler) PostRequest(c echo.Context) error {
	// 1. Vendor identity
	vendorOrgNo, err := h.extractVendorOrgNo(c)
	if err != nil {
		return respondError(c, err)
	}

	// 2. Bind
	var req model.CreateRequestReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	// 3. Call Service
	resp, err := h.Service.CreateRequest(c.Request().Context(), vendorOrgNo, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, resp)
}

// GetRequest handles GET /systemuser/request/vendor/:requestId
func (h *SystemUserHandler) GetRequest(c echo.Context) error {
	vendorOrgNo, err := h.extractVendorOrgNo(c)
	if err != nil {
		return respondError(c, err)
	}

	var req model.VendorRequestReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid parameters")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	resp, err := h.Service.GetRequestByID(c.Request().Context(), vendorOrgNo, req.RequestID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetRequestByExternalRef handles GET /systemuser/request/vendor/byexternalref/:systemId/:orgNo/:externalRef
func (h *SystemUserHandler) GetRequestByExternalRef(c echo.Context) error {
	vendorOrgNo, err := h.extractVendorOrgNo(c)
	if err != nil {
		return respondError(c, err)
	}

	var req model.GetRequestByExternalRefReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid parameters")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	resp, err := h.Service.GetRequestByExternalRef(c.Request().Context(), vendorOrgNo, req.ExternalID())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// DeleteRequest handles DELETE /systemuser/request/vendor/:requestId
func (h *SystemUserHandler) DeleteRequest(c echo.Context) error {
	vendorOrgNo, err := h.extractVendorOrgNo(c)
	if err != nil {
		return respondError(c, err)
	}

	var req model.VendorRequestReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid parameters")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	if err := h.Service.DeleteRequest(c.Request().Context(), vendorOrgNo, req.RequestID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}
