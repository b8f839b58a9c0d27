package handler

import (
	"net/http"

	"systemuser/internal/systemuser/model"

	"github.com/labstack/echo/v4"
)

// bindPartyRequest binds and validates :partyId/:requestId
func bindPartyRequest(c echo.Context) (*model.PartyRequestReq, error) {
	var req model.PartyRequestReq
	if err := c.Bind(&req); err != nil {
		return nil, &model.ErrorDetail{Code: "bad_request", Message: "Invalid parameters"}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// GetPartyRequest handles GET /systemuser/request/:partyId/:requestId
func (h *SystemUserHandler) GetPartyRequest(c echo.Context) error {
	req, err := bindPartyRequest(c)
	if err != nil {
		return respondError(c, err)
	}

	resp, err := h.Service.GetRequestByPartyAndRequestID(c.Request().Context(), req.PartyID, req.RequestID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// PostApprove handles POST /systemuser/request/:partyId/:requestId/approve
func (h *SystemUserHandler) PostApprove(c echo.Context) error {
	req, err := bindPartyRequest(c)
	if err != nil {
		return respondError(c, err)
	}

	ok, err := h.Service.ApproveAndCreateSystemUser(c.Request().Context(), req.PartyID, req.RequestID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ok)
}

// PostReject handles POST /systemuser/request/:partyId/:requestId/reject
func (h *SystemUserHandler) PostReject(c echo.Context) error {
	req, err := bindPartyRequest(c)
	if err != nil {
		return respondError(c, err)
	}

	ok, err := h.Service.RejectRequest(c.Request().Context(), req.PartyID, req.RequestID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ok)
}

// GetSystemUsers handles GET /systemuser/:partyId
func (h *SystemUserHandler) GetSystemUsers(c echo.Context) error {
	var req struct {
		PartyID int `param:"partyId"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid parameters")
	}

	users, err := h.Service.ListSystemUsersForParty(c.Request().Context(), req.PartyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetSystemUser handles GET /systemuser/:partyId/:systemUserId
func (h *SystemUserHandler) GetSystemUser(c echo.Context) error {
	var req model.PartySystemUserReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid parameters")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	user, err := h.Service.GetSystemUser(c.Request().Context(), req.PartyID, req.SystemUserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteSystemUser handles DELETE /systemuser/:partyId/:systemUserId
func (h *SystemUserHandler) DeleteSystemUser(c echo.Context) error {
	var req model.PartySystemUserReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid parameters")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	if err := h.Service.DeleteSystemUser(c.Request().Context(), req.PartyID, req.SystemUserID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}
