package handler

import (
	"errors"
	"net/http"

	"systemuser/internal/systemuser/model"
	"systemuser/internal/systemuser/service"
	"systemuser/internal/systemuser/util"

	"github.com/labstack/echo/v4"
)

// Helper to map errors to HTTP status and body
func httpError(err error) (int, model.ErrorResponse) {
	var problem *model.Problem
	var detail *model.ErrorDetail

	switch {
	case errors.As(err, &problem):
		return problem.Status, model.ErrorResponse{
			Error: model.ErrorDetail{Code: problem.Code, Message: problem.Detail},
		}
	case errors.As(err, &detail):
		return http.StatusBadRequest, model.ErrorResponse{Error: *detail}
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "unauthorized", Message: "Unauthorized"},
		}
	default:
		return http.StatusInternalServerError, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "internal_error", Message: "Internal server error"},
		}
	}
}

func respondError(c echo.Context, err error) error {
	status, body := httpError(err)
	body.Error.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)
	if status == http.StatusInternalServerError {
		util.GetLogger().Error("Unhandled error",
			"method", c.Request().Method,
			"path", c.Path(),
			"request_id", body.Error.RequestID,
			"error", err,
		)
	}
	return c.JSON(status, body)
}

func badRequest(c echo.Context, msg string) error {
	return respondError(c, &model.ErrorDetail{Code: "bad_request", Message: msg})
}
