package router

import (
	"systemuser/internal/systemuser/handler"
	"systemuser/internal/systemuser/model"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(e *echo.Echo, h *handler.SystemUserHandler) {
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, model.HeaderVendorOrgNo},
	}))

	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1/systemuser")
	v1.Use(handler.RequestIDMiddleware)
	v1.Use(handler.MetricsMiddleware)

	// Vendor routes
	v1.POST("/request/vendor", h.PostRequest)
	v1.GET("/request/vendor/:requestId", h.GetRequest)
	v1.DELETE("/request/vendor/:requestId", h.DeleteRequest)
	v1.GET("/request/vendor/byexternalref/:systemId/:orgNo/:externalRef", h.GetRequestByExternalRef)

	// Customer routes
	v1.GET("/request/:partyId/:requestId", h.GetPartyRequest)
	v1.POST("/request/:partyId/:requestId/approve", h.PostApprove)
	v1.POST("/request/:partyId/:requestId/reject", h.PostReject)

	// System users
	v1.GET("/:partyId", h.GetSystemUsers)
	v1.GET("/:partyId/:systemUserId", h.GetSystemUser)
	v1.DELETE("/:partyId/:systemUserId", h.DeleteSystemUser)
}
