package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/HSouheill/admarket_backend/services"
	"github.com/labstack/echo/v4"
)

// AdminController serves the platform oversight endpoints
type AdminController struct {
	admin        *services.AdminService
	applications *services.ApplicationService
	timeout      time.Duration
}

func NewAdminController(admin *services.AdminService, applications *services.ApplicationService, timeout time.Duration) *AdminController {
	return &AdminController{admin: admin, applications: applications, timeout: timeout}
}

func (ac *AdminController) context(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), ac.timeout)
}

// GetAnalytics returns platform totals
func (ac *AdminController) GetAnalytics(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	ctx, cancel := ac.context(c)
	defer cancel()

	stats, err := ac.admin.Analytics(ctx, actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Analytics retrieved successfully", stats)
}

// GetAllApplications lists every application, newest first
func (ac *AdminController) GetAllApplications(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	ctx, cancel := ac.context(c)
	defer cancel()

	apps, err := ac.applications.AllApplications(ctx, actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Applications retrieved successfully", apps)
}
