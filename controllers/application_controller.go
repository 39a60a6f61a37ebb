package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/HSouheill/admarket_backend/models"
	"github.com/HSouheill/admarket_backend/services"
	"github.com/labstack/echo/v4"
)

// ApplicationController exposes the application review workflow
type ApplicationController struct {
	service *services.ApplicationService
	timeout time.Duration
}

// NewApplicationController creates a new application controller
func NewApplicationController(service *services.ApplicationService, timeout time.Duration) *ApplicationController {
	return &ApplicationController{service: service, timeout: timeout}
}

func (ac *ApplicationController) context(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), ac.timeout)
}

// SubmitApplication creates an application for the calling agency
func (ac *ApplicationController) SubmitApplication(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req models.ApplicationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx, cancel := ac.context(c)
	defer cancel()

	app, err := ac.service.Submit(ctx, actor, req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Application submitted successfully", app)
}

// GetAgencyApplications lists the calling agency's applications
func (ac *ApplicationController) GetAgencyApplications(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	ctx, cancel := ac.context(c)
	defer cancel()

	apps, err := ac.service.AgencyApplications(ctx, actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Applications retrieved successfully", apps)
}

// GetClientApplications lists applications on the calling client's advertisements
func (ac *ApplicationController) GetClientApplications(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	ctx, cancel := ac.context(c)
	defer cancel()

	apps, err := ac.service.ClientApplications(ctx, actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Applications retrieved successfully", apps)
}

// GetAdvertisementApplications lists every application for one advertisement
func (ac *ApplicationController) GetAdvertisementApplications(c echo.Context) error {
	adID, err := paramID(c, "adId")
	if err != nil {
		return err
	}
	ctx, cancel := ac.context(c)
	defer cancel()

	apps, err := ac.service.AdvertisementApplications(ctx, adID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Applications retrieved successfully", apps)
}

// GetApplication returns a single application
func (ac *ApplicationController) GetApplication(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := ac.context(c)
	defer cancel()

	app, err := ac.service.Get(ctx, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Application retrieved successfully", app)
}

// RefreshApplication re-reads an application owned by the calling agency
func (ac *ApplicationController) RefreshApplication(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := ac.context(c)
	defer cancel()

	app, err := ac.service.Refresh(ctx, actor, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Application refreshed successfully", app)
}

// RefreshAllApplications re-reads every application of the calling agency
func (ac *ApplicationController) RefreshAllApplications(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	ctx, cancel := ac.context(c)
	defer cancel()

	apps, err := ac.service.AgencyApplications(ctx, actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "All applications refreshed successfully", apps)
}

// EmployeeReview records the staff decision on an application
func (ac *ApplicationController) EmployeeReview(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.EmployeeReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx, cancel := ac.context(c)
	defer cancel()

	app, err := ac.service.EmployeeReview(ctx, actor, id, req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Employee review submitted successfully", app)
}

// ClientReview records the owning client's decision on an application
func (ac *ApplicationController) ClientReview(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.ClientReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx, cancel := ac.context(c)
	defer cancel()

	app, err := ac.service.ClientReview(ctx, actor, id, req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Client review submitted successfully", app)
}

// UpdateApplicationStatus sets a status directly
func (ac *ApplicationController) UpdateApplicationStatus(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.StatusUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx, cancel := ac.context(c)
	defer cancel()

	app, err := ac.service.LegacyStatusUpdate(ctx, actor, id, req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Application status updated successfully", app)
}

// DeleteApplication removes an application owned by the calling agency
func (ac *ApplicationController) DeleteApplication(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := ac.context(c)
	defer cancel()

	if err := ac.service.Delete(ctx, actor, id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Application deleted successfully", nil)
}

// GetPendingApplications lists applications waiting for employee review
func (ac *ApplicationController) GetPendingApplications(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	ctx, cancel := ac.context(c)
	defer cancel()

	apps, err := ac.service.PendingApplications(ctx, actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Pending applications retrieved successfully", apps)
}

// GetEmployeeDashboard returns the reviewer's queue and counters
func (ac *ApplicationController) GetEmployeeDashboard(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	ctx, cancel := ac.context(c)
	defer cancel()

	dashboard, err := ac.service.Dashboard(ctx, actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}
