package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/HSouheill/admarket_backend/models"
	"github.com/HSouheill/admarket_backend/services"
	"github.com/labstack/echo/v4"
)

// AdvertisementController handles client advertisement listings
type AdvertisementController struct {
	service *services.AdvertisementService
	timeout time.Duration
}

func NewAdvertisementController(service *services.AdvertisementService, timeout time.Duration) *AdvertisementController {
	return &AdvertisementController{service: service, timeout: timeout}
}

func (ac *AdvertisementController) context(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), ac.timeout)
}

func (ac *AdvertisementController) CreateAdvertisement(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req models.AdvertisementRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx, cancel := ac.context(c)
	defer cancel()

	ad, err := ac.service.Create(ctx, actor, req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Advertisement created successfully", ad)
}

// GetMyAdvertisements lists the calling client's advertisements
func (ac *AdvertisementController) GetMyAdvertisements(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	ctx, cancel := ac.context(c)
	defer cancel()

	ads, err := ac.service.ListOwn(ctx, actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Advertisements retrieved successfully", ads)
}

// GetPublicAdvertisements lists active and paused advertisements
func (ac *AdvertisementController) GetPublicAdvertisements(c echo.Context) error {
	ctx, cancel := ac.context(c)
	defer cancel()

	ads, err := ac.service.ListPublic(ctx)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Advertisements retrieved successfully", ads)
}

func (ac *AdvertisementController) GetAdvertisement(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := ac.context(c)
	defer cancel()

	ad, err := ac.service.Get(ctx, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Advertisement retrieved successfully", ad)
}

// UpdateAdvertisement edits the content of the caller's listing
func (ac *AdvertisementController) UpdateAdvertisement(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.AdvertisementUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx, cancel := ac.context(c)
	defer cancel()

	ad, err := ac.service.Update(ctx, actor, id, req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Advertisement updated successfully", ad)
}

func (ac *AdvertisementController) UpdateAdvertisementStatus(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.AdvertisementStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx, cancel := ac.context(c)
	defer cancel()

	ad, err := ac.service.UpdateStatus(ctx, actor, id, req.Status)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Advertisement status updated successfully", ad)
}

func (ac *AdvertisementController) DeleteAdvertisement(c echo.Context) error {
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
	return respond(c, http.StatusOK, "Advertisement deleted successfully", nil)
}
