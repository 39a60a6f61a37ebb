package workflow

import (
	"github.com/HSouheill/admarket_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientVisibleStatuses are the statuses a client may see. Applications
// still awaiting employee review are hidden from clients.
var ClientVisibleStatuses = []models.ApplicationStatus{
	models.StatusClientReview,
	models.StatusApproved,
	models.StatusRejected,
	models.StatusCompleted,
}

// AgencyView selects every application the agency submitted
func AgencyView(actor Actor) (models.ApplicationFilter, error) {
	if err := Authorize(actor, ActionAgencyView, nil, nil); err != nil {
		return models.ApplicationFilter{}, err
	}
	id := actor.ID()
	return models.ApplicationFilter{AgencyID: &id}, nil
}

// ClientView selects applications on the client's advertisements that have
// passed employee review. ownedAds must be the client's advertisement ids.
func ClientView(actor Actor, ownedAds []primitive.ObjectID) (models.ApplicationFilter, error) {
	if err := Authorize(actor, ActionClientView, nil, nil); err != nil {
		return models.ApplicationFilter{}, err
	}
	ids := ownedAds
	if ids == nil {
		ids = []primitive.ObjectID{}
	}
	return models.ApplicationFilter{
		AdvertisementIDs: ids,
		Statuses:         ClientVisibleStatuses,
	}, nil
}

// PendingReviewView selects applications waiting for staff
func PendingReviewView(actor Actor) (models.ApplicationFilter, error) {
	if err := Authorize(actor, ActionPendingView, nil, nil); err != nil {
		return models.ApplicationFilter{}, err
	}
	return models.ApplicationFilter{Statuses: []models.ApplicationStatus{models.StatusEmployeeReview}}, nil
}

// AdvertisementView selects every application for one advertisement
func AdvertisementView(advertisementID primitive.ObjectID) models.ApplicationFilter {
	return models.ApplicationFilter{AdvertisementID: &advertisementID}
}

// OversightView selects every application for platform administrators
func OversightView(actor Actor) (models.ApplicationFilter, error) {
	if err := Authorize(actor, ActionAdminOversight, nil, nil); err != nil {
		return models.ApplicationFilter{}, err
	}
	return models.ApplicationFilter{}, nil
}

// ReviewedByView selects applications the staff member reviewed
func ReviewedByView(actor Actor) (models.ApplicationFilter, error) {
	if err := Authorize(actor, ActionPendingView, nil, nil); err != nil {
		return models.ApplicationFilter{}, err
	}
	id := actor.ID()
	return models.ApplicationFilter{ReviewedBy: &id}, nil
}

// Matches reports whether app is selected by filter. Stores that cannot
// push the filter down evaluate it with this.
func Matches(filter models.ApplicationFilter, app *models.Application) bool {
	if filter.AgencyID != nil && app.AgencyID != *filter.AgencyID {
		return false
	}
	if filter.AdvertisementID != nil && app.AdvertisementID != *filter.AdvertisementID {
		return false
	}
	if filter.AdvertisementIDs != nil && !containsID(filter.AdvertisementIDs, app.AdvertisementID) {
		return false
	}
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, app.Status) {
		return false
	}
	if filter.ReviewedBy != nil && (app.EmployeeReview == nil || app.EmployeeReview.ReviewedBy != *filter.ReviewedBy) {
		return false
	}
	return true
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func containsStatus(statuses []models.ApplicationStatus, status models.ApplicationStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}
