package workflow

import (
	"fmt"

	"github.com/HSouheill/admarket_backend/models"
)

// Action names an operation subject to authorization
type Action string

const (
	ActionSubmit              Action = "submit"
	ActionEmployeeReview      Action = "employee_review_decision"
	ActionClientReview        Action = "client_review_decision"
	ActionLegacyStatusSet     Action = "legacy_status_set"
	ActionDelete              Action = "delete"
	ActionAgencyView          Action = "agency_view"
	ActionClientView          Action = "client_view"
	ActionPendingView         Action = "pending_review_view"
	ActionAgencyRead          Action = "agency_read"
	ActionAdvertisementCreate Action = "advertisement_create"
	ActionAdvertisementManage Action = "advertisement_manage"
	ActionAdminOversight      Action = "admin_oversight"
)

func (a Action) String() string { return string(a) }

// Authorize decides whether actor may perform action on the given
// application and advertisement. Either entity may be nil when the action
// does not involve it. A denial is returned as an error wrapping
// ErrNotAuthorized.
func Authorize(actor Actor, action Action, app *models.Application, ad *models.Advertisement) error {
	if actor == nil {
		return fmt.Errorf("%w: no identity", ErrNotAuthorized)
	}
	if allowed(actor, action, app, ad) {
		return nil
	}
	return fmt.Errorf("%w: %s may not perform %s", ErrNotAuthorized, actor.Role(), action)
}

func allowed(actor Actor, action Action, app *models.Application, ad *models.Advertisement) bool {
	switch action {
	case ActionSubmit, ActionAgencyView:
		_, ok := actor.(Agency)
		return ok
	case ActionEmployeeReview, ActionPendingView:
		return isStaff(actor)
	case ActionClientReview:
		client, ok := actor.(Client)
		return ok && ad != nil && client.AccountID == ad.OwnerClientID
	case ActionLegacyStatusSet:
		if app == nil || ad == nil {
			return false
		}
		id := actor.ID()
		return id == ad.OwnerClientID || id == app.AgencyID
	case ActionDelete, ActionAgencyRead:
		return app != nil && actor.ID() == app.AgencyID
	case ActionClientView, ActionAdvertisementCreate:
		_, ok := actor.(Client)
		return ok
	case ActionAdvertisementManage:
		return ad != nil && actor.ID() == ad.OwnerClientID
	case ActionAdminOversight:
		_, ok := actor.(Admin)
		return ok
	}
	return false
}
