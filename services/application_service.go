package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/HSouheill/admarket_backend/metrics"
	"github.com/HSouheill/admarket_backend/models"
	"github.com/HSouheill/admarket_backend/workflow"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const dashboardPendingLimit = 10

// ApplicationStore is the document store holding applications
type ApplicationStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error)
	Create(ctx context.Context, app *models.Application) error
	ApplyTransition(ctx context.Context, id primitive.ObjectID, update models.ApplicationUpdate) (*models.Application, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error)
	Count(ctx context.Context, filter models.ApplicationFilter) (int64, error)
}

// AdvertisementStore is the document store holding advertisements
type AdvertisementStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Advertisement, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Advertisement, error)
	FindIDsByOwner(ctx context.Context, clientID primitive.ObjectID) ([]primitive.ObjectID, error)
	FindByOwner(ctx context.Context, clientID primitive.ObjectID) ([]models.Advertisement, error)
	FindByStatus(ctx context.Context, statuses []models.AdvertisementStatus) ([]models.Advertisement, error)
	Create(ctx context.Context, ad *models.Advertisement) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.AdvertisementStatus) (*models.Advertisement, error)
	UpdateContent(ctx context.Context, ad *models.Advertisement) (*models.Advertisement, error)
	Count(ctx context.Context, statuses ...models.AdvertisementStatus) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AccountStore resolves agency and client display fields
type AccountStore interface {
	FindAgencies(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.AgencySummary, error)
	FindClients(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.ClientSummary, error)
	CountAgencies(ctx context.Context) (int64, error)
	CountClients(ctx context.Context) (int64, error)
}

// Notifier delivers status change events to connected users
type Notifier interface {
	NotifyStatusChange(recipient primitive.ObjectID, event models.StatusChangeEvent) error
}

type nopNotifier struct{}

func (nopNotifier) NotifyStatusChange(primitive.ObjectID, models.StatusChangeEvent) error { return nil }

// Dependencies wires an ApplicationService. Engine, Notifier and Logger
// default when nil.
type Dependencies struct {
	Applications   ApplicationStore
	Advertisements AdvertisementStore
	Accounts       AccountStore
	Engine         *workflow.Engine
	Notifier       Notifier
	Logger         *zap.Logger
}

// ApplicationService runs the review workflow against the stores: load,
// authorize, compute the transition, then commit it with one conditional write.
type ApplicationService struct {
	apps     ApplicationStore
	ads      AdvertisementStore
	accounts AccountStore
	engine   *workflow.Engine
	notifier Notifier
	logger   *zap.Logger
}

func NewApplicationService(deps Dependencies) *ApplicationService {
	s := &ApplicationService{
		apps:     deps.Applications,
		ads:      deps.Advertisements,
		accounts: deps.Accounts,
		engine:   deps.Engine,
		notifier: deps.Notifier,
		logger:   deps.Logger,
	}
	if s.engine == nil {
		s.engine = workflow.NewEngine()
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Submit creates an application in employee_review for the calling agency
func (s *ApplicationService) Submit(ctx context.Context, actor workflow.Actor, req models.ApplicationRequest) (app *models.Application, err error) {
	defer s.observe(workflow.ActionSubmit, actor, primitive.NilObjectID, &err)

	if err := workflow.Authorize(actor, workflow.ActionSubmit, nil, nil); err != nil {
		return nil, err
	}
	app, err = s.engine.NewApplication(actor.ID(), req.AdvertisementID, req.ApplicationContent)
	if err != nil {
		return nil, err
	}
	if _, err := s.referent(ctx, app); err != nil {
		return nil, err
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}

	s.logger.Info("Application submitted",
		zap.String("application_id", app.ID.Hex()),
		zap.String("advertisement_id", app.AdvertisementID.Hex()),
		zap.String("agency_id", app.AgencyID.Hex()))
	return app, nil
}

// EmployeeReview records the first-stage decision of a staff member
func (s *ApplicationService) EmployeeReview(ctx context.Context, actor workflow.Actor, id primitive.ObjectID, req models.EmployeeReviewRequest) (app *models.Application, err error) {
	defer s.observe(workflow.ActionEmployeeReview, actor, id, &err)

	current, err := s.apps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(actor, workflow.ActionEmployeeReview, current, nil); err != nil {
		return nil, err
	}
	if err := workflow.CheckObserved(current, req.ExpectedStatus); err != nil {
		return nil, err
	}
	update, err := s.engine.EmployeeReview(current, actor, req)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, workflow.ActionEmployeeReview, actor, id, update, nil)
}

// ClientReview records the owning client's decision
func (s *ApplicationService) ClientReview(ctx context.Context, actor workflow.Actor, id primitive.ObjectID, req models.ClientReviewRequest) (app *models.Application, err error) {
	defer s.observe(workflow.ActionClientReview, actor, id, &err)

	current, err := s.apps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ad, err := s.referent(ctx, current)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(actor, workflow.ActionClientReview, current, ad); err != nil {
		return nil, err
	}
	if err := workflow.CheckObserved(current, req.ExpectedStatus); err != nil {
		return nil, err
	}
	update, err := s.engine.ClientReview(current, req)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, workflow.ActionClientReview, actor, id, update, ad)
}

// LegacyStatusUpdate writes a status directly for the owning client or agency
func (s *ApplicationService) LegacyStatusUpdate(ctx context.Context, actor workflow.Actor, id primitive.ObjectID, req models.StatusUpdateRequest) (app *models.Application, err error) {
	defer s.observe(workflow.ActionLegacyStatusSet, actor, id, &err)

	current, err := s.apps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ad, err := s.referent(ctx, current)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(actor, workflow.ActionLegacyStatusSet, current, ad); err != nil {
		return nil, err
	}
	if err := workflow.CheckObserved(current, req.ExpectedStatus); err != nil {
		return nil, err
	}
	update, err := s.engine.LegacyStatus(current, req.Status)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, workflow.ActionLegacyStatusSet, actor, id, update, ad)
}

// Delete removes an application owned by the calling agency, whatever its status
func (s *ApplicationService) Delete(ctx context.Context, actor workflow.Actor, id primitive.ObjectID) (err error) {
	defer s.observe(workflow.ActionDelete, actor, id, &err)

	current, err := s.apps.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := workflow.Authorize(actor, workflow.ActionDelete, current, nil); err != nil {
		return err
	}
	if err := s.apps.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Application deleted",
		zap.String("application_id", id.Hex()),
		zap.String("status", current.Status.String()),
		zap.String("actor", actor.ID().Hex()))
	return nil
}

// Get returns one application with its display joins
func (s *ApplicationService) Get(ctx context.Context, id primitive.ObjectID) (*models.ApplicationView, error) {
	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.enrich(ctx, []models.Application{*app})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Refresh re-reads an application for the agency that owns it
func (s *ApplicationService) Refresh(ctx context.Context, actor workflow.Actor, id primitive.ObjectID) (*models.ApplicationView, error) {
	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(actor, workflow.ActionAgencyRead, app, nil); err != nil {
		return nil, err
	}
	views, err := s.enrich(ctx, []models.Application{*app})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// AgencyApplications lists every application of the calling agency
func (s *ApplicationService) AgencyApplications(ctx context.Context, actor workflow.Actor) ([]models.ApplicationView, error) {
	filter, err := workflow.AgencyView(actor)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

// ClientApplications lists reviewed applications on the client's
// advertisements. ClientView refuses any other actor.
func (s *ApplicationService) ClientApplications(ctx context.Context, actor workflow.Actor) ([]models.ApplicationView, error) {
	owned, err := s.ads.FindIDsByOwner(ctx, actor.ID())
	if err != nil {
		return nil, err
	}
	filter, err := workflow.ClientView(actor, owned)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

// PendingApplications lists applications awaiting employee review
func (s *ApplicationService) PendingApplications(ctx context.Context, actor workflow.Actor) ([]models.ApplicationView, error) {
	filter, err := workflow.PendingReviewView(actor)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

// AllApplications lists every application, newest first, for administrators
func (s *ApplicationService) AllApplications(ctx context.Context, actor workflow.Actor) ([]models.ApplicationView, error) {
	filter, err := workflow.OversightView(actor)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

// AdvertisementApplications lists every application for one advertisement
func (s *ApplicationService) AdvertisementApplications(ctx context.Context, advertisementID primitive.ObjectID) ([]models.ApplicationView, error) {
	return s.list(ctx, workflow.AdvertisementView(advertisementID))
}

// Dashboard summarises pending work and the caller's review count
func (s *ApplicationService) Dashboard(ctx context.Context, actor workflow.Actor) (*models.EmployeeDashboard, error) {
	pendingFilter, err := workflow.PendingReviewView(actor)
	if err != nil {
		return nil, err
	}
	reviewedFilter, err := workflow.ReviewedByView(actor)
	if err != nil {
		return nil, err
	}

	totalPending, err := s.apps.Count(ctx, pendingFilter)
	if err != nil {
		return nil, err
	}
	totalReviewed, err := s.apps.Count(ctx, reviewedFilter)
	if err != nil {
		return nil, err
	}

	pendingFilter.Limit = dashboardPendingLimit
	pending, err := s.list(ctx, pendingFilter)
	if err != nil {
		return nil, err
	}
	return &models.EmployeeDashboard{
		PendingApplications: pending,
		Stats: models.EmployeeStats{
			TotalPending:  totalPending,
			TotalReviewed: totalReviewed,
		},
	}, nil
}

func (s *ApplicationService) commit(ctx context.Context, action workflow.Action, actor workflow.Actor, id primitive.ObjectID, update models.ApplicationUpdate, ad *models.Advertisement) (*models.Application, error) {
	app, err := s.apps.ApplyTransition(ctx, id, update)
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(action, update.From.String(), update.To.String())
	s.logger.Info("Application transitioned",
		zap.String("application_id", id.Hex()),
		zap.String("action", action.String()),
		zap.String("from", update.From.String()),
		zap.String("to", update.To.String()),
		zap.String("actor", actor.ID().Hex()),
		zap.String("role", actor.Role()))

	s.notify(ctx, action, app, update, ad)
	return app, nil
}

// notify tells the agency about every change and the owning client when
// the application lands on their desk. Delivery is best effort.
func (s *ApplicationService) notify(ctx context.Context, action workflow.Action, app *models.Application, update models.ApplicationUpdate, ad *models.Advertisement) {
	event := models.StatusChangeEvent{
		ApplicationID:   app.ID,
		AdvertisementID: app.AdvertisementID,
		Action:          action.String(),
		From:            update.From,
		To:              update.To,
		At:              update.At,
	}
	recipients := []primitive.ObjectID{app.AgencyID}
	if update.To == models.StatusClientReview {
		if ad == nil {
			ad, _ = s.ads.FindByID(ctx, app.AdvertisementID)
		}
		if ad != nil {
			recipients = append(recipients, ad.OwnerClientID)
		}
	}
	for _, recipient := range recipients {
		if err := s.notifier.NotifyStatusChange(recipient, event); err != nil {
			s.logger.Debug("Status notification not delivered",
				zap.String("recipient", recipient.Hex()),
				zap.Error(err))
		}
	}
}

// referent loads the advertisement an application points at
func (s *ApplicationService) referent(ctx context.Context, app *models.Application) (*models.Advertisement, error) {
	ad, err := s.ads.FindByID(ctx, app.AdvertisementID)
	if errors.Is(err, workflow.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", workflow.ErrReferentNotFound, app.AdvertisementID.Hex())
	}
	return ad, err
}

func (s *ApplicationService) list(ctx context.Context, filter models.ApplicationFilter) ([]models.ApplicationView, error) {
	apps, err := s.apps.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, apps)
}

// enrich attaches advertisement, client and agency summaries with one batch
// lookup each
func (s *ApplicationService) enrich(ctx context.Context, apps []models.Application) ([]models.ApplicationView, error) {
	adIDs := make([]primitive.ObjectID, 0, len(apps))
	agencyIDs := make([]primitive.ObjectID, 0, len(apps))
	seen := make(map[primitive.ObjectID]bool, len(apps)*2)
	for _, app := range apps {
		if !seen[app.AdvertisementID] {
			seen[app.AdvertisementID] = true
			adIDs = append(adIDs, app.AdvertisementID)
		}
		if !seen[app.AgencyID] {
			seen[app.AgencyID] = true
			agencyIDs = append(agencyIDs, app.AgencyID)
		}
	}

	ads, err := s.ads.FindByIDs(ctx, adIDs)
	if err != nil {
		return nil, err
	}
	agencies, err := s.accounts.FindAgencies(ctx, agencyIDs)
	if err != nil {
		return nil, err
	}
	clientIDs := make([]primitive.ObjectID, 0, len(ads))
	for _, ad := range ads {
		if !seen[ad.OwnerClientID] {
			seen[ad.OwnerClientID] = true
			clientIDs = append(clientIDs, ad.OwnerClientID)
		}
	}
	clients, err := s.accounts.FindClients(ctx, clientIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.ApplicationView, 0, len(apps))
	for _, app := range apps {
		view := models.ApplicationView{Application: app}
		if ad, ok := ads[app.AdvertisementID]; ok {
			summary := ad.Summary()
			if client, ok := clients[ad.OwnerClientID]; ok {
				summary.Client = &client
			}
			view.Advertisement = &summary
		}
		if agency, ok := agencies[app.AgencyID]; ok {
			view.Agency = &agency
		}
		views = append(views, view)
	}
	return views, nil
}

// observe logs and counts refused requests
func (s *ApplicationService) observe(action workflow.Action, actor workflow.Actor, id primitive.ObjectID, errp *error) {
	if *errp == nil {
		return
	}
	metrics.RecordRejection(action, *errp)

	fields := []zap.Field{
		zap.String("action", action.String()),
		zap.String("reason", metrics.Reason(*errp)),
		zap.Error(*errp),
	}
	if !id.IsZero() {
		fields = append(fields, zap.String("application_id", id.Hex()))
	}
	if actor != nil {
		fields = append(fields, zap.String("actor", actor.ID().Hex()), zap.String("role", actor.Role()))
	}
	if metrics.Reason(*errp) == "internal" {
		s.logger.Error("Application request failed", fields...)
		return
	}
	s.logger.Warn("Application request refused", fields...)
}
