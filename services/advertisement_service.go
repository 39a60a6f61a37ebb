package services

import (
	"context"
	"fmt"
	"time"

	"github.com/HSouheill/admarket_backend/models"
	"github.com/HSouheill/admarket_backend/utils"
	"github.com/HSouheill/admarket_backend/workflow"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PublicAdvertisementStatuses are shown to agencies browsing campaigns
var PublicAdvertisementStatuses = []models.AdvertisementStatus{
	models.AdvertisementActive,
	models.AdvertisementPaused,
}

// AdvertisementService manages a client's campaign listings. Visibility
// changes are independent of the applications filed against a listing.
type AdvertisementService struct {
	ads    AdvertisementStore
	logger *zap.Logger
}

func NewAdvertisementService(ads AdvertisementStore, logger *zap.Logger) *AdvertisementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvertisementService{ads: ads, logger: logger}
}

// Create stores a new draft listing owned by the calling client. The
// request is expected to have passed struct validation.
func (s *AdvertisementService) Create(ctx context.Context, actor workflow.Actor, req models.AdvertisementRequest) (*models.Advertisement, error) {
	if err := workflow.Authorize(actor, workflow.ActionAdvertisementCreate, nil, nil); err != nil {
		return nil, err
	}
	if err := validateListing(req.Budget, req.Category, req.CampaignDuration); err != nil {
		return nil, err
	}

	now := time.Now()
	ad := &models.Advertisement{
		ID:                 primitive.NewObjectID(),
		OwnerClientID:      actor.ID(),
		ProductName:        utils.SanitizeInput(req.ProductName),
		ProductDescription: utils.SanitizeInput(req.ProductDescription),
		TargetAudience:     utils.SanitizeInput(req.TargetAudience),
		Budget:             req.Budget,
		CampaignDuration:   req.CampaignDuration,
		Category:           req.Category,
		KeyFeatures:        utils.SanitizeStringArray(req.KeyFeatures),
		ImageURL:           utils.SanitizeURL(req.ImageURL),
		Status:             models.AdvertisementDraft,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.ads.Create(ctx, ad); err != nil {
		return nil, err
	}
	s.logger.Info("Advertisement created",
		zap.String("advertisement_id", ad.ID.Hex()),
		zap.String("client_id", ad.OwnerClientID.Hex()))
	return ad, nil
}

// Update edits the content of a listing owned by the caller. Status and
// owner are not touched.
func (s *AdvertisementService) Update(ctx context.Context, actor workflow.Actor, id primitive.ObjectID, req models.AdvertisementUpdateRequest) (*models.Advertisement, error) {
	ad, err := s.ads.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(actor, workflow.ActionAdvertisementManage, nil, ad); err != nil {
		return nil, err
	}

	edit := *ad
	if req.ProductName != nil {
		edit.ProductName = utils.SanitizeInput(*req.ProductName)
	}
	if req.ProductDescription != nil {
		edit.ProductDescription = utils.SanitizeInput(*req.ProductDescription)
	}
	if req.TargetAudience != nil {
		edit.TargetAudience = utils.SanitizeInput(*req.TargetAudience)
	}
	if req.Budget != nil {
		edit.Budget = *req.Budget
	}
	if req.CampaignDuration != nil {
		edit.CampaignDuration = *req.CampaignDuration
	}
	if req.Category != nil {
		edit.Category = *req.Category
	}
	if req.KeyFeatures != nil {
		edit.KeyFeatures = utils.SanitizeStringArray(req.KeyFeatures)
	}
	if req.ImageURL != nil {
		edit.ImageURL = utils.SanitizeURL(*req.ImageURL)
	}
	if edit.ProductName == "" || edit.ProductDescription == "" {
		return nil, fmt.Errorf("%w: product name and description are required", workflow.ErrValidation)
	}
	if err := validateListing(edit.Budget, edit.Category, edit.CampaignDuration); err != nil {
		return nil, err
	}
	edit.UpdatedAt = time.Now()

	updated, err := s.ads.UpdateContent(ctx, &edit)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Advertisement updated", zap.String("advertisement_id", id.Hex()))
	return updated, nil
}

func (s *AdvertisementService) Get(ctx context.Context, id primitive.ObjectID) (*models.Advertisement, error) {
	return s.ads.FindByID(ctx, id)
}

// ListOwn returns every listing of the calling client regardless of status
func (s *AdvertisementService) ListOwn(ctx context.Context, actor workflow.Actor) ([]models.Advertisement, error) {
	if err := workflow.Authorize(actor, workflow.ActionAdvertisementCreate, nil, nil); err != nil {
		return nil, err
	}
	return s.ads.FindByOwner(ctx, actor.ID())
}

func (s *AdvertisementService) ListPublic(ctx context.Context) ([]models.Advertisement, error) {
	return s.ads.FindByStatus(ctx, PublicAdvertisementStatuses)
}

// UpdateStatus moves a listing between draft, active, paused and completed
func (s *AdvertisementService) UpdateStatus(ctx context.Context, actor workflow.Actor, id primitive.ObjectID, status models.AdvertisementStatus) (*models.Advertisement, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid advertisement status %q", workflow.ErrValidation, status)
	}
	ad, err := s.ads.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(actor, workflow.ActionAdvertisementManage, nil, ad); err != nil {
		return nil, err
	}
	updated, err := s.ads.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Advertisement status changed",
		zap.String("advertisement_id", id.Hex()),
		zap.String("from", string(ad.Status)),
		zap.String("to", string(status)))
	return updated, nil
}

func (s *AdvertisementService) Delete(ctx context.Context, actor workflow.Actor, id primitive.ObjectID) error {
	ad, err := s.ads.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := workflow.Authorize(actor, workflow.ActionAdvertisementManage, nil, ad); err != nil {
		return err
	}
	if err := s.ads.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Advertisement deleted", zap.String("advertisement_id", id.Hex()))
	return nil
}

func validateListing(budget float64, category, duration string) error {
	if budget < 0 {
		return fmt.Errorf("%w: budget must not be negative", workflow.ErrValidation)
	}
	if !models.ValidCategory(category) {
		return fmt.Errorf("%w: unknown category %q", workflow.ErrValidation, category)
	}
	if !models.ValidCampaignDuration(duration) {
		return fmt.Errorf("%w: unknown campaign duration %q", workflow.ErrValidation, duration)
	}
	return nil
}
