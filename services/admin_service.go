package services

import (
	"context"

	"github.com/HSouheill/admarket_backend/models"
	"github.com/HSouheill/admarket_backend/workflow"
	"go.uber.org/zap"
)

// AdminService serves the platform totals of the admin dashboard
type AdminService struct {
	apps     ApplicationStore
	ads      AdvertisementStore
	accounts AccountStore
	logger   *zap.Logger
}

func NewAdminService(deps Dependencies) *AdminService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		apps:     deps.Applications,
		ads:      deps.Advertisements,
		accounts: deps.Accounts,
		logger:   logger,
	}
}

// Analytics counts accounts, listings and applications across the platform
func (s *AdminService) Analytics(ctx context.Context, actor workflow.Actor) (*models.AdminAnalytics, error) {
	if err := workflow.Authorize(actor, workflow.ActionAdminOversight, nil, nil); err != nil {
		return nil, err
	}

	var stats models.AdminAnalytics
	var err error
	if stats.TotalClients, err = s.accounts.CountClients(ctx); err != nil {
		return nil, err
	}
	if stats.TotalAgencies, err = s.accounts.CountAgencies(ctx); err != nil {
		return nil, err
	}
	if stats.TotalAds, err = s.ads.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveCampaigns, err = s.ads.Count(ctx, models.AdvertisementActive); err != nil {
		return nil, err
	}
	if stats.PausedCampaigns, err = s.ads.Count(ctx, models.AdvertisementPaused); err != nil {
		return nil, err
	}
	if stats.TotalApplications, err = s.apps.Count(ctx, models.ApplicationFilter{}); err != nil {
		return nil, err
	}
	stats.TotalUsers = stats.TotalClients + stats.TotalAgencies

	s.logger.Debug("Admin analytics computed", zap.String("admin_id", actor.ID().Hex()))
	return &stats, nil
}
