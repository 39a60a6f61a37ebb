package services

import (
	"context"
	"testing"

	"github.com/HSouheill/admarket_backend/models"
	"github.com/HSouheill/admarket_backend/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAdminAnalytics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := NewAdminService(Dependencies{
		Applications:   f.apps,
		Advertisements: f.ads,
		Accounts:       f.accounts,
	})
	ads := NewAdvertisementService(f.ads, nil)

	paused := f.addAdvertisement(t, f.owner)
	_, err := ads.UpdateStatus(ctx, f.owner, paused.ID, models.AdvertisementPaused)
	require.NoError(t, err)
	draft := f.addAdvertisement(t, f.owner)
	_, err = ads.UpdateStatus(ctx, f.owner, draft.ID, models.AdvertisementDraft)
	require.NoError(t, err)

	f.submit(t, f.agency, f.ad)
	f.submit(t, f.agency, paused)
	f.accounts.PutClient(models.ClientSummary{ID: primitive.NewObjectID(), Company: "Globex"})

	stats, err := admin.Analytics(ctx, workflow.Admin{AccountID: primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Equal(t, models.AdminAnalytics{
		TotalUsers:        3,
		TotalClients:      2,
		TotalAgencies:     1,
		TotalAds:          3,
		TotalApplications: 2,
		ActiveCampaigns:   1,
		PausedCampaigns:   1,
	}, *stats)

	for _, actor := range []workflow.Actor{f.employee, f.agency, f.owner} {
		_, err := admin.Analytics(ctx, actor)
		assert.ErrorIs(t, err, workflow.ErrNotAuthorized)
	}
}
