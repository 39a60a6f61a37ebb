package services

import (
	"context"
	"testing"

	"github.com/HSouheill/admarket_backend/models"
	"github.com/HSouheill/admarket_backend/repositories"
	"github.com/HSouheill/admarket_backend/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validAdvertisementRequest() models.AdvertisementRequest {
	return models.AdvertisementRequest{
		ProductName:        "  Solar lamp ",
		ProductDescription: "Portable <b>lamp</b>",
		Budget:             1200,
		CampaignDuration:   "1 month",
		Category:           "home",
		KeyFeatures:        []string{"light", " ", "waterproof"},
		ImageURL:           "ftp://example.com/lamp.png",
	}
}

func TestAdvertisementLifecycle(t *testing.T) {
	ctx := context.Background()
	service := NewAdvertisementService(repositories.NewMemoryAdvertisementStore(), nil)
	owner := workflow.Client{AccountID: primitive.NewObjectID()}
	stranger := workflow.Client{AccountID: primitive.NewObjectID()}

	ad, err := service.Create(ctx, owner, validAdvertisementRequest())
	require.NoError(t, err)
	assert.Equal(t, models.AdvertisementDraft, ad.Status)
	assert.Equal(t, owner.AccountID, ad.OwnerClientID)
	assert.Equal(t, "Solar lamp", ad.ProductName)
	assert.Equal(t, "Portable &lt;b&gt;lamp&lt;/b&gt;", ad.ProductDescription)
	assert.Equal(t, []string{"light", "waterproof"}, ad.KeyFeatures)
	assert.Empty(t, ad.ImageURL)

	public, err := service.ListPublic(ctx)
	require.NoError(t, err)
	assert.Empty(t, public, "drafts are not public")

	_, err = service.UpdateStatus(ctx, stranger, ad.ID, models.AdvertisementActive)
	assert.ErrorIs(t, err, workflow.ErrNotAuthorized)

	_, err = service.UpdateStatus(ctx, owner, ad.ID, models.AdvertisementStatus("archived"))
	assert.ErrorIs(t, err, workflow.ErrValidation)

	updated, err := service.UpdateStatus(ctx, owner, ad.ID, models.AdvertisementPaused)
	require.NoError(t, err)
	assert.Equal(t, models.AdvertisementPaused, updated.Status)

	public, err = service.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, ad.ID, public[0].ID)

	own, err := service.ListOwn(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	assert.ErrorIs(t, service.Delete(ctx, stranger, ad.ID), workflow.ErrNotAuthorized)
	require.NoError(t, service.Delete(ctx, owner, ad.ID))

	_, err = service.Get(ctx, ad.ID)
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestAdvertisementCreateRequiresClient(t *testing.T) {
	service := NewAdvertisementService(repositories.NewMemoryAdvertisementStore(), nil)

	_, err := service.Create(context.Background(), workflow.Agency{AccountID: primitive.NewObjectID()}, validAdvertisementRequest())
	assert.ErrorIs(t, err, workflow.ErrNotAuthorized)

	invalid := map[string]func(*models.AdvertisementRequest){
		"negative budget":  func(r *models.AdvertisementRequest) { r.Budget = -5 },
		"unknown category": func(r *models.AdvertisementRequest) { r.Category = "gardening" },
		"unknown duration": func(r *models.AdvertisementRequest) { r.CampaignDuration = "5 days" },
	}
	for name, mutate := range invalid {
		t.Run(name, func(t *testing.T) {
			req := validAdvertisementRequest()
			mutate(&req)
			_, err := service.Create(context.Background(), workflow.Client{AccountID: primitive.NewObjectID()}, req)
			assert.ErrorIs(t, err, workflow.ErrValidation)
		})
	}
}

func TestAdvertisementUpdate(t *testing.T) {
	ctx := context.Background()
	service := NewAdvertisementService(repositories.NewMemoryAdvertisementStore(), nil)
	owner := workflow.Client{AccountID: primitive.NewObjectID()}

	ad, err := service.Create(ctx, owner, validAdvertisementRequest())
	require.NoError(t, err)
	_, err = service.UpdateStatus(ctx, owner, ad.ID, models.AdvertisementActive)
	require.NoError(t, err)

	name := "Solar <i>lamp</i> XL"
	budget := 2500.0
	updated, err := service.Update(ctx, owner, ad.ID, models.AdvertisementUpdateRequest{
		ProductName: &name,
		Budget:      &budget,
		KeyFeatures: []string{"brighter"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Solar &lt;i&gt;lamp&lt;/i&gt; XL", updated.ProductName)
	assert.Equal(t, 2500.0, updated.Budget)
	assert.Equal(t, []string{"brighter"}, updated.KeyFeatures)
	assert.Equal(t, ad.ProductDescription, updated.ProductDescription)
	assert.Equal(t, models.AdvertisementActive, updated.Status)
	assert.Equal(t, owner.AccountID, updated.OwnerClientID)

	stored, err := service.Get(ctx, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.ProductName, stored.ProductName)

	category := "gardening"
	_, err = service.Update(ctx, owner, ad.ID, models.AdvertisementUpdateRequest{Category: &category})
	assert.ErrorIs(t, err, workflow.ErrValidation)

	blank := "   "
	_, err = service.Update(ctx, owner, ad.ID, models.AdvertisementUpdateRequest{ProductName: &blank})
	assert.ErrorIs(t, err, workflow.ErrValidation)

	_, err = service.Update(ctx, workflow.Client{AccountID: primitive.NewObjectID()}, ad.ID, models.AdvertisementUpdateRequest{ProductName: &name})
	assert.ErrorIs(t, err, workflow.ErrNotAuthorized)
	_, err = service.Update(ctx, workflow.Agency{AccountID: primitive.NewObjectID()}, ad.ID, models.AdvertisementUpdateRequest{ProductName: &name})
	assert.ErrorIs(t, err, workflow.ErrNotAuthorized)

	_, err = service.Update(ctx, owner, primitive.NewObjectID(), models.AdvertisementUpdateRequest{ProductName: &name})
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestAdvertisementStatusDoesNotTouchApplications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ads := NewAdvertisementService(f.ads, nil)

	app := f.submit(t, f.agency, f.ad)
	_, err := ads.UpdateStatus(ctx, f.owner, f.ad.ID, models.AdvertisementCompleted)
	require.NoError(t, err)

	updated, err := f.service.EmployeeReview(ctx, f.employee, app.ID, models.EmployeeReviewRequest{Decision: "approve"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusClientReview, updated.Status)
}
