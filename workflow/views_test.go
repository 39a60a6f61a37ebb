package workflow

import (
	"testing"

	"github.com/HSouheill/admarket_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAgencyView(t *testing.T) {
	agency := Agency{AccountID: primitive.NewObjectID()}
	filter, err := AgencyView(agency)
	require.NoError(t, err)

	own := applicationIn(models.StatusRejected)
	own.AgencyID = agency.AccountID
	other := applicationIn(models.StatusRejected)

	assert.True(t, Matches(filter, own))
	assert.False(t, Matches(filter, other))

	_, err = AgencyView(Client{AccountID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestClientViewHidesEmployeeReview(t *testing.T) {
	client := Client{AccountID: primitive.NewObjectID()}
	adID := primitive.NewObjectID()

	filter, err := ClientView(client, []primitive.ObjectID{adID})
	require.NoError(t, err)

	for _, status := range models.ApplicationStatuses {
		app := applicationIn(status)
		app.AdvertisementID = adID
		assert.Equal(t, status != models.StatusEmployeeReview, Matches(filter, app), status)
	}

	foreign := applicationIn(models.StatusClientReview)
	assert.False(t, Matches(filter, foreign))
}

func TestClientViewWithoutAdvertisementsMatchesNothing(t *testing.T) {
	filter, err := ClientView(Client{AccountID: primitive.NewObjectID()}, nil)
	require.NoError(t, err)
	assert.NotNil(t, filter.AdvertisementIDs)
	assert.False(t, Matches(filter, applicationIn(models.StatusApproved)))
}

func TestPendingAndReviewedViews(t *testing.T) {
	employee := Employee{AccountID: primitive.NewObjectID()}

	pending, err := PendingReviewView(employee)
	require.NoError(t, err)
	assert.True(t, Matches(pending, applicationIn(models.StatusEmployeeReview)))
	assert.False(t, Matches(pending, applicationIn(models.StatusClientReview)))

	reviewed, err := ReviewedByView(employee)
	require.NoError(t, err)
	mine := applicationIn(models.StatusClientReview)
	mine.EmployeeReview = &models.EmployeeReview{ReviewedBy: employee.AccountID}
	theirs := applicationIn(models.StatusRejected)
	theirs.EmployeeReview = &models.EmployeeReview{ReviewedBy: primitive.NewObjectID()}

	assert.True(t, Matches(reviewed, mine))
	assert.False(t, Matches(reviewed, theirs))
	assert.False(t, Matches(reviewed, applicationIn(models.StatusEmployeeReview)))

	_, err = PendingReviewView(Agency{AccountID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestAdvertisementView(t *testing.T) {
	adID := primitive.NewObjectID()
	filter := AdvertisementView(adID)

	app := applicationIn(models.StatusEmployeeReview)
	app.AdvertisementID = adID
	assert.True(t, Matches(filter, app))
	assert.False(t, Matches(filter, applicationIn(models.StatusEmployeeReview)))
}

func TestOversightView(t *testing.T) {
	filter, err := OversightView(Admin{AccountID: primitive.NewObjectID()})
	require.NoError(t, err)
	for _, status := range models.ApplicationStatuses {
		assert.True(t, Matches(filter, applicationIn(status)), status)
	}

	_, err = OversightView(Employee{AccountID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrNotAuthorized)
}
