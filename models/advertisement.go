package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdvertisementStatus is the visibility state of a campaign listing
type AdvertisementStatus string

const (
	AdvertisementDraft     AdvertisementStatus = "draft"
	AdvertisementActive    AdvertisementStatus = "active"
	AdvertisementPaused    AdvertisementStatus = "paused"
	AdvertisementCompleted AdvertisementStatus = "completed"
)

// IsValid reports whether s is one of the four visibility states
func (s AdvertisementStatus) IsValid() bool {
	switch s {
	case AdvertisementDraft, AdvertisementActive, AdvertisementPaused, AdvertisementCompleted:
		return true
	}
	return false
}

// AdvertisementCategories are the campaign categories a listing may use
var AdvertisementCategories = []string{
	"fashion", "electronics", "health", "food", "travel", "beauty",
	"home", "sports", "education", "finance", "automotive", "other",
}

// CampaignDurations are the campaign lengths a listing may use
var CampaignDurations = []string{"1 week", "2 weeks", "1 month", "3 months", "6 months", "1 year"}

func ValidCategory(category string) bool {
	return contains(AdvertisementCategories, category)
}

func ValidCampaignDuration(duration string) bool {
	return contains(CampaignDurations, duration)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// Advertisement is a Client's campaign listing
type Advertisement struct {
	ID                 primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerClientID      primitive.ObjectID  `json:"clientId" bson:"client"`
	ProductName        string              `json:"productName" bson:"productName"`
	ProductDescription string              `json:"productDescription" bson:"productDescription"`
	TargetAudience     string              `json:"targetAudience,omitempty" bson:"targetAudience,omitempty"`
	Budget             float64             `json:"budget" bson:"budget"`
	CampaignDuration   string              `json:"campaignDuration" bson:"campaignDuration"`
	Category           string              `json:"category" bson:"category"`
	KeyFeatures        []string            `json:"keyFeatures,omitempty" bson:"keyFeatures,omitempty"`
	ImageURL           string              `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Status             AdvertisementStatus `json:"status" bson:"status"`
	CreatedAt          time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// AdvertisementRequest is the body for creating an advertisement
type AdvertisementRequest struct {
	ProductName        string   `json:"productName" validate:"required,max=100"`
	ProductDescription string   `json:"productDescription" validate:"required,max=1000"`
	TargetAudience     string   `json:"targetAudience" validate:"max=200"`
	Budget             float64  `json:"budget" validate:"gte=0"`
	CampaignDuration   string   `json:"campaignDuration" validate:"required"`
	Category           string   `json:"category" validate:"required"`
	KeyFeatures        []string `json:"keyFeatures"`
	ImageURL           string   `json:"imageUrl"`
}

// AdvertisementUpdateRequest is the body for editing a listing. Absent
// fields keep their stored value.
type AdvertisementUpdateRequest struct {
	ProductName        *string  `json:"productName" validate:"omitempty,max=100"`
	ProductDescription *string  `json:"productDescription" validate:"omitempty,max=1000"`
	TargetAudience     *string  `json:"targetAudience" validate:"omitempty,max=200"`
	Budget             *float64 `json:"budget"`
	CampaignDuration   *string  `json:"campaignDuration"`
	Category           *string  `json:"category"`
	KeyFeatures        []string `json:"keyFeatures"`
	ImageURL           *string  `json:"imageUrl"`
}

// AdvertisementStatusRequest is the body for a visibility change
type AdvertisementStatusRequest struct {
	Status AdvertisementStatus `json:"status"`
}

// AdvertisementSummary is the slice of an advertisement shown next to an application
type AdvertisementSummary struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id"`
	ProductName   string              `json:"productName" bson:"productName"`
	Budget        float64             `json:"budget" bson:"budget"`
	Category      string              `json:"category" bson:"category"`
	Status        AdvertisementStatus `json:"status" bson:"status"`
	OwnerClientID primitive.ObjectID  `json:"clientId" bson:"client"`
	Client        *ClientSummary      `json:"client,omitempty" bson:"-"`
}

// Summary returns the display fields of the advertisement
func (a *Advertisement) Summary() AdvertisementSummary {
	return AdvertisementSummary{
		ID:            a.ID,
		ProductName:   a.ProductName,
		Budget:        a.Budget,
		Category:      a.Category,
		Status:        a.Status,
		OwnerClientID: a.OwnerClientID,
	}
}
