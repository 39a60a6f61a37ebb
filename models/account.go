package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AgencySummary is the agency part of an application view
type AgencySummary struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Fullname   string             `json:"fullname" bson:"fullname"`
	AgencyName string             `json:"agencyName" bson:"agencyName"`
	Email      string             `json:"email" bson:"email"`
}

// ClientSummary is the advertiser shown next to an advertisement
type ClientSummary struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Fullname string             `json:"fullname" bson:"fullname"`
	Company  string             `json:"company" bson:"company"`
}

// AdminAnalytics holds the platform totals shown on the admin dashboard
type AdminAnalytics struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalClients      int64 `json:"totalClients"`
	TotalAgencies     int64 `json:"totalAgencies"`
	TotalAds          int64 `json:"totalAds"`
	TotalApplications int64 `json:"totalApplications"`
	ActiveCampaigns   int64 `json:"activeCampaigns"`
	PausedCampaigns   int64 `json:"pausedCampaigns"`
}
