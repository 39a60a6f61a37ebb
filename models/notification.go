package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusChangeEvent is pushed to the parties of an application after a
// committed transition
type StatusChangeEvent struct {
	ApplicationID   primitive.ObjectID `json:"applicationId"`
	AdvertisementID primitive.ObjectID `json:"advertisementId"`
	Action          string             `json:"action"`
	From            ApplicationStatus  `json:"from"`
	To              ApplicationStatus  `json:"to"`
	At              time.Time          `json:"at"`
}
