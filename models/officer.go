package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Officer is a station-scoped assignable investigator. Officers are not
// authenticated actors; they exist to be assigned to reports.
type Officer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	BadgeID     string             `bson:"badge_id" json:"badgeId"`
	StationName string             `bson:"station_name" json:"stationName"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	CreatedAt   primitive.DateTime `bson:"created_at" json:"createdAt"`
}

// AddOfficerRequest is the payload for an administrator adding an officer
// to their own station roster
type AddOfficerRequest struct {
	Name    string `json:"name"`
	BadgeID string `json:"badge_id"`
}
