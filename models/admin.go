package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Admin represents a station administrator account, provisioned from the
// environment at startup rather than through any registration flow
type Admin struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AdminID     string             `bson:"admin_id" json:"adminId"`
	Password    string             `bson:"password" json:"-"`
	StationName string             `bson:"station_name" json:"stationName"`
}

// AdminLoginRequest is the payload for administrator login
type AdminLoginRequest struct {
	AdminID  string `json:"admin_id"`
	Password string `json:"password"`
}

// AdminLoginResponse carries the signed admin token back to the client
type AdminLoginResponse struct {
	Token       string `json:"token"`
	AdminID     string `json:"adminId"`
	StationName string `json:"stationName"`
}
