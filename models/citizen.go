package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Citizen represents a registered citizen account
type Citizen struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"-"`
	Phone     string             `bson:"phone" json:"phone"`
	Email     string             `bson:"email" json:"email,omitempty"`
	CreatedAt primitive.DateTime `bson:"created_at" json:"createdAt"`
}

// RegisterRequest is the payload for citizen registration
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// LoginRequest is the payload for citizen login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the session token back to the client
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
