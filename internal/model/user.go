package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles assignable to a user. Customer is the default for new accounts;
// the remaining roles gate administrative endpoints.
const (
	RoleAdmin           = "admin"
	RoleOrderManagement = "orderManagement"
	RoleDelivery        = "delivery"
	RoleCustomer        = "customer"
)

// User represents an account document in the `users` collection. The
// username holds the account's email address and carries a unique index.
// The password hash is never serialized outward.
//
// Token fields:
//  ActivateToken – pending activation token, cleared once the account is activated.
//  RefreshToken  – the single live refresh token for the account; clearing it
//                  revokes the session server-side.
//  ResetToken    – pending password-reset token, deleted after one use.
type User struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	FullName    string               `bson:"fullName" json:"fullName"`
	Username    string               `bson:"username" json:"username"`
	Password    string               `bson:"password" json:"-"`
	Address     string               `bson:"address,omitempty" json:"address,omitempty"`
	PhoneNumber string               `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Orders      []primitive.ObjectID `bson:"orders,omitempty" json:"orders,omitempty"`
	Role        string               `bson:"role" json:"role"`
	IsActivated bool                 `bson:"isActivated" json:"isActivated"`

	ActivateToken string `bson:"activateToken,omitempty" json:"-"`
	RefreshToken  string `bson:"refreshToken,omitempty" json:"-"`
	ResetToken    string `bson:"resetToken,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
