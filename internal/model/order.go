package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Billing methods accepted when placing an order.
const (
	BillingCreditCard    = "Credit Card"
	BillingDebitCard     = "Debit Card"
	BillingNetBanking    = "Net Banking"
	BillingUPI           = "UPI"
	BillingPayOnDelivery = "Pay on Delivery"
)

// Order statuses, in rough lifecycle order.
const (
	StatusPending    = "Pending"
	StatusAccepted   = "Accepted"
	StatusRejected   = "Rejected"
	StatusPacked     = "Packed"
	StatusDispatched = "Dispatched"
	StatusDelivered  = "Delivered"
	StatusReturned   = "Returned"
)

// ValidBilling reports whether s is an accepted billing method.
func ValidBilling(s string) bool {
	switch s {
	case BillingCreditCard, BillingDebitCard, BillingNetBanking, BillingUPI, BillingPayOnDelivery:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusPacked,
		StatusDispatched, StatusDelivered, StatusReturned:
		return true
	}
	return false
}

// Order represents a document in the `orders` collection. Products and
// Quantities are parallel slices: Quantities[i] is the amount ordered of
// Products[i].
type Order struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	User               primitive.ObjectID   `bson:"user" json:"user"`
	Products           []primitive.ObjectID `bson:"products" json:"products"`
	Quantities         []int                `bson:"quantities" json:"quantities"`
	TotalAmount        float64              `bson:"totalAmount" json:"totalAmount"`
	OrderDate          time.Time            `bson:"orderDate" json:"orderDate"`
	BillingInformation string               `bson:"billingInformation" json:"billingInformation"`
	Status             string               `bson:"status" json:"status"`
}
