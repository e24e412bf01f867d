// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPlacedEvent is published when a customer order is successfully
// created. It contains enough information for downstream consumers to log
// or trigger back-office processing without querying the primary database.
type OrderPlacedEvent struct {
	OrderID            string   `json:"order_id"`
	UserID             string   `json:"user_id"`
	ProductIDs         []string `json:"product_ids"`
	Quantities         []int    `json:"quantities"`
	TotalAmount        float64  `json:"total_amount"`
	BillingInformation string   `json:"billing_information"`
	Status             string   `json:"status"`
	PlacedAt           string   `json:"placed_at"`
}
