package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product categories accepted by the catalog.
const (
	CategoryElectronics = "Electronics"
	CategoryClothing    = "Clothing"
	CategoryBooks       = "Books"
	CategoryOther       = "Other"
)

// ValidCategory reports whether s is one of the accepted product categories.
func ValidCategory(s string) bool {
	switch s {
	case CategoryElectronics, CategoryClothing, CategoryBooks, CategoryOther:
		return true
	}
	return false
}

// Product represents a catalog entry in the `products` collection. Image
// holds the public URL of the product photo in object storage. Ratings are
// individual scores between 1 and 5.
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Price        float64            `bson:"price" json:"price"`
	Category     string             `bson:"category" json:"category"`
	Manufacturer string             `bson:"manufacturer,omitempty" json:"manufacturer,omitempty"`
	Image        string             `bson:"image,omitempty" json:"image,omitempty"`
	Rating       []int              `bson:"rating,omitempty" json:"rating,omitempty"`
}
