package domain

// Product lives in the "ecommerce" collection. ProductID is the stable
// catalog identifier used by carts, orders and wishlists; the Mongo _id is
// storage-internal and never referenced across collections.
type Product struct {
	ID                 string   `bson:"_id,omitempty" json:"_id,omitempty"`
	ProductID          int64    `bson:"id" json:"id"`
	Title              string   `bson:"title" json:"title"`
	Description        string   `bson:"description,omitempty" json:"description,omitempty"`
	Category           string   `bson:"category,omitempty" json:"category,omitempty"`
	Price              float64  `bson:"price" json:"price"`
	DiscountPercentage float64  `bson:"discountPercentage,omitempty" json:"discountPercentage,omitempty"`
	Rating             float64  `bson:"rating,omitempty" json:"rating,omitempty"`
	Stock              int      `bson:"stock" json:"stock"`
	Brand              string   `bson:"brand,omitempty" json:"brand,omitempty"`
	Thumbnail          string   `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Images             []string `bson:"images,omitempty" json:"images,omitempty"`
	VendorID           string   `bson:"vendorId,omitempty" json:"vendorId,omitempty"`
}

// ProductSummary is the compact catalog line handed to the relevance
// collaborator for AI-assisted search.
type ProductSummary struct {
	ProductID int64  `bson:"id" json:"id"`
	Title     string `bson:"title" json:"title"`
	Brand     string `bson:"brand" json:"brand"`
	Category  string `bson:"category" json:"category"`
}
