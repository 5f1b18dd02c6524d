package domain

type Wishlist struct {
	ID     string  `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID string  `bson:"user_id" json:"user_id"`
	Items  []int64 `bson:"items" json:"items"`
}
