package domain

type Cart struct {
	ID     string     `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID string     `bson:"user_id" json:"user_id"`
	Items  []CartItem `bson:"items" json:"items"`
}

type CartItem struct {
	ProductID int64 `bson:"product_id" json:"product_id"`
	Quantity  int   `bson:"quantity" json:"quantity"`
}
