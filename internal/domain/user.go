package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Address struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	Street     string             `bson:"street" json:"street"`
	City       string             `bson:"city" json:"city"`
	State      string             `bson:"state" json:"state"`
	PostalCode string             `bson:"postalCode" json:"postalCode"`
	Country    string             `bson:"country" json:"country"`
	IsDefault  bool               `bson:"isDefault" json:"isDefault"`
}

type User struct {
	ID        string    `bson:"_id,omitempty" json:"_id,omitempty"`
	Username  string    `bson:"username" json:"username"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	UserID    string    `bson:"user_id" json:"user_id"`
	DOB       time.Time `bson:"DOB" json:"DOB"`
	Addresses []Address `bson:"addresses" json:"addresses"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
