package domain

import "time"

type Vendor struct {
	ID          string    `bson:"_id,omitempty" json:"_id,omitempty"`
	CompanyName string    `bson:"companyName" json:"companyName"`
	Email       string    `bson:"email" json:"email"`
	Password    string    `bson:"password" json:"-"`
	VendorID    string    `bson:"vendor_id" json:"vendor_id"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
