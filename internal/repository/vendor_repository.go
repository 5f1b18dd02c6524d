package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/premOFbounteous/backFinal/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrVendorNotFound = errors.New("vendor not found")

type VendorRepository interface {
	Insert(ctx context.Context, vendor *domain.Vendor) error
	FindByEmail(ctx context.Context, email string) (*domain.Vendor, error)
}

type vendorRepository struct {
	collection *mongo.Collection
}

func NewVendorRepository(db *mongo.Database) VendorRepository {
	return &vendorRepository{collection: db.Collection("vendors")}
}

func (r *vendorRepository) Insert(ctx context.Context, vendor *domain.Vendor) error {
	if _, err := r.collection.InsertOne(ctx, vendor); err != nil {
		return fmt.Errorf("failed to insert vendor: %w", err)
	}
	return nil
}

func (r *vendorRepository) FindByEmail(ctx context.Context, email string) (*domain.Vendor, error) {
	var vendor domain.Vendor

	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&vendor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrVendorNotFound
		}
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	return &vendor, nil
}
