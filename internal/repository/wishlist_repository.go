package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/premOFbounteous/backFinal/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrWishlistNotFound = errors.New("wishlist not found")

type WishlistRepository interface {
	Get(ctx context.Context, userID string) (*domain.Wishlist, error)
	AddItem(ctx context.Context, userID string, productID int64) error
	RemoveItem(ctx context.Context, userID string, productID int64) error
}

type wishlistRepository struct {
	collection *mongo.Collection
}

func NewWishlistRepository(db *mongo.Database) WishlistRepository {
	return &wishlistRepository{collection: db.Collection("wishlists")}
}

func (r *wishlistRepository) Get(ctx context.Context, userID string) (*domain.Wishlist, error) {
	var wishlist domain.Wishlist

	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&wishlist)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrWishlistNotFound
		}
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}
	return &wishlist, nil
}

func (r *wishlistRepository) AddItem(ctx context.Context, userID string, productID int64) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{"$addToSet": bson.M{"items": productID}}
	opts := options.Update().SetUpsert(true)

	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return nil
}

func (r *wishlistRepository) RemoveItem(ctx context.Context, userID string, productID int64) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{"$pull": bson.M{"items": productID}}

	if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return nil
}
