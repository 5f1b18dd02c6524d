package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/premOFbounteous/backFinal/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAddressNotFound = errors.New("address not found for this user")
)

type UserRepository interface {
	Insert(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByUserID(ctx context.Context, userID string) (*domain.User, error)
	FindAddress(ctx context.Context, userID, addressID string) (*domain.User, *domain.Address, error)
	AddAddress(ctx context.Context, userID string, address domain.Address) error
	UpdateAddress(ctx context.Context, userID, addressID string, address domain.Address) error
	RemoveAddress(ctx context.Context, userID, addressID string) error
}

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{collection: db.Collection("users")}
}

func (r *userRepository) Insert(ctx context.Context, user *domain.User) error {
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepository) FindByUserID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

// FindAddress loads the user and the address matching the selector in one
// lookup, so callers can distinguish a missing user from a missing address.
func (r *userRepository) FindAddress(ctx context.Context, userID, addressID string) (*domain.User, *domain.Address, error) {
	user, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	for i := range user.Addresses {
		if user.Addresses[i].ID.Hex() == addressID {
			return user, &user.Addresses[i], nil
		}
	}
	return nil, nil, ErrAddressNotFound
}

func (r *userRepository) AddAddress(ctx context.Context, userID string, address domain.Address) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{"$push": bson.M{"addresses": address}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to add address: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateAddress rewrites the mutable fields of one address, preserving its
// isDefault flag.
func (r *userRepository) UpdateAddress(ctx context.Context, userID, addressID string, address domain.Address) error {
	oid, err := primitive.ObjectIDFromHex(addressID)
	if err != nil {
		return ErrAddressNotFound
	}

	filter := bson.M{"user_id": userID, "addresses._id": oid}
	update := bson.M{"$set": bson.M{
		"addresses.$.street":     address.Street,
		"addresses.$.city":       address.City,
		"addresses.$.state":      address.State,
		"addresses.$.postalCode": address.PostalCode,
		"addresses.$.country":    address.Country,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (r *userRepository) RemoveAddress(ctx context.Context, userID, addressID string) error {
	oid, err := primitive.ObjectIDFromHex(addressID)
	if err != nil {
		return ErrAddressNotFound
	}

	filter := bson.M{"user_id": userID}
	update := bson.M{"$pull": bson.M{"addresses": bson.M{"_id": oid}}}

	if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to remove address: %w", err)
	}
	return nil
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User

	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
