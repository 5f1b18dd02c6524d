package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/premOFbounteous/backFinal/internal/auth"
	"github.com/premOFbounteous/backFinal/internal/domain"
	"github.com/premOFbounteous/backFinal/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

var dobLayouts = []string{"2006-01-02", time.RFC3339}

type AddressInput struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (a AddressInput) complete() bool {
	return a.Street != "" && a.City != "" && a.State != "" && a.PostalCode != "" && a.Country != ""
}

type RegisterInput struct {
	Username string        `json:"username"`
	Email    string        `json:"email"`
	Password string        `json:"password"`
	DOB      string        `json:"DOB"`
	Address  *AddressInput `json:"address"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type UserService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
}

func NewUserService(users repository.UserRepository, tokens *auth.TokenManager) *UserService {
	return &UserService{users: users, tokens: tokens}
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (string, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" || input.DOB == "" ||
		input.Address == nil || !input.Address.complete() {
		return "", &ValidationError{Detail: "Username, email, password, DOB, and a complete address object are required"}
	}

	dob, err := parseDOB(input.DOB)
	if err != nil {
		return "", &ValidationError{Detail: `Invalid DOB format. Please use a valid date string like "YYYY-MM-DD".`}
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return "", &InvalidStateError{Detail: "Email already registered"}
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return "", fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return "", &InvalidStateError{Detail: "Username taken"}
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return "", fmt.Errorf("failed to check username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	userID := uuid.NewString()
	user := &domain.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashed),
		UserID:   userID,
		DOB:      dob,
		Addresses: []domain.Address{{
			ID:         primitive.NewObjectID(),
			Street:     input.Address.Street,
			City:       input.Address.City,
			State:      input.Address.State,
			PostalCode: input.Address.PostalCode,
			Country:    input.Address.Country,
			IsDefault:  true,
		}},
		CreatedAt: time.Now(),
	}

	if err := s.users.Insert(ctx, user); err != nil {
		return "", err
	}
	return userID, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	if email == "" || password == "" {
		return nil, &ValidationError{Detail: "email and password are required"}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, &AuthenticationError{Detail: "Invalid credentials"}
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, &AuthenticationError{Detail: "Invalid credentials"}
	}

	return s.issueTokens(user.UserID)
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, &ValidationError{Detail: "refresh_token is required"}
	}

	claims, err := s.tokens.Verify(refreshToken)
	if err != nil || claims.Role != auth.RoleUser || claims.UserID == "" {
		return nil, &AuthenticationError{Detail: "Invalid or expired refresh token"}
	}

	return s.issueTokens(claims.UserID)
}

func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, &NotFoundError{Detail: "User profile not found"}
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Addresses(ctx context.Context, userID string) ([]domain.Address, error) {
	user, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, &NotFoundError{Detail: "User not found"}
		}
		return nil, err
	}
	if user.Addresses == nil {
		return []domain.Address{}, nil
	}
	return user.Addresses, nil
}

func (s *UserService) AddAddress(ctx context.Context, userID string, input AddressInput) (*domain.Address, error) {
	if !input.complete() {
		return nil, &ValidationError{Detail: "A complete address object is required"}
	}

	address := domain.Address{
		ID:         primitive.NewObjectID(),
		Street:     input.Street,
		City:       input.City,
		State:      input.State,
		PostalCode: input.PostalCode,
		Country:    input.Country,
		IsDefault:  false,
	}
	if err := s.users.AddAddress(ctx, userID, address); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, &NotFoundError{Detail: "User not found"}
		}
		return nil, err
	}
	return &address, nil
}

func (s *UserService) UpdateAddress(ctx context.Context, userID, addressID string, input AddressInput) error {
	err := s.users.UpdateAddress(ctx, userID, addressID, domain.Address{
		Street:     input.Street,
		City:       input.City,
		State:      input.State,
		PostalCode: input.PostalCode,
		Country:    input.Country,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return &NotFoundError{Detail: "Address not found for this user"}
		}
		return err
	}
	return nil
}

func (s *UserService) RemoveAddress(ctx context.Context, userID, addressID string) error {
	return s.users.RemoveAddress(ctx, userID, addressID)
}

func (s *UserService) issueTokens(userID string) (*TokenPair, error) {
	access, err := s.tokens.CreateAccessToken(userID, "", auth.RoleUser)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.CreateRefreshToken(userID, "", auth.RoleUser)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func parseDOB(value string) (time.Time, error) {
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
