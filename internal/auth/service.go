package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	Name                        string
	PhoneNumber                 string
	Email                       *string
	Password                    string
	Role                        Role
	LocationPincode             string
	TypeOfFood                  *string
	BusinessRegistrationDetails *string
}

// Register hashes the password and creates the account with its profile.
func (s *Service) Register(ctx context.Context, in RegisterInput) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("auth: hash password: %w", err)
	}
	return s.repo.Register(ctx, Registration{
		Name:                        in.Name,
		PhoneNumber:                 in.PhoneNumber,
		Email:                       in.Email,
		PasswordHash:                string(hash),
		Role:                        in.Role,
		LocationPincode:             in.LocationPincode,
		TypeOfFood:                  in.TypeOfFood,
		BusinessRegistrationDetails: in.BusinessRegistrationDetails,
	})
}

// Authenticate validates phone/email plus password credentials.
func (s *Service) Authenticate(ctx context.Context, identity, password string) (*User, error) {
	user, err := s.repo.FindByIdentity(ctx, identity)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Lookup resolves a user by id, used by the principal middleware.
func (s *Service) Lookup(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
