package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"garageQueue/internal/apperr"
	"garageQueue/models"
	"garageQueue/repository"
)

// ProfileService manages the profile row that mirrors each identity.
type ProfileService struct {
	profiles repository.ProfileRepositoryI
	log      *zap.Logger
	validate *validator.Validate
}

// NewProfileService wires profile commands to a profile store.
func NewProfileService(profiles repository.ProfileRepositoryI, log *zap.Logger) *ProfileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileService{profiles: profiles, log: log, validate: newValidator()}
}

// RegisterRequest is the sign-up form. ID is the identity provider's user id.
type RegisterRequest struct {
	ID       string `json:"id" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
}

type contactForm struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

// Register creates the profile for a freshly created identity. New profiles
// are always plain users; admins are promoted out of band.
func (s *ProfileService) Register(ctx context.Context, req RegisterRequest) (*models.Profile, error) {
	req.ID = strings.TrimSpace(req.ID)
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}
	p, err := s.profiles.Create(ctx, &models.Profile{
		ID:       req.ID,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     models.RoleUser,
	})
	if err != nil {
		s.log.Error("register profile", zap.String("id", req.ID), zap.Error(err))
		return nil, err
	}
	return p, nil
}

// LookupEmail resolves a login identifier to the email the identity
// provider expects. Anything containing "@" is already an email; otherwise
// it is treated as a phone number.
func (s *ProfileService) LookupEmail(ctx context.Context, identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", apperr.NewValidationError("identifier", "is required")
	}
	if strings.Contains(identifier, "@") {
		return identifier, nil
	}
	p, err := s.profiles.GetByPhone(ctx, identifier)
	if err != nil {
		return "", err
	}
	if p == nil || p.Email == "" {
		return "", apperr.Store("lookup email", apperr.ErrNotFound)
	}
	return p.Email, nil
}

// Get returns the profile of id.
func (s *ProfileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &apperr.AuthRequiredError{Reason: "no profile id"}
	}
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.Store("get profile", apperr.ErrNotFound)
	}
	return p, nil
}

// UpdateContact changes name and phone. Email is fixed once registered.
func (s *ProfileService) UpdateContact(ctx context.Context, id, fullName, phone string) error {
	if strings.TrimSpace(id) == "" {
		return &apperr.AuthRequiredError{Reason: "no profile id"}
	}
	form := contactForm{FullName: strings.TrimSpace(fullName), Phone: strings.TrimSpace(phone)}
	if err := validateStruct(s.validate, form); err != nil {
		return err
	}
	return s.profiles.UpdateContact(ctx, id, form.FullName, form.Phone)
}

// Promote grants the admin role to an existing profile.
func (s *ProfileService) Promote(ctx context.Context, id string) error {
	if err := s.profiles.UpdateRole(ctx, id, models.RoleAdmin); err != nil {
		return err
	}
	s.log.Info("profile promoted to admin", zap.String("id", id))
	return nil
}

// List pages through profiles ordered by id.
func (s *ProfileService) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	return s.profiles.List(ctx, limit, offset)
}
