package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Role     string
	Gender   string
}

func (s *Services) Register(ctx context.Context, in RegisterInput) (models.Profile, error) {
	role := in.Role
	if role == "" {
		role = models.RoleStudent
	}
	if role != models.RoleStudent && role != models.RoleTeacher {
		return models.Profile{}, fmt.Errorf("%w: cannot self-register as %q", ErrInvalidInput, role)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Profile{}, fmt.Errorf("hash password: %w", err)
	}

	p := models.Profile{
		FullName:        in.FullName,
		Email:           strings.ToLower(strings.TrimSpace(in.Email)),
		Password:        string(hashed),
		Role:            role,
		MaxTrialLessons: models.DefaultMaxTrialLessons,
	}
	if in.Gender != "" {
		g := in.Gender
		p.Gender = &g
	}
	if role == models.RoleTeacher {
		pending := models.ApprovalPending
		p.ApprovalStatus = &pending
	}

	if err := s.store.CreateProfile(ctx, &p); err != nil {
		return models.Profile{}, err
	}

	go s.notify.Send(p.FullName, p.Email, "Welcome!", "<h1>Welcome!</h1><p>Thank you for registering.</p>")
	return p, nil
}

func (s *Services) Authenticate(ctx context.Context, email, password string) (models.Profile, error) {
	p, err := s.store.GetProfileByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Profile{}, ErrInvalidCredentials
		}
		return models.Profile{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.Password), []byte(password)); err != nil {
		return models.Profile{}, ErrInvalidCredentials
	}
	return p, nil
}

func (s *Services) Profile(ctx context.Context, id uuid.UUID) (models.Profile, error) {
	return s.store.GetProfile(ctx, id)
}

// ProfileUpdate carries the fields a user may edit on their own profile.
// Nil fields are left unchanged.
type ProfileUpdate struct {
	FullName   *string
	Gender     *string
	Bio        *string
	Subjects   []string
	Languages  []string
	Audiences  []string
	HourlyRate *int64
}

func (s *Services) UpdateOwnProfile(ctx context.Context, id uuid.UUID, in ProfileUpdate) (models.Profile, error) {
	p, err := s.store.GetProfile(ctx, id)
	if err != nil {
		return models.Profile{}, err
	}
	if in.FullName != nil {
		p.FullName = *in.FullName
	}
	if in.Gender != nil {
		p.Gender = in.Gender
	}
	if in.Bio != nil {
		p.Bio = in.Bio
	}
	if in.Subjects != nil {
		p.Subjects = in.Subjects
	}
	if in.Languages != nil {
		p.Languages = in.Languages
	}
	if in.Audiences != nil {
		p.Audiences = in.Audiences
	}
	if in.HourlyRate != nil {
		if p.Role != models.RoleTeacher {
			return models.Profile{}, fmt.Errorf("%w: only teachers have an hourly rate", ErrInvalidInput)
		}
		p.HourlyRate = in.HourlyRate
	}
	if err := s.store.UpdateProfile(ctx, &p); err != nil {
		return models.Profile{}, err
	}
	return s.store.GetProfile(ctx, id)
}
