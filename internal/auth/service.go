package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/coffeecarriers/coffee-carriers/internal/maker"
	"github.com/coffeecarriers/coffee-carriers/internal/sipper"
	"github.com/coffeecarriers/coffee-carriers/internal/user"
)

var ErrValidation = errors.New("validation")

const defaultSipperRadiusKM = 5

type Service struct {
	users    user.Repository
	makers   maker.Repository
	sippers  sipper.Repository
	sessions SessionStore
}

func NewService(users user.Repository, makers maker.Repository, sippers sipper.Repository, sessions SessionStore) *Service {
	return &Service{users: users, makers: makers, sippers: sippers, sessions: sessions}
}

// Register creates the account row and its role profile. The writes are not
// atomic: when the profile insert fails the user row is deleted again as a
// best-effort compensation.
func (s *Service) Register(ctx context.Context, email, password, displayName string, role Role) (*user.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	displayName = strings.TrimSpace(displayName)
	if email == "" || password == "" || displayName == "" {
		return nil, fmt.Errorf("%w: email, password and display name are required", ErrValidation)
	}
	if role != RoleMaker && role != RoleSipper {
		return nil, fmt.Errorf("%w: invalid role", ErrValidation)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &user.User{
		ID:                uuid.NewString(),
		Email:             email,
		Role:              string(role),
		DisplayName:       displayName,
		PasswordHash:      hash,
		IsVerified:        false,
		IsActive:          true,
		PreferredLanguage: "en",
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	var profileErr error
	switch role {
	case RoleMaker:
		profileErr = s.makers.Create(ctx, &maker.Profile{
			ID:       uuid.NewString(),
			UserID:   u.ID,
			ShopName: displayName,
		})
	case RoleSipper:
		profileErr = s.sippers.Create(ctx, &sipper.Profile{
			ID:                uuid.NewString(),
			UserID:            u.ID,
			PreferredRadiusKM: defaultSipperRadiusKM,
		})
	}
	if profileErr != nil {
		_, _ = s.users.Delete(ctx, u.ID)
		return nil, profileErr
	}
	return u, nil
}

// SignIn verifies credentials and issues a session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, *user.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", nil, ErrBadCredentials
		}
		return "", nil, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return "", nil, ErrBadCredentials
	}
	if !u.IsActive {
		return "", nil, ErrInactiveAccount
	}
	token, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// ResolveIdentity turns a session token into a Principal. Role and profile
// ids come from the store on every call; the session carries only identity.
func (s *Service) ResolveIdentity(ctx context.Context, token string) (*Principal, error) {
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	if !u.IsActive {
		return nil, ErrUnauthenticated
	}

	p := &Principal{UserID: u.ID, Role: Role(u.Role), DisplayName: u.DisplayName}
	switch p.Role {
	case RoleMaker:
		if mp, err := s.makers.GetByUserID(ctx, u.ID); err == nil {
			p.MakerID = mp.ID
		}
	case RoleSipper:
		if sp, err := s.sippers.GetByUserID(ctx, u.ID); err == nil {
			p.SipperID = sp.ID
		}
	}
	return p, nil
}
