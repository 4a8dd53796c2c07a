package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coffeecarriers/coffee-carriers/internal/auth"
)

var ErrValidation = errors.New("validation")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func parsePrice(raw string) (string, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: price must be a decimal number", ErrValidation)
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return "", fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	return price.StringFixed(2), nil
}

func (s *Service) Create(ctx context.Context, principal auth.Principal, p *Product) (*Product, error) {
	if !principal.IsMaker() {
		return nil, auth.ErrForbidden
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !p.Category.Valid() {
		return nil, fmt.Errorf("%w: invalid category", ErrValidation)
	}
	price, err := parsePrice(p.Price)
	if err != nil {
		return nil, err
	}

	p.ID = uuid.NewString()
	p.MakerID = principal.MakerID
	p.Name = strings.TrimSpace(p.Name)
	p.Price = price
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, principal auth.Principal, id string, upd Update) (*Product, error) {
	if err := s.checkOwnership(ctx, principal, id); err != nil {
		return nil, err
	}
	if upd.Price != nil {
		price, err := parsePrice(*upd.Price)
		if err != nil {
			return nil, err
		}
		upd.Price = &price
	}
	if upd.Category != nil && !upd.Category.Valid() {
		return nil, fmt.Errorf("%w: invalid category", ErrValidation)
	}
	if err := s.repo.Update(ctx, id, upd); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, principal auth.Principal, id string) error {
	if err := s.checkOwnership(ctx, principal, id); err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) checkOwnership(ctx context.Context, principal auth.Principal, productID string) error {
	if !principal.IsMaker() {
		return auth.ErrForbidden
	}
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p.MakerID != principal.MakerID {
		return auth.ErrForbidden
	}
	return nil
}
