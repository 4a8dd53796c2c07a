package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coffeecarriers/coffee-carriers/internal/auth"
	"github.com/coffeecarriers/coffee-carriers/internal/catalog"
)

var (
	ErrEmptyOrder       = errors.New("order has no items")
	ErrProductsNotFound = errors.New("products not found")
	ErrValidation       = errors.New("validation")
)

const orderNumberPrefix = "CC-"

// ProductSource resolves the catalog rows an order snapshots; satisfied by
// catalog.Repository.
type ProductSource interface {
	GetByIDs(ctx context.Context, ids []string) ([]catalog.Product, error)
}

type LineInput struct {
	ProductID string
	Quantity  int
}

type Service struct {
	repo     Repository
	products ProductSource
	now      func() time.Time
}

func NewService(repo Repository, products ProductSource) *Service {
	return &Service{repo: repo, products: products, now: time.Now}
}

// Place creates a pending order against one maker's catalog, snapshotting
// product names and unit prices so later edits cannot change it.
func (s *Service) Place(ctx context.Context, principal auth.Principal, makerID string, lines []LineInput, notes string) (*Order, error) {
	if !principal.IsSipper() {
		return nil, auth.ErrForbidden
	}
	if makerID == "" {
		return nil, fmt.Errorf("%w: makerId is required", ErrValidation)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
		}
		ids = append(ids, l.ProductID)
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	o := &Order{
		ID:            uuid.NewString(),
		OrderNumber:   fmt.Sprintf("%s%d", orderNumberPrefix, s.now().UnixMilli()),
		SipperID:      principal.SipperID,
		MakerID:       makerID,
		Status:        StatusPending,
		Notes:         notes,
		PaymentStatus: PaymentUnpaid,
	}

	total := decimal.Zero
	items := make([]Item, 0, len(lines))
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			return nil, ErrProductsNotFound
		}
		unit, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("product %s has malformed price: %w", p.ID, err)
		}
		subtotal := unit.Mul(decimal.NewFromInt(int64(l.Quantity)))
		total = total.Add(subtotal)
		items = append(items, Item{
			ID:          uuid.NewString(),
			OrderID:     o.ID,
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    l.Quantity,
			UnitPrice:   unit.StringFixed(2),
			Subtotal:    subtotal.StringFixed(2),
		})
	}
	o.TotalAmount = total.StringFixed(2)

	if err := s.repo.Create(ctx, o, items); err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// Advance moves the order exactly one step along the fixed sequence. Only
// the owning maker may call it.
func (s *Service) Advance(ctx context.Context, principal auth.Principal, orderID string) (*Order, error) {
	o, err := s.ownedByMaker(ctx, principal, orderID)
	if err != nil {
		return nil, err
	}
	next, err := o.Status.Next()
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, o, next)
}

// Cancel is legal from any non-terminal state. Cancelling a completed or
// already-cancelled order is a hard error, never a silent no-op.
func (s *Service) Cancel(ctx context.Context, principal auth.Principal, orderID string) (*Order, error) {
	o, err := s.ownedByMaker(ctx, principal, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanCancel() {
		return nil, ErrInvalidTransition
	}
	return s.transition(ctx, o, StatusCancelled)
}

// SetStatus serves the HTTP surface, which names a target status. The target
// must be the current status's successor, or cancelled; anything else is an
// attempt to skip states and fails.
func (s *Service) SetStatus(ctx context.Context, principal auth.Principal, orderID string, target Status) (*Order, error) {
	if !target.Valid() || target == StatusPending {
		return nil, fmt.Errorf("%w: invalid status", ErrValidation)
	}
	if target == StatusCancelled {
		return s.Cancel(ctx, principal, orderID)
	}
	o, err := s.ownedByMaker(ctx, principal, orderID)
	if err != nil {
		return nil, err
	}
	next, err := o.Status.Next()
	if err != nil {
		return nil, err
	}
	if target != next {
		return nil, ErrInvalidTransition
	}
	return s.transition(ctx, o, next)
}

// ListForPrincipal returns the caller's own orders: placed orders for a
// sipper, received orders for a maker, nothing for anyone else.
func (s *Service) ListForPrincipal(ctx context.Context, principal auth.Principal) ([]Order, error) {
	switch {
	case principal.IsSipper():
		return s.repo.ListBySipper(ctx, principal.SipperID)
	case principal.IsMaker():
		return s.repo.ListByMaker(ctx, principal.MakerID)
	}
	return []Order{}, nil
}

// GetForPrincipal fetches one order, visible only to its sipper or maker.
func (s *Service) GetForPrincipal(ctx context.Context, principal auth.Principal, orderID string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.SipperID != principal.SipperID && o.MakerID != principal.MakerID {
		return nil, auth.ErrForbidden
	}
	return o, nil
}

func (s *Service) ownedByMaker(ctx context.Context, principal auth.Principal, orderID string) (*Order, error) {
	if !principal.IsMaker() {
		return nil, auth.ErrForbidden
	}
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.MakerID != principal.MakerID {
		return nil, auth.ErrForbidden
	}
	return o, nil
}

func (s *Service) transition(ctx context.Context, o *Order, to Status) (*Order, error) {
	if err := s.repo.UpdateStatus(ctx, o.ID, o.Status, to); err != nil {
		return nil, err
	}
	o.Status = to
	o.UpdatedAt = s.now()
	return o, nil
}
